/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package playlistserver

import (
	"net/http"
	"strings"

	"github.com/a13labs/m3uflat/pkg/auth"
	"github.com/a13labs/m3uflat/pkg/logger"
)

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="Restricted"`)
	http.Error(w, "Forbidden", http.StatusUnauthorized)
}

// bearerAuth requires a valid token once a secret key is configured.
func bearerAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.Enabled() {
			next(w, r)
			return
		}

		authParts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(authParts) != 2 || authParts[0] != "Bearer" {
			unauthorized(w)
			return
		}

		subject, err := auth.GetSubjectFromToken(authParts[1])
		if err != nil {
			logger.Debugf("Rejected token for %s: %v", r.URL.Path, err)
			unauthorized(w)
			return
		}

		logger.Debugf("Request %s by %s", r.URL.Path, subject)
		next(w, r)
	}
}
