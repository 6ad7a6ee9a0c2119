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
package m3uprovider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/file"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/remote"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/types"
	"github.com/a13labs/m3uflat/pkg/upstream"
)

var ErrUnsupportedSource = errors.New("unsupported playlist source")

// NewProvider picks the provider for the source: local paths and file URLs
// are read from disk, http and https URLs are downloaded.
func NewProvider(config ProviderConfig, parser *m3uparser.Parser, opts ...upstream.Option) (types.M3UProvider, error) {
	if config.Source == "" {
		return nil, ErrMissingSource
	}

	location, err := m3uparser.NewLocation(config.Source, "")
	if err != nil {
		return nil, err
	}

	switch l := location.(type) {
	case *m3uparser.PathLocation:
		return file.NewM3UFileProvider(l.Path(), config, parser)
	case *m3uparser.URLLocation:
		scheme := strings.ToLower(l.URL().Scheme)
		if scheme != "http" && scheme != "https" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, config.Source)
		}
		if _, err := m3uparser.LookupCharset(config.Charset); err != nil {
			return nil, err
		}
		conn := upstream.NewUpstreamConnection(config.Headers, config.Timeout, opts...)
		return remote.NewM3URemoteProvider(l.String(), config, conn, parser), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, config.Source)
	}
}

// Load reads the entries of a single source.
func Load(config ProviderConfig, parser *m3uparser.Parser, opts ...upstream.Option) (m3uparser.Entries, error) {
	provider, err := NewProvider(config, parser, opts...)
	if err != nil {
		return nil, err
	}
	return provider.GetPlaylist()
}
