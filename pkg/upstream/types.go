package upstream

import (
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/valyala/fasthttp"
)

const maxRedirects = 10

type UpstreamConnection struct {
	client  *fasthttp.Client
	headers map[string]string
}

// Response is a successful upstream reply. The body is owned by the caller.
type Response struct {
	Body        []byte
	StatusCode  int
	ContentType contenttype.MediaType
}

// Charset returns the charset parameter of the content type, if any.
func (r Response) Charset() string {
	return Charset(r.ContentType)
}

// Charset returns the charset parameter of mediaType, if any.
func Charset(mediaType contenttype.MediaType) string {
	for key, value := range mediaType.Parameters {
		if strings.EqualFold(key, "charset") {
			return value
		}
	}
	return ""
}
