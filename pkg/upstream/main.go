package upstream

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/valyala/fasthttp"
)

var ErrNoContent = errors.New("no content")

type Option func(*fasthttp.Client)

// WithDial replaces the dialer, tests use it with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(c *fasthttp.Client) {
		c.Dial = dial
	}
}

func NewUpstreamConnection(headers map[string]string, timeout int, opts ...Option) *UpstreamConnection {
	if timeout < 1 {
		timeout = 10
	}
	client := &fasthttp.Client{
		ReadTimeout:  time.Duration(timeout) * time.Second,
		WriteTimeout: time.Duration(timeout) * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return &UpstreamConnection{
		client:  client,
		headers: headers,
	}
}

// Get fetches uri following redirects. Non 2xx replies and empty 204
// replies are errors.
func (u *UpstreamConnection) Get(uri string) (Response, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	for key, value := range u.headers {
		req.Header.Set(key, value)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := u.client.DoRedirects(req, resp, maxRedirects); err != nil {
		return Response{}, fmt.Errorf("failed to fetch %s: %w", uri, err)
	}

	statusCode := resp.StatusCode()
	ct := contenttype.NewMediaType(string(resp.Header.ContentType()))
	if statusCode/100 != 2 {
		return Response{StatusCode: statusCode, ContentType: ct}, fmt.Errorf("http response code (%d)", statusCode)
	}
	if statusCode == fasthttp.StatusNoContent {
		return Response{StatusCode: statusCode, ContentType: ct}, ErrNoContent
	}

	dst := make([]byte, len(resp.Body()))
	copy(dst, resp.Body())
	return Response{
		Body:        dst,
		StatusCode:  statusCode,
		ContentType: ct,
	}, nil
}
