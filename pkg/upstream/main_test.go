package upstream

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func startServer(t *testing.T, handler fasthttp.RequestHandler) *UpstreamConnection {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go server.Serve(ln)
	t.Cleanup(func() {
		ln.Close()
	})

	return NewUpstreamConnection(
		map[string]string{"User-Agent": "m3uflat-test"},
		5,
		WithDial(func(addr string) (net.Conn, error) { return ln.Dial() }),
	)
}

func TestGet(t *testing.T) {
	conn := startServer(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.UserAgent()) != "m3uflat-test" {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		ctx.SetContentType("audio/x-mpegurl; charset=ISO-8859-1")
		ctx.SetBodyString("#EXTM3U\nhttp://example.com/a.mp3\n")
	})

	resp, err := conn.Get("http://playlists.test/list.m3u")
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	if string(resp.Body) != "#EXTM3U\nhttp://example.com/a.mp3\n" {
		t.Errorf("Unexpected body: %q", resp.Body)
	}
	if resp.ContentType.Subtype != "x-mpegurl" {
		t.Errorf("Unexpected content type: %s", resp.ContentType.String())
	}
	if !strings.EqualFold(resp.Charset(), "ISO-8859-1") {
		t.Errorf("Unexpected charset. Expected: ISO-8859-1, Got: %s", resp.Charset())
	}
}

func TestGet_Redirect(t *testing.T) {
	conn := startServer(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == "/old.m3u" {
			ctx.Redirect("/new.m3u", fasthttp.StatusMovedPermanently)
			return
		}
		ctx.SetBodyString("new.mp3\n")
	})

	resp, err := conn.Get("http://playlists.test/old.m3u")
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	if string(resp.Body) != "new.mp3\n" {
		t.Errorf("Unexpected body: %q", resp.Body)
	}
}

func TestGet_ErrorStatus(t *testing.T) {
	conn := startServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})

	resp, err := conn.Get("http://playlists.test/missing.m3u")
	if err == nil {
		t.Fatal("Error should not be nil")
	}
	if resp.StatusCode != fasthttp.StatusNotFound {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", fasthttp.StatusNotFound, resp.StatusCode)
	}
}

func TestGet_NoContent(t *testing.T) {
	conn := startServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	})

	if _, err := conn.Get("http://playlists.test/empty.m3u"); !errors.Is(err, ErrNoContent) {
		t.Errorf("Unexpected error. Expected: %v, Got: %v", ErrNoContent, err)
	}
}
