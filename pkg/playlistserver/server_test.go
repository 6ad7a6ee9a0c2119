package playlistserver

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a13labs/m3uflat/pkg/auth"
	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/a13labs/m3uflat/pkg/m3uprovider"
	"github.com/oschwald/geoip2-golang"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testPlaylist = `#EXTM3U
# a comment
#EXTINF:120 tvg-logo="logo.png",First
first.mp3
http://example.com/second.mp3
`

func init() {
	logger.SetOutput(io.Discard)
}

func newTestServer(t *testing.T, config ServerConfig) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "list.m3u")
	if err := os.WriteFile(path, []byte(testPlaylist), 0644); err != nil {
		t.Fatalf("Failed to write playlist: %v", err)
	}

	if config.Playlists == nil {
		config.Playlists = map[string]m3uprovider.ProviderConfig{}
	}
	config.Playlists["music"] = m3uprovider.ProviderConfig{Source: path}
	config.Playlists["broken"] = m3uprovider.ProviderConfig{Source: filepath.Join(dir, "missing.m3u")}

	server, err := NewServer(config)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(auth.Reset)
	return server.Handler(), dir
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != "OK" {
		t.Errorf("Unexpected body. Expected: OK, Got: %s", rr.Body.String())
	}
}

func TestGetPlaylist_M3U(t *testing.T) {
	handler, dir := newTestServer(t, DefaultConfig())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/playlists/music", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "audio/x-mpegurl") {
		t.Errorf("Unexpected content type: %s", rr.Header().Get("Content-Type"))
	}

	expected := "#EXTM3U\n" +
		"#EXTINF:120 tvg-logo=\"logo.png\",First\n" +
		filepath.Join(dir, "first.mp3") + "\n" +
		"http://example.com/second.mp3\n"
	if rr.Body.String() != expected {
		t.Errorf("Unexpected body. Expected: %q, Got: %q", expected, rr.Body.String())
	}
}

func TestGetPlaylist_JSON(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/playlists/music", nil)
	req.Header.Set("Accept", "application/json")
	rr := serve(handler, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Unexpected content type: %s", rr.Header().Get("Content-Type"))
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Unexpected number of entries. Expected: 2, Got: %d", len(entries))
	}
	if entries[0]["title"] != "First" {
		t.Errorf("Unexpected title. Expected: First, Got: %v", entries[0]["title"])
	}
	if entries[0]["logo"] != "logo.png" {
		t.Errorf("Unexpected logo. Expected: logo.png, Got: %v", entries[0]["logo"])
	}
}

func TestGetPlaylist_NotAcceptable(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/playlists/music", nil)
	req.Header.Set("Accept", "image/png")
	if rr := serve(handler, req); rr.Code != http.StatusNotAcceptable {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusNotAcceptable, rr.Code)
	}
}

func TestGetPlaylist_NotFound(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/playlists/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusNotFound, rr.Code)
	}
}

func TestGetPlaylist_ProviderFailure(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/playlists/broken", nil))
	if rr.Code != http.StatusBadGateway {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusBadGateway, rr.Code)
	}
}

func TestGetPlaylist_CountsDiagnostics(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	comments := DiagnosticsTotal.WithLabelValues("comment_ignored")
	before := testutil.ToFloat64(comments)
	servedBefore := testutil.ToFloat64(EntriesServed.WithLabelValues("music"))

	serve(handler, httptest.NewRequest(http.MethodGet, "/playlists/music", nil))

	if got := testutil.ToFloat64(comments) - before; got != 1 {
		t.Errorf("Unexpected diagnostics count. Expected: 1, Got: %v", got)
	}
	if got := testutil.ToFloat64(EntriesServed.WithLabelValues("music")) - servedBefore; got != 2 {
		t.Errorf("Unexpected entries served. Expected: 2, Got: %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())
	serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `m3uflat_http_requests_total{method="GET",route="/health",status="200"}`) {
		t.Errorf("Request metric not exported:\n%s", rr.Body.String())
	}
}

func TestParseRequest(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	body := "#EXTINF:5,Song\nsong.mp3\nhttp://example.com/a.mp3\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse?base=/music", strings.NewReader(body))
	req.Header.Set("Content-Type", "audio/x-mpegurl")
	rr := serve(handler, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Unexpected number of entries. Expected: 2, Got: %d", len(entries))
	}
	expected := filepath.Join("/music", "song.mp3")
	if entries[0]["location"] != expected {
		t.Errorf("Unexpected location. Expected: %s, Got: %v", expected, entries[0]["location"])
	}
}

func TestParseRequest_Charset(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("#EXTINF:5,Caf\xe9\nhttp://example.com/a.mp3\n"))
	req.Header.Set("Content-Type", "audio/x-mpegurl; charset=ISO-8859-1")
	rr := serve(handler, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"title":"Café"`) {
		t.Errorf("Title was not decoded: %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("a.mp3\n"))
	req.Header.Set("Content-Type", "audio/x-mpegurl; charset=no-such-charset")
	if rr := serve(handler, req); rr.Code != http.StatusBadRequest {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusBadRequest, rr.Code)
	}
}

func TestParseRequest_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestServer(t, DefaultConfig())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/api/v1/parse", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	config := DefaultConfig()
	config.Auth = auth.AuthConfig{SecretKey: "secret"}
	handler, _ := newTestServer(t, config)

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/playlists/music", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusUnauthorized, rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("Missing WWW-Authenticate header")
	}

	req := httptest.NewRequest(http.MethodGet, "/playlists/music", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if rr := serve(handler, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusUnauthorized, rr.Code)
	}

	token, err := auth.CreateToken("tv-box")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/playlists/music", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rr := serve(handler, req); rr.Code != http.StatusOK {
		t.Errorf("Unexpected status. Expected: %d, Got: %d", http.StatusOK, rr.Code)
	}

	if rr := serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil)); rr.Code != http.StatusOK {
		t.Errorf("Health check should not require a token, got: %d", rr.Code)
	}
}

type fakeLookup map[string]string

func (f fakeLookup) Country(ip net.IP) (*geoip2.Country, error) {
	code, ok := f[ip.String()]
	if !ok {
		return nil, errors.New("address not found")
	}
	record := &geoip2.Country{}
	record.Country.IsoCode = code
	return record, nil
}

func (fakeLookup) Close() error {
	return nil
}

func TestGeoFilter(t *testing.T) {
	geo, err := newGeoFilterWithLookup(fakeLookup{
		"81.2.69.142": "GB",
		"89.160.20.1": "SE",
	}, GeoIPConfig{
		Whitelist:        []string{"gb"},
		InternalNetworks: []string{"10.0.0.0/8"},
	})
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	handler := geo.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name     string
		setup    func(*http.Request)
		expected int
	}{
		{"whitelisted", func(r *http.Request) { r.RemoteAddr = "81.2.69.142:5000" }, http.StatusOK},
		{"denied", func(r *http.Request) { r.RemoteAddr = "89.160.20.1:5000" }, http.StatusForbidden},
		{"internal", func(r *http.Request) { r.RemoteAddr = "10.1.2.3:5000" }, http.StatusOK},
		{"real ip", func(r *http.Request) { r.Header.Set("X-Real-IP", "81.2.69.142") }, http.StatusOK},
		{"forwarded", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "89.160.20.1, 81.2.69.142") }, http.StatusForbidden},
		{"unknown", func(r *http.Request) { r.RemoteAddr = "192.0.2.1:5000" }, http.StatusInternalServerError},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/playlists/music", nil)
		c.setup(req)
		if rr := serve(handler, req); rr.Code != c.expected {
			t.Errorf("Unexpected status for %s. Expected: %d, Got: %d", c.name, c.expected, rr.Code)
		}
	}
}

func TestGeoFilter_InvalidNetwork(t *testing.T) {
	if _, err := newGeoFilterWithLookup(fakeLookup{}, GeoIPConfig{InternalNetworks: []string{"not-a-cidr"}}); err == nil {
		t.Error("Error should not be nil")
	}
}

func TestNewServer_MissingGeoIPDatabase(t *testing.T) {
	config := DefaultConfig()
	config.Security.GeoIP.Database = filepath.Join(t.TempDir(), "missing.mmdb")
	if _, err := NewServer(config); err == nil {
		t.Error("Error should not be nil")
	}
}
