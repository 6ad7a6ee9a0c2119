package playlistserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a13labs/m3uflat/pkg/m3uprovider"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
port: 9090
playlists:
  music:
    source: /srv/music/all.m3u
    expand: true
  radio:
    source: http://example.com/radio.m3u
    charset: ISO-8859-1
    timeout: 3
auth:
  secret_key: secret
security:
  geoip:
    whitelist: [PT, ES]
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Port != 9090 {
		t.Errorf("Unexpected port. Expected: 9090, Got: %d", config.Port)
	}
	if config.Timeout != 10 {
		t.Errorf("Unexpected timeout. Expected: 10, Got: %d", config.Timeout)
	}
	if config.Auth.SecretKey != "secret" {
		t.Errorf("Unexpected secret key: %s", config.Auth.SecretKey)
	}
	if len(config.Security.GeoIP.Whitelist) != 2 {
		t.Errorf("Unexpected whitelist: %v", config.Security.GeoIP.Whitelist)
	}

	music, ok := config.Playlist("music")
	if !ok || !music.Expand || music.Source != "/srv/music/all.m3u" {
		t.Errorf("Unexpected playlist: %v", music)
	}
	if music.Timeout != 10 {
		t.Errorf("Unexpected playlist timeout. Expected: 10, Got: %d", music.Timeout)
	}

	radio, _ := config.Playlist("radio")
	if radio.Charset != "ISO-8859-1" || radio.Timeout != 3 {
		t.Errorf("Unexpected playlist: %v", radio)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "playlists": {"music": {"source": "all.m3u"}},
  "default_timeout": 4,
  "log_level": "debug"
}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Port != 8080 {
		t.Errorf("Unexpected port. Expected: 8080, Got: %d", config.Port)
	}
	if config.Timeout != 4 {
		t.Errorf("Unexpected timeout. Expected: 4, Got: %d", config.Timeout)
	}
	if config.LogLevel != "debug" {
		t.Errorf("Unexpected log level. Expected: debug, Got: %s", config.LogLevel)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax.json":  `{"port": `,
		"source.yaml":  "playlists:\n  music:\n    charset: utf-8\n",
		"charset.yaml": "playlists:\n  music:\n    source: a.m3u\n    charset: no-such-charset\n",
		"port.json":    `{"port": 70000}`,
	}
	for name, content := range cases {
		if _, err := LoadConfig(writeConfig(t, name, content)); err == nil {
			t.Errorf("Error should not be nil for %s", name)
		}
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Error should not be nil for a missing file")
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	config := DefaultConfig()
	config.Port = 8181
	config.Playlists["music"] = m3uprovider.ProviderConfig{Source: "all.m3u", Expand: true}

	for _, name := range []string{"config.json", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := config.Save(path); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", name, err)
		}
		if loaded.Port != 8181 {
			t.Errorf("Unexpected port in %s. Expected: 8181, Got: %d", name, loaded.Port)
		}
		if music, ok := loaded.Playlists["music"]; !ok || !music.Expand {
			t.Errorf("Unexpected playlist in %s: %v", name, music)
		}
	}
}

func TestConfig_Merge(t *testing.T) {
	config := DefaultConfig()
	config.Playlists["a"] = m3uprovider.ProviderConfig{Source: "a.m3u"}

	config.Merge(ServerConfig{
		Timeout:   20,
		Playlists: map[string]m3uprovider.ProviderConfig{"b": {Source: "b.m3u"}},
	})

	if config.Port != 8080 || config.Timeout != 20 {
		t.Errorf("Unexpected port/timeout: %d/%d", config.Port, config.Timeout)
	}
	if len(config.Playlists) != 2 {
		t.Errorf("Unexpected number of playlists. Expected: 2, Got: %d", len(config.Playlists))
	}
}
