package playlistserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a13labs/m3uflat/pkg/auth"
	"github.com/a13labs/m3uflat/pkg/m3uprovider"
	"gopkg.in/yaml.v3"
)

type GeoIPConfig struct {
	Database         string   `json:"database" yaml:"database"`
	Whitelist        []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
	InternalNetworks []string `json:"internal_networks,omitempty" yaml:"internal_networks,omitempty"`
}

type SecurityConfig struct {
	GeoIP GeoIPConfig `json:"geoip,omitempty" yaml:"geoip,omitempty"`
}

type ServerConfig struct {
	Port      int                                    `json:"port" yaml:"port"`
	Timeout   int                                    `json:"default_timeout,omitempty" yaml:"default_timeout,omitempty"`
	Playlists map[string]m3uprovider.ProviderConfig `json:"playlists" yaml:"playlists"`
	Security  SecurityConfig                         `json:"security,omitempty" yaml:"security,omitempty"`
	Auth      auth.AuthConfig                        `json:"auth,omitempty" yaml:"auth,omitempty"`
	LogFile   string                                 `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogLevel  string                                 `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

func DefaultConfig() ServerConfig {
	return ServerConfig{
		Port:      8080,
		Timeout:   10,
		Playlists: map[string]m3uprovider.ProviderConfig{},
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig reads a JSON or YAML configuration, picked by the file
// extension, on top of the defaults.
func LoadConfig(path string) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, err
	}

	var loaded ServerConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &loaded)
	} else {
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return ServerConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	config := DefaultConfig()
	config.Merge(loaded)
	if err := config.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Merge copies the values set in other.
func (c *ServerConfig) Merge(other ServerConfig) {
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.Timeout != 0 {
		c.Timeout = other.Timeout
	}
	if len(other.Playlists) > 0 {
		if c.Playlists == nil {
			c.Playlists = map[string]m3uprovider.ProviderConfig{}
		}
		for name, playlist := range other.Playlists {
			c.Playlists[name] = playlist
		}
	}
	if other.Security.GeoIP.Database != "" {
		c.Security.GeoIP.Database = other.Security.GeoIP.Database
	}
	if len(other.Security.GeoIP.Whitelist) > 0 {
		c.Security.GeoIP.Whitelist = other.Security.GeoIP.Whitelist
	}
	if len(other.Security.GeoIP.InternalNetworks) > 0 {
		c.Security.GeoIP.InternalNetworks = other.Security.GeoIP.InternalNetworks
	}
	if other.Auth.SecretKey != "" {
		c.Auth.SecretKey = other.Auth.SecretKey
	}
	if other.Auth.ExpirationTime != 0 {
		c.Auth.ExpirationTime = other.Auth.ExpirationTime
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	for name, playlist := range c.Playlists {
		if err := m3uprovider.Validate(playlist); err != nil {
			return fmt.Errorf("playlist %s: %w", name, err)
		}
	}
	return nil
}

// Playlist returns the named source with the server timeout applied.
func (c ServerConfig) Playlist(name string) (m3uprovider.ProviderConfig, bool) {
	playlist, ok := c.Playlists[name]
	if !ok {
		return m3uprovider.ProviderConfig{}, false
	}
	if playlist.Timeout == 0 {
		playlist.Timeout = c.Timeout
	}
	return playlist, true
}

func (c ServerConfig) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if isYAML(path) {
		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(c)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}
