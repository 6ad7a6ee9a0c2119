package types

import (
	"encoding/json"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
)

// M3UProvider loads the entries of one playlist source.
type M3UProvider interface {
	GetPlaylist() (m3uparser.Entries, error)
}

// ProviderConfig describes where a playlist comes from and how to read it.
type ProviderConfig struct {
	// Source is a local path, a file URL or an http(s) URL.
	Source string `json:"source" yaml:"source"`
	// Charset is an IANA charset name. Empty means UTF-8 for files and the
	// Content-Type charset, falling back to UTF-8, for remote sources.
	Charset string `json:"charset,omitempty" yaml:"charset,omitempty"`
	// BaseDir resolves relative entries of remote playlists.
	BaseDir string `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	// Expand replaces local nested .m3u entries with their content.
	Expand  bool              `json:"expand,omitempty" yaml:"expand,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout int               `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func (c ProviderConfig) String() string {
	data, _ := json.Marshal(c)
	return string(data)
}
