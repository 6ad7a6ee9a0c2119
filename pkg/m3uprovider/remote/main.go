package remote

import (
	"bytes"
	"fmt"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/types"
	"github.com/a13labs/m3uflat/pkg/upstream"
)

// M3URemoteProvider downloads a playlist over http(s). Only the playlist
// itself is fetched, the media it lists is never touched.
type M3URemoteProvider struct {
	uri    string
	config types.ProviderConfig
	conn   *upstream.UpstreamConnection
	parser *m3uparser.Parser
}

func NewM3URemoteProvider(uri string, config types.ProviderConfig, conn *upstream.UpstreamConnection, parser *m3uparser.Parser) *M3URemoteProvider {
	return &M3URemoteProvider{
		uri:    uri,
		config: config,
		conn:   conn,
		parser: parser,
	}
}

func (p *M3URemoteProvider) GetPlaylist() (m3uparser.Entries, error) {
	resp, err := p.conn.Get(p.uri)
	if err != nil {
		return nil, err
	}

	charset := p.config.Charset
	if charset == "" {
		charset = resp.Charset()
	}
	enc, err := m3uparser.LookupCharset(charset)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", p.uri, err)
	}

	entries, err := p.parser.ParseReader(m3uparser.NewDecodingReader(bytes.NewReader(resp.Body), enc), p.config.BaseDir)
	if err != nil {
		return nil, err
	}

	if p.config.Expand {
		entries = p.parser.ExpandNested(entries, enc)
	}
	return entries, nil
}
