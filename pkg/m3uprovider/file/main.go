package file

import (
	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/types"
	"golang.org/x/text/encoding"
)

// M3UFileProvider reads a playlist from the local filesystem.
type M3UFileProvider struct {
	path   string
	enc    encoding.Encoding
	expand bool
	parser *m3uparser.Parser
}

func NewM3UFileProvider(path string, config types.ProviderConfig, parser *m3uparser.Parser) (*M3UFileProvider, error) {
	enc, err := m3uparser.LookupCharset(config.Charset)
	if err != nil {
		return nil, err
	}

	return &M3UFileProvider{
		path:   path,
		enc:    enc,
		expand: config.Expand,
		parser: parser,
	}, nil
}

func (p *M3UFileProvider) GetPlaylist() (m3uparser.Entries, error) {
	if p.expand {
		return p.parser.ExpandFile(p.path, p.enc)
	}
	return p.parser.ParseFile(p.path, p.enc)
}
