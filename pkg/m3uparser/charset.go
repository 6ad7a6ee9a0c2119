package m3uparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnknownCharset = errors.New("unknown charset")

// LookupCharset returns the encoding registered under an IANA name. An empty
// name selects UTF-8, which also strips a leading byte order mark.
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8BOM, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, name)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: %s is not supported", ErrUnknownCharset, name)
	}
	return enc, nil
}

// NewDecodingReader decodes r with enc. A nil enc means UTF-8.
func NewDecodingReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		enc = unicode.UTF8BOM
	}
	return transform.NewReader(r, enc.NewDecoder())
}
