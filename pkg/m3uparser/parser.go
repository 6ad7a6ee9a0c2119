/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package m3uparser

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
)

// ErrNotRegularFile is returned when a playlist path is not a regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// parseState is either seekingContent or pendingDirective.
type parseState interface {
	parseState()
}

// seekingContent is the state without a pending info directive.
type seekingContent struct{}

// pendingDirective holds the info directive for the next content line.
type pendingDirective struct {
	directive directive
}

func (seekingContent) parseState()   {}
func (pendingDirective) parseState() {}

// Parser turns playlist text into entries. A Parser only holds its options
// and can be shared between goroutines.
type Parser struct {
	fs     FileSystem
	report DiagnosticFunc
}

type Option func(*Parser)

// WithFileSystem sets the filesystem used by ParseFile and nested playlist
// expansion.
func WithFileSystem(fs FileSystem) Option {
	return func(p *Parser) {
		p.fs = fs
	}
}

// WithDiagnostics sets the receiver for skipped and overwritten lines.
func WithDiagnostics(fn DiagnosticFunc) Option {
	return func(p *Parser) {
		if fn != nil {
			p.report = fn
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		fs:     OSFileSystem{},
		report: discardDiagnostics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads entries from lines. Relative paths are resolved against
// baseDir unless it is empty. Comment lines and lines that can't be parsed
// are dropped.
func (p *Parser) Parse(lines iter.Seq[string], baseDir string) Entries {
	entries := make(Entries, 0)

	var state parseState = seekingContent{}
	for line := range normalizeLines(lines) {
		next, entry, ok := p.transition(state, line, baseDir)
		if ok {
			entries = append(entries, entry)
		}
		state = next
	}

	if pending, ok := state.(pendingDirective); ok {
		p.report(Diagnostic{Kind: DiagnosticDirectiveDangling, Line: pending.directive.line})
	}

	return entries
}

// transition consumes a single normalized line. It returns the next state
// and, for content lines that resolve to a location, the assembled entry.
func (p *Parser) transition(state parseState, line string, baseDir string) (parseState, Entry, bool) {
	if strings.HasPrefix(line, CommentPrefix) {
		d, ok := matchDirective(line)
		if !ok {
			p.report(Diagnostic{Kind: DiagnosticCommentIgnored, Line: line})
			return state, Entry{}, false
		}
		if pending, ok := state.(pendingDirective); ok {
			p.report(Diagnostic{Kind: DiagnosticDirectiveOverwritten, Line: pending.directive.line, Detail: line})
		}
		return pendingDirective{directive: d}, Entry{}, false
	}

	location, err := NewLocation(line, baseDir)
	if err != nil {
		p.report(Diagnostic{Kind: DiagnosticInvalidLocation, Line: line, Err: err})
		return seekingContent{}, Entry{}, false
	}

	entry := NewEntry(location)
	switch s := state.(type) {
	case pendingDirective:
		entry = s.directive.apply(entry, p.report)
	case seekingContent:
	}
	return seekingContent{}, entry, true
}

// ParseString parses the content of a playlist.
func (p *Parser) ParseString(content string, baseDir string) Entries {
	return p.Parse(stringLines(content), baseDir)
}

// ParseReader parses already decoded playlist text read from r.
func (p *Parser) ParseReader(r io.Reader, baseDir string) (Entries, error) {
	lines := newLineReader(r)
	entries := p.Parse(lines.Lines(), baseDir)
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return entries, nil
}

// ParseFile parses the playlist at path, decoding it with enc. A nil enc
// means UTF-8. Relative locations are resolved against the directory of the
// playlist.
func (p *Parser) ParseFile(path string, enc encoding.Encoding) (Entries, error) {
	if !p.fs.IsRegularFile(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	file, err := p.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer file.Close()

	return p.ParseReader(NewDecodingReader(file, enc), filepath.Dir(path))
}

var defaultParser = NewParser()

// ParseFile parses the playlist at path with the default parser.
func ParseFile(path string, enc encoding.Encoding) (Entries, error) {
	return defaultParser.ParseFile(path, enc)
}

// ParseReader parses playlist text from r with the default parser.
func ParseReader(r io.Reader, baseDir string) (Entries, error) {
	return defaultParser.ParseReader(r, baseDir)
}

// ParseString parses playlist content with the default parser.
func ParseString(content string, baseDir string) Entries {
	return defaultParser.ParseString(content, baseDir)
}
