package m3uparser

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strings"
	"unicode"
)

const (
	CommentPrefix  = "#"
	ExtendedHeader = "#EXTM3U"
	PlaylistSuffix = ".m3u"

	maxLineLength = 1024 * 1024
)

// lineReader yields the lines of r one at a time. Err reports the read error
// that stopped the iteration, if any.
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	scanner.Split(scanLines)
	return &lineReader{scanner: scanner}
}

func (l *lineReader) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for l.scanner.Scan() {
			if !yield(l.scanner.Text()) {
				return
			}
		}
	}
}

func (l *lineReader) Err() error {
	return l.scanner.Err()
}

// scanLines is bufio.ScanLines that also breaks on a lone \r.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		// A trailing \r may be the first half of \r\n.
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// stringLines splits content on \n, \r\n and \r without copying it up front.
func stringLines(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(content) > 0 {
			line := content
			if i := strings.IndexAny(content, "\r\n"); i >= 0 {
				line = content[:i]
				if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
					content = content[i+2:]
				} else {
					content = content[i+1:]
				}
			} else {
				content = ""
			}
			if !yield(line) {
				return
			}
		}
	}
}

// normalizeLines drops blank lines, trims trailing whitespace and skips the
// leading #EXTM3U header. The header is optional.
func normalizeLines(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		leading := true
		for line := range lines {
			if isBlank(line) {
				continue
			}
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if leading && line == ExtendedHeader {
				continue
			}
			leading = false
			if !yield(line) {
				return
			}
		}
	}
}
