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
	"golang.org/x/text/encoding"
)

// ExpandNested replaces every entry that points to a local .m3u file with
// the entries of that file, recursively and in place. Nested playlists that
// are missing, unreadable or that reference one of their own ancestors are
// dropped. The input slice is not modified.
func (p *Parser) ExpandNested(entries Entries, enc encoding.Encoding) Entries {
	return p.expand(entries, enc, make(map[string]bool), make(Entries, 0, len(entries)))
}

// ExpandFile parses the playlist at path and expands its nested playlists.
// Only errors of the top level playlist are returned.
func (p *Parser) ExpandFile(path string, enc encoding.Encoding) (Entries, error) {
	entries, err := p.ParseFile(path, enc)
	if err != nil {
		return nil, err
	}
	root := NewPathLocation(path).Key()
	return p.expand(entries, enc, map[string]bool{root: true}, make(Entries, 0, len(entries))), nil
}

func (p *Parser) expand(entries Entries, enc encoding.Encoding, ancestors map[string]bool, result Entries) Entries {
	for _, entry := range entries {
		location, ok := entry.Location().(*PathLocation)
		if !ok || !location.IsPlaylist() {
			result = append(result, entry)
			continue
		}
		result = p.expandPlaylist(location, enc, ancestors, result)
	}
	return result
}

func (p *Parser) expandPlaylist(location *PathLocation, enc encoding.Encoding, ancestors map[string]bool, result Entries) Entries {
	path := location.Path()
	if !p.fs.IsRegularFile(path) {
		p.report(Diagnostic{Kind: DiagnosticNestedMissing, Line: path})
		return result
	}

	key := location.Key()
	if ancestors[key] {
		p.report(Diagnostic{Kind: DiagnosticNestedCycle, Line: path})
		return result
	}

	nested, err := p.ParseFile(path, enc)
	if err != nil {
		p.report(Diagnostic{Kind: DiagnosticNestedUnreadable, Line: path, Err: err})
		return result
	}

	ancestors[key] = true
	result = p.expand(nested, enc, ancestors, result)
	delete(ancestors, key)
	return result
}

// ResolveNestedPlaylists expands nested playlists with the default parser.
func ResolveNestedPlaylists(entries Entries, enc encoding.Encoding) Entries {
	return defaultParser.ExpandNested(entries, enc)
}
