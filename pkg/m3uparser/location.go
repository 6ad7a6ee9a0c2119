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
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const fileScheme = "file"

// ErrInvalidLocation is returned when a location is neither a URL nor a path.
var ErrInvalidLocation = errors.New("could not parse as URL or path")

// InvalidLocationError carries the location string that could not be resolved.
type InvalidLocationError struct {
	Location string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidLocation.Error(), e.Location)
}

func (e *InvalidLocationError) Is(target error) bool {
	return target == ErrInvalidLocation
}

// Location is where the media of an entry lives. It is either a
// *PathLocation or a *URLLocation, no other implementations exist.
//
// Two locations are equal when their canonical URLs render to the same
// string, regardless of the variant they were built from.
type Location interface {
	// URL returns a copy of the canonical URL of the location.
	URL() *url.URL
	// Key is the canonical URL string, usable as a map key.
	Key() string
	Equal(other Location) bool
	String() string

	sealed()
}

// PathLocation is a local filesystem location. The path may denote a
// directory as well as a file.
type PathLocation struct {
	path string
	url  func() *url.URL
}

// NewPathLocation wraps path without resolving it.
func NewPathLocation(path string) *PathLocation {
	return &PathLocation{
		path: path,
		url:  sync.OnceValue(func() *url.URL { return pathToURL(path) }),
	}
}

func (l *PathLocation) Path() string {
	return l.path
}

// IsPlaylist reports whether the file name carries the playlist suffix.
// Only the name is inspected, the content is never looked at.
func (l *PathLocation) IsPlaylist() bool {
	return strings.HasSuffix(filepath.Base(l.path), PlaylistSuffix)
}

func (l *PathLocation) URL() *url.URL {
	u := *l.url()
	return &u
}

func (l *PathLocation) Key() string {
	return l.url().String()
}

func (l *PathLocation) Equal(other Location) bool {
	return EqualLocations(l, other)
}

func (l *PathLocation) String() string {
	return l.path
}

func (l *PathLocation) sealed() {}

// URLLocation is a location that is not a local path. The URL is usually
// remote, but any scheme other than file is accepted.
type URLLocation struct {
	url *url.URL
}

// NewURLLocation wraps a copy of u.
func NewURLLocation(u *url.URL) *URLLocation {
	c := *u
	return &URLLocation{url: &c}
}

func (l *URLLocation) URL() *url.URL {
	u := *l.url
	return &u
}

func (l *URLLocation) Key() string {
	return l.url.String()
}

func (l *URLLocation) Equal(other Location) bool {
	return EqualLocations(l, other)
}

func (l *URLLocation) String() string {
	return l.url.String()
}

func (l *URLLocation) sealed() {}

// EqualLocations compares two locations by their canonical URL string.
func EqualLocations(a, b Location) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// NewLocation resolves a raw location taken from a playlist. The first
// strategy that succeeds wins:
//
//  1. a file URL, converted to a local path
//  2. a URL with any other scheme
//  3. a filesystem path, resolved against baseDir when baseDir is set
//
// An *InvalidLocationError is returned when none of them apply.
func NewLocation(raw string, baseDir string) (Location, error) {
	if u, ok := parseURL(raw); ok {
		if strings.EqualFold(u.Scheme, fileScheme) {
			if path, ok := fileURLToPath(u); ok {
				return NewPathLocation(path), nil
			}
		}
		return NewURLLocation(u), nil
	}

	if path, ok := parsePath(raw, baseDir); ok {
		return NewPathLocation(path), nil
	}

	return nil, &InvalidLocationError{Location: raw}
}

// opaqueSchemes are the schemes accepted without a hierarchical part.
var opaqueSchemes = map[string]bool{
	"data":   true,
	"magnet": true,
	"mailto": true,
	"urn":    true,
}

// parseURL accepts only absolute URLs. Single letter schemes are rejected so
// that windows drive letters are left to the path strategy. Other schemes
// need a hierarchical part (scheme:/ or scheme://), so a file name such as
// Disc1:Intro.mp3 stays a path.
func parseURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if len(u.Scheme) < 2 {
		return nil, false
	}
	if u.Opaque != "" && u.Scheme != fileScheme && !opaqueSchemes[u.Scheme] {
		return nil, false
	}
	return u, true
}

func fileURLToPath(u *url.URL) (string, bool) {
	if u.Opaque != "" || u.User != nil {
		return "", false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
		return "", false
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", false
	}
	if u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.ContainsRune(u.Path, 0) {
		return "", false
	}

	p := u.Path
	if runtime.GOOS == "windows" && len(p) >= 3 && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

func parsePath(raw string, baseDir string) (string, bool) {
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", false
	}
	if baseDir == "" || filepath.IsAbs(raw) {
		return raw, true
	}
	if strings.ContainsRune(baseDir, 0) {
		return "", false
	}
	// No Clean: "../a.mp3" keeps its parent reference.
	if strings.HasSuffix(baseDir, string(filepath.Separator)) {
		return baseDir + raw, true
	}
	return baseDir + string(filepath.Separator) + raw, true
}

func pathToURL(path string) *url.URL {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{Scheme: fileScheme, Path: p}
}
