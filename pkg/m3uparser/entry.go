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
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry is a single media item of a playlist. Entries are values, the With
// methods return modified copies.
type Entry struct {
	location    Location
	duration    time.Duration
	hasDuration bool
	title       string
	hasTitle    bool
	metadata    Metadata
}

type Entries []Entry

// NewEntry returns an entry without duration, title or metadata.
func NewEntry(location Location) Entry {
	return Entry{location: location}
}

func (entry Entry) Location() Location {
	return entry.location
}

// Duration returns the duration of the media, if known.
func (entry Entry) Duration() (time.Duration, bool) {
	return entry.duration, entry.hasDuration
}

// Title returns the title of the media, if known. A known title may be empty.
func (entry Entry) Title() (string, bool) {
	return entry.title, entry.hasTitle
}

func (entry Entry) Metadata() Metadata {
	return entry.metadata
}

// WithDuration sets the duration, negative durations clear it.
func (entry Entry) WithDuration(duration time.Duration) Entry {
	entry.duration = max(duration, 0)
	entry.hasDuration = duration >= 0
	return entry
}

func (entry Entry) WithTitle(title string) Entry {
	entry.title = title
	entry.hasTitle = true
	return entry
}

func (entry Entry) WithMetadata(metadata Metadata) Entry {
	entry.metadata = metadata
	return entry
}

// Extended reports whether the entry needs an #EXTINF line when written.
func (entry Entry) Extended() bool {
	return entry.hasDuration || entry.hasTitle || entry.metadata.Len() > 0
}

func (entry Entry) Equal(other Entry) bool {
	return EqualLocations(entry.location, other.location) &&
		entry.hasDuration == other.hasDuration &&
		entry.duration == other.duration &&
		entry.hasTitle == other.hasTitle &&
		entry.title == other.title &&
		entry.metadata.Equal(other.metadata)
}

func (entry Entry) infoLine() string {
	seconds := "-1"
	if entry.hasDuration {
		seconds = strconv.FormatInt(int64(entry.duration/time.Second), 10)
	}
	line := "#EXTINF:" + seconds
	if entry.metadata.Len() > 0 {
		line += " " + entry.metadata.String()
	}
	return line + "," + entry.title
}

func (entry Entry) String() string {
	var result string
	if entry.Extended() {
		result += entry.infoLine() + "\n"
	}
	if entry.location != nil {
		result += entry.location.String()
	}
	return result
}

func (entry Entry) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, entry.String()+"\n")
	return int64(n), err
}

type entryJSON struct {
	Kind     string            `json:"kind"`
	Location string            `json:"location"`
	URL      string            `json:"url"`
	Duration *int64            `json:"duration,omitempty"`
	Title    *string           `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Logo     string            `json:"logo,omitempty"`
}

func (entry Entry) MarshalJSON() ([]byte, error) {
	data := entryJSON{}
	switch location := entry.location.(type) {
	case *PathLocation:
		data.Kind = "path"
		data.Location = location.Path()
	case *URLLocation:
		data.Kind = "url"
		data.Location = location.String()
	}
	if entry.location != nil {
		data.URL = entry.location.Key()
	}
	if entry.hasDuration {
		seconds := int64(entry.duration / time.Second)
		data.Duration = &seconds
	}
	if entry.hasTitle {
		title := entry.title
		data.Title = &title
	}
	if entry.metadata.Len() > 0 {
		data.Metadata = make(map[string]string, entry.metadata.Len())
		for k, v := range entry.metadata.All() {
			data.Metadata[k] = v
		}
	}
	data.Logo, _ = entry.metadata.Logo()
	return json.Marshal(data)
}

func (entries Entries) Equal(other Entries) bool {
	if len(entries) != len(other) {
		return false
	}
	for i := range entries {
		if !entries[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// EntriesString renders the entries without the playlist header.
func (entries Entries) EntriesString() string {
	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(entry.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders a complete playlist, header included.
func (entries Entries) String() string {
	return ExtendedHeader + "\n" + entries.EntriesString()
}

func (entries Entries) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, entries.String())
	return int64(n), err
}

func (entries Entries) GetByTitle(title string) (Entry, bool) {
	for _, entry := range entries {
		if t, ok := entry.Title(); ok && t == title {
			return entry, true
		}
	}
	return Entry{}, false
}

func (entries Entries) GetByMetadata(key, value string) (Entry, bool) {
	for _, entry := range entries {
		if v, ok := entry.metadata.Get(key); ok && v == value {
			return entry, true
		}
	}
	return Entry{}, false
}
