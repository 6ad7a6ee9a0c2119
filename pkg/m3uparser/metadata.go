package m3uparser

import (
	"encoding/json"
	"iter"
	"maps"
	"regexp"
	"slices"
	"strings"
)

const (
	LogoKey    = "logo"
	TvgLogoKey = "tvg-logo"
)

var attributePattern = regexp.MustCompile(`([\w.-]+)="(.*?)"`)

// Metadata holds the key="value" attributes of an extended info line.
// The zero value is an empty set.
type Metadata struct {
	values map[string]string
}

// NewMetadata copies values, dropping blank ones.
func NewMetadata(values map[string]string) Metadata {
	m := Metadata{values: make(map[string]string, len(values))}
	for k, v := range values {
		if !isBlank(v) {
			m.values[k] = v
		}
	}
	return m
}

// parseMetadata extracts attributes from the segment between the duration
// and the title. A later duplicate key wins, blank values never overwrite.
func parseMetadata(segment string, report DiagnosticFunc) Metadata {
	values := make(map[string]string)
	for _, match := range attributePattern.FindAllStringSubmatch(strings.TrimSpace(segment), -1) {
		key, value := match[1], match[2]
		if isBlank(value) {
			report(Diagnostic{Kind: DiagnosticBlankMetadata, Line: key})
			continue
		}
		if old, ok := values[key]; ok {
			report(Diagnostic{Kind: DiagnosticMetadataOverwritten, Line: key, Detail: old + " -> " + value})
		}
		values[key] = value
	}
	return Metadata{values: values}
}

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value for key or an empty string.
func (m Metadata) Value(key string) string {
	return m.values[key]
}

func (m Metadata) Len() int {
	return len(m.values)
}

// Keys returns the keys in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.values))
}

// All iterates the attributes in key order.
func (m Metadata) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Logo returns the logo URL of the entry, looking at "logo" first and
// "tvg-logo" second. Blank values count as missing.
func (m Metadata) Logo() (string, bool) {
	for _, key := range []string{LogoKey, TvgLogoKey} {
		if v, ok := m.values[key]; ok && !isBlank(v) {
			return v, true
		}
	}
	return "", false
}

func (m Metadata) Equal(other Metadata) bool {
	return maps.Equal(m.values, other.values)
}

func (m Metadata) String() string {
	var sb strings.Builder
	for k, v := range m.All() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k + "=\"" + v + "\"")
	}
	return sb.String()
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.values)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
