package m3uparser

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// infoPattern matches an extended info directive. The attribute segment is
// greedy, so the title starts after the last comma of the line.
var infoPattern = regexp.MustCompile(`^#EXTINF:(-?\d+)(.*),(.*)$`)

// directive is a matched extended info line waiting for its content line.
type directive struct {
	line       string
	seconds    string
	attributes string
	title      string
}

func matchDirective(line string) (directive, bool) {
	m := infoPattern.FindStringSubmatch(line)
	if m == nil {
		return directive{}, false
	}
	return directive{
		line:       line,
		seconds:    m[1],
		attributes: m[2],
		title:      m[3],
	}, true
}

// duration returns false for negative or unrepresentable durations.
func (d directive) duration() (time.Duration, bool) {
	seconds, err := strconv.ParseInt(d.seconds, 10, 64)
	if err != nil || seconds < 0 || seconds > math.MaxInt64/int64(time.Second) {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func (d directive) apply(entry Entry, report DiagnosticFunc) Entry {
	if duration, ok := d.duration(); ok {
		entry = entry.WithDuration(duration)
	}
	return entry.
		WithTitle(d.title).
		WithMetadata(parseMetadata(d.attributes, report))
}
