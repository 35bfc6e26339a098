// Package logline splits DreamBot log lines into their timestamp prefix and text.
package logline

import (
	"strings"
	"time"
)

// TimestampLayout is the prefix DreamBot writes on every log line:
// "2024-01-15 23:59:59".
const TimestampLayout = "2006-01-02 15:04:05"

const timestampLen = len(TimestampLayout)

// Line is one raw log line with its parsed timestamp, if any.
type Line struct {
	Text    string
	Time    time.Time
	HasTime bool
}

// Parse trims a trailing CR and extracts the leading timestamp. Lines
// without a parseable prefix come back with HasTime == false; that is not
// an error, such lines are just excluded from time-based filtering.
func Parse(text string) Line {
	text = strings.TrimRight(text, "\r")
	ts, ok := ParseTimestamp(text)
	return Line{Text: text, Time: ts, HasTime: ok}
}

// ParseAll parses every line in order.
func ParseAll(texts []string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Parse(t)
	}
	return lines
}

// ParseTimestamp reads the first 19 bytes of line as a local time.
// The timestamp must be followed by a space, a tab, or the end of the line.
func ParseTimestamp(line string) (time.Time, bool) {
	if len(line) < timestampLen {
		return time.Time{}, false
	}

	// DreamBot logs in the machine's local time zone.
	ts, err := time.ParseInLocation(TimestampLayout, line[:timestampLen], time.Local)
	if err != nil {
		return time.Time{}, false
	}

	if len(line) > timestampLen {
		c := line[timestampLen]
		if c != ' ' && c != '\t' {
			return time.Time{}, false
		}
	}

	return ts, true
}
