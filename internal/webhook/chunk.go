package webhook

import (
	"strings"
	"unicode/utf8"
)

// Chunks splits lines into groups of at most size lines. Each group's lines
// are trimmed, joined with newlines and cut to at most budget runes.
// A non-positive size puts everything in one group; a non-positive budget
// disables truncation.
func Chunks(lines []string, size, budget int) []string {
	if len(lines) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(lines)
	}

	chunks := make([]string, 0, (len(lines)+size-1)/size)
	for i := 0; i < len(lines); i += size {
		end := min(i+size, len(lines))

		cleaned := make([]string, 0, end-i)
		for _, l := range lines[i:end] {
			cleaned = append(cleaned, strings.TrimSpace(l))
		}
		chunks = append(chunks, truncateRunes(strings.Join(cleaned, "\n"), budget))
	}
	return chunks
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
