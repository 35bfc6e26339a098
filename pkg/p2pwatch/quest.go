package p2pwatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// QuestMarker is the game message printed when a quest is finished.
const QuestMarker = "[GAME] Congratulations, you've completed a quest"

var (
	// Matches "<col=ff0000>" and "</col>" colour tags.
	colMarkupPattern = regexp.MustCompile(`(?i)</?col(?:=[^>]*)?>`)

	// Captures the quest name after "quest:".
	questNamePattern = regexp.MustCompile(`(?i)quest:\s*(.+?)\s*$`)
)

// LineExtractor turns every line containing any of Markers into a one-line
// segment. Transform, when set, rewrites the line before it is emitted.
type LineExtractor struct {
	Kind       Kind
	Markers    []string
	IgnoreCase bool
	Transform  func(line string) string
}

// QuestExtractor returns the extractor for quest completion messages.
func QuestExtractor() *LineExtractor {
	return &LineExtractor{
		Kind:      KindQuest,
		Markers:   []string{QuestMarker},
		Transform: FormatQuestLine,
	}
}

// Extract implements the Extractor interface.
func (l *LineExtractor) Extract(ctx context.Context, lines []string) ([]Segment, error) {
	var markers []string
	for _, m := range l.Markers {
		if m == "" {
			continue
		}
		if l.IgnoreCase {
			m = strings.ToUpper(m)
		}
		markers = append(markers, m)
	}
	if len(markers) == 0 {
		return nil, nil
	}

	var segments []Segment
	for _, line := range lines {
		haystack := line
		if l.IgnoreCase {
			haystack = strings.ToUpper(line)
		}
		if !containsAny(haystack, markers) {
			continue
		}
		out := line
		if l.Transform != nil {
			out = l.Transform(line)
		}
		segments = append(segments, Segment{Kind: l.Kind, Lines: []string{out}})
	}
	return segments, ctx.Err()
}

// StripMarkup removes <col=...> and </col> tags, keeping the text between them.
func StripMarkup(s string) string {
	return colMarkupPattern.ReplaceAllString(s, "")
}

// FormatQuestLine strips colour markup and, when the line names the quest,
// returns a highlighted "Quest completed" line. Otherwise it returns the
// cleaned line unchanged.
func FormatQuestLine(line string) string {
	cleaned := strings.TrimSpace(StripMarkup(line))
	if m := questNamePattern.FindStringSubmatch(cleaned); m != nil {
		return fmt.Sprintf("Quest completed: **%s**", m[1])
	}
	return cleaned
}
