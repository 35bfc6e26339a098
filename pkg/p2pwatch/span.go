package p2pwatch

import (
	"context"
	"strings"
)

// Markers for chat segments, matched case-insensitively.
const (
	ChatStartMarker    = "CHAT"
	ChatTypingMarker   = "SLOWLY TYPING RESPONSE"
	ChatBadReplyMarker = "BAD RESPONSE"
)

// SpanExtractor emits the lines from a start line through the next end
// line, inclusive. Markers are substrings compared case-insensitively.
//
// While a span is open, further start lines are ordinary content; only an
// end line closes it. A span still open at the end of the batch is dropped.
type SpanExtractor struct {
	Kind  Kind
	Start []string
	End   []string
}

// ChatExtractor returns the extractor for CHAT -> response segments.
func ChatExtractor() *SpanExtractor {
	return &SpanExtractor{
		Kind:  KindChat,
		Start: []string{ChatStartMarker},
		End:   []string{ChatTypingMarker, ChatBadReplyMarker},
	}
}

// Extract implements the Extractor interface.
func (s *SpanExtractor) Extract(ctx context.Context, lines []string) ([]Segment, error) {
	start := upperAll(s.Start)
	end := upperAll(s.End)

	var segments []Segment
	open := -1
	for i, line := range lines {
		upper := strings.ToUpper(line)
		switch {
		case open < 0 && containsAny(upper, start):
			open = i
		case open >= 0 && containsAny(upper, end):
			seg := make([]string, i+1-open)
			copy(seg, lines[open:i+1])
			segments = append(segments, Segment{Kind: s.Kind, Lines: seg})
			open = -1
		}
	}
	return segments, ctx.Err()
}

func upperAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
