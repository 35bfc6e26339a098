package p2pwatch

import "github.com/p2pwatch/p2pwatch-go/internal/logline"

// Kind identifies which extractor produced a segment.
type Kind string

// Built-in segment kinds.
const (
	KindChat  Kind = "chat"
	KindQuest Kind = "quest"
)

// Segment is a group of log lines describing one event.
// Lines keep their original text, timestamp prefix included.
type Segment struct {
	Kind  Kind     `json:"kind"`
	Lines []string `json:"lines"`
}

// Line is a raw log line with its parsed timestamp.
type Line = logline.Line
