package p2pwatch

import (
	"errors"
	"fmt"

	"github.com/p2pwatch/p2pwatch-go/internal/logfinder"
)

// Sentinel errors.
var (
	// ErrLogDirNotFound is returned when no log directory can be resolved.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	// ErrNoLogFiles is reported by a poll when the directory holds no logs yet.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrNoExtractors is returned when both chat and quest monitoring are
	// disabled and no custom extractor was supplied.
	ErrNoExtractors = errors.New("no extractors enabled")

	// ErrPanic wraps a panic recovered from an extractor or notifier. The
	// poll reports it as a parse or delivery failure.
	ErrPanic = errors.New("panic")
)

// PollOp names the step of a poll that failed.
type PollOp string

// Poll steps.
const (
	OpFindLatest PollOp = "find_latest"
	OpRead       PollOp = "read"
	OpExtract    PollOp = "extract"
	OpDeliver    PollOp = "deliver"
)

// PollError reports a failed poll step.
type PollError struct {
	Op   PollOp
	Path string
	Err  error
}

func (e *PollError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("p2pwatch: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("p2pwatch: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PollError) Unwrap() error {
	return e.Err
}
