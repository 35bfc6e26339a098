package p2pwatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/p2pwatch/p2pwatch-go/internal/logfinder"
	"github.com/p2pwatch/p2pwatch-go/internal/logline"
	"github.com/p2pwatch/p2pwatch-go/internal/source"
)

// Notifier delivers the segments extracted from one poll.
// source is the log file name the segments came from.
type Notifier interface {
	Notify(ctx context.Context, source string, segments []Segment) error
}

// NotifierFunc is an adapter to allow ordinary functions to be used as Notifiers.
type NotifierFunc func(ctx context.Context, source string, segments []Segment) error

// Notify implements the Notifier interface.
func (f NotifierFunc) Notify(ctx context.Context, source string, segments []Segment) error {
	return f(ctx, source, segments)
}

// PollStatus classifies the outcome of a poll.
type PollStatus int

const (
	// PollOK means the poll completed; it may have found no segments.
	PollOK PollStatus = iota
	// PollNoFile means the log directory holds no log files.
	PollNoFile
	// PollReadFailure means the log file could not be located or read.
	PollReadFailure
	// PollParseFailure means an extractor failed.
	PollParseFailure
	// PollDeliveryFailure means at least one notification was not delivered.
	PollDeliveryFailure
)

func (s PollStatus) String() string {
	switch s {
	case PollOK:
		return "ok"
	case PollNoFile:
		return "no_file"
	case PollReadFailure:
		return "read_failure"
	case PollParseFailure:
		return "parse_failure"
	case PollDeliveryFailure:
		return "delivery_failure"
	default:
		return fmt.Sprintf("PollStatus(%d)", int(s))
	}
}

// PollResult describes one poll.
type PollResult struct {
	ID     string
	Status PollStatus
	File   string // base name of the log file, empty for PollNoFile

	Lines       int // lines in the file
	NewLines    int // timestamped lines past the previous mark
	RecentLines int // new lines inside the recent window

	Segments []Segment
	Mark     time.Time // mark for File after the poll
	Err      error     // *PollError unless Status is PollOK
}

// Monitor polls a DreamBot log directory.
// It holds no per-file state of its own; see State.
type Monitor struct {
	cfg       monitorConfig
	logDir    string
	log       *slog.Logger
	extractor ExtractorChain
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewMonitor creates a monitor using functional options.
// Validates options and resolves the log directory.
func NewMonitor(opts ...Option) (*Monitor, error) {
	cfg := applyOptions(opts)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logDir, err := logfinder.FindLogDir(cfg.logDir)
	if err != nil {
		return nil, fmt.Errorf("finding log directory: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Monitor{
		cfg:       *cfg,
		logDir:    logDir,
		log:       log,
		extractor: cfg.extractor(),
	}, nil
}

// LogDir returns the resolved log directory.
func (m *Monitor) LogDir() string {
	return m.logDir
}

// Interval returns the time between polls.
func (m *Monitor) Interval() time.Duration {
	return m.cfg.interval
}

// Poll runs one poll against the newest log file and returns the updated
// state. st itself is never modified.
func (m *Monitor) Poll(ctx context.Context, st State) (State, PollResult) {
	path, err := logfinder.FindLatestLogFile(m.logDir)
	if err != nil {
		res := PollResult{ID: shortuuid.New(), Status: PollReadFailure}
		if errors.Is(err, logfinder.ErrNoLogFiles) {
			res.Status = PollNoFile
		}
		res.Err = &PollError{Op: OpFindLatest, Path: m.logDir, Err: err}
		return st, res
	}
	return m.PollFile(ctx, st, path)
}

// PollFile runs one poll against a specific file.
//
// The file's mark advances to the newest timestamp among its new lines
// once they have been dispatched, whether or not any segment was found
// and whether or not delivery succeeded. It does not advance when
// extraction fails, so those lines are offered again next poll.
func (m *Monitor) PollFile(ctx context.Context, st State, path string) (State, PollResult) {
	name := filepath.Base(path)
	res := PollResult{ID: shortuuid.New(), File: name}
	log := m.log.With("poll_id", res.ID, "file", name)

	texts, err := source.ReadLines(path)
	if err != nil {
		res.Status = PollReadFailure
		res.Err = &PollError{Op: OpRead, Path: path, Err: err}
		return st, res
	}
	res.Lines = len(texts)

	mark, hasMark := st.Mark(name)
	res.Mark = mark

	var cutoff time.Time
	if w := m.cfg.window(); w > 0 {
		cutoff = m.cfg.now().Add(-w)
	}

	fr := FilterNew(logline.ParseAll(texts), mark, hasMark, cutoff)
	res.NewLines = len(fr.New)
	res.RecentLines = len(fr.Recent)
	log.Debug("filtered log lines",
		"lines", res.Lines, "new", res.NewLines, "recent", res.RecentLines,
		"had_mark", hasMark, "mark", mark)

	segments, err := m.extract(ctx, Texts(fr.Recent))
	if err != nil {
		res.Status = PollParseFailure
		res.Err = &PollError{Op: OpExtract, Path: path, Err: err}
		return st, res
	}
	res.Segments = segments

	if len(segments) > 0 && m.cfg.notifier != nil {
		log.Debug("delivering segments", "count", len(segments))
		if err := m.notify(ctx, name, segments); err != nil {
			res.Status = PollDeliveryFailure
			res.Err = &PollError{Op: OpDeliver, Path: path, Err: err}
		}
	}

	if fr.HasMark {
		st = st.WithMark(name, fr.Mark)
		res.Mark = fr.Mark
	}
	return st, res
}

// extract runs the extractor chain, turning a panic into an error so one
// bad custom extractor cannot stop Run.
func (m *Monitor) extract(ctx context.Context, lines []string) (segments []Segment, err error) {
	defer func() {
		if r := recover(); r != nil {
			segments, err = nil, fmt.Errorf("%w in extractor: %v", ErrPanic, r)
		}
	}()
	return m.extractor.Extract(ctx, lines)
}

// notify is extract's counterpart for the notifier.
func (m *Monitor) notify(ctx context.Context, source string, segments []Segment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w in notifier: %v", ErrPanic, r)
		}
	}()
	return m.cfg.notifier.Notify(ctx, source, segments)
}

// Run polls immediately and then once per interval until ctx is
// cancelled, returning the final state. Polls run one after another on
// the calling goroutine. A failed poll is logged and the loop carries on.
//
// onResult, if non-nil, is called after every poll.
func (m *Monitor) Run(ctx context.Context, st State, onResult func(PollResult)) (State, error) {
	m.log.Info("monitor started", "log_dir", m.logDir, "interval", m.cfg.interval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return st, nil
		case <-timer.C:
		}

		var res PollResult
		st, res = m.Poll(ctx, st)
		m.logResult(res)
		if onResult != nil {
			onResult(res)
		}

		timer.Reset(m.cfg.interval)
	}
}

func (m *Monitor) logResult(res PollResult) {
	log := m.log.With("poll_id", res.ID, "status", res.Status.String())
	if res.File != "" {
		log = log.With("file", res.File)
	}

	switch res.Status {
	case PollOK:
		if len(res.Segments) > 0 {
			log.Info("poll found segments", "segments", len(res.Segments), "new_lines", res.NewLines)
		} else {
			log.Debug("poll found no segments", "new_lines", res.NewLines)
		}
	case PollNoFile:
		log.Info("no log files found", "log_dir", m.logDir)
	default:
		log.Warn("poll failed", "error", res.Err)
	}
}
