package p2pwatch

import (
	"time"

	"github.com/p2pwatch/p2pwatch-go/internal/logline"
)

// State holds the high-water mark for each log file, keyed by file name.
// It lives only in memory; a restarted process starts from NewState.
//
// State is a value: WithMark returns a modified copy and never touches
// the receiver, so a poll can be replayed against the same input state.
type State struct {
	marks map[string]time.Time
}

// NewState returns an empty state with no marks.
func NewState() State {
	return State{}
}

// Mark returns the latest processed timestamp for file.
// ok is false if no timestamped line has been seen for it yet.
func (s State) Mark(file string) (mark time.Time, ok bool) {
	mark, ok = s.marks[file]
	return mark, ok
}

// WithMark returns a copy of s with file's mark set to t.
// Marks never move backwards: an earlier t leaves the existing mark.
func (s State) WithMark(file string, t time.Time) State {
	if cur, ok := s.marks[file]; ok && !t.After(cur) {
		return s
	}
	marks := make(map[string]time.Time, len(s.marks)+1)
	for k, v := range s.marks {
		marks[k] = v
	}
	marks[file] = t
	return State{marks: marks}
}

// Len returns the number of files with a mark.
func (s State) Len() int {
	return len(s.marks)
}

// FilterResult partitions one poll's lines against a high-water mark.
type FilterResult struct {
	// New holds timestamped lines strictly after the mark, or every
	// timestamped line when there was no mark.
	New []Line

	// Recent is the subset of New strictly after the cutoff. These are the
	// lines handed to extractors. Without a cutoff it equals New.
	Recent []Line

	// Mark is the latest timestamp in New, or the previous mark if New is empty.
	Mark    time.Time
	HasMark bool
}

// FilterNew selects the lines of a poll that have not been processed yet.
// Lines without a timestamp are excluded. A zero cutoff disables the
// recent-window restriction.
func FilterNew(lines []Line, mark time.Time, hasMark bool, cutoff time.Time) FilterResult {
	res := FilterResult{Mark: mark, HasMark: hasMark}
	for _, l := range lines {
		if !l.HasTime {
			continue
		}
		if hasMark && !l.Time.After(mark) {
			continue
		}
		res.New = append(res.New, l)
		if cutoff.IsZero() || l.Time.After(cutoff) {
			res.Recent = append(res.Recent, l)
		}
		if !res.HasMark || l.Time.After(res.Mark) {
			res.Mark = l.Time
			res.HasMark = true
		}
	}
	return res
}

// FilterTexts is FilterNew over raw line text.
func FilterTexts(texts []string, mark time.Time, hasMark bool, cutoff time.Time) FilterResult {
	return FilterNew(logline.ParseAll(texts), mark, hasMark, cutoff)
}

// Texts returns the raw text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
