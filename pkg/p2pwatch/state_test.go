package p2pwatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p2pwatch/p2pwatch-go/pkg/p2pwatch"
)

func ts(h, m, s int) time.Time {
	return time.Date(2024, 1, 15, h, m, s, 0, time.Local)
}

func TestState_WithMarkIsCopy(t *testing.T) {
	st := p2pwatch.NewState()
	next := st.WithMark("logfile-1.log", ts(12, 0, 0))

	_, ok := st.Mark("logfile-1.log")
	assert.False(t, ok, "original state must not change")

	got, ok := next.Mark("logfile-1.log")
	require.True(t, ok)
	assert.True(t, got.Equal(ts(12, 0, 0)))
	assert.Equal(t, 1, next.Len())
}

func TestState_MarkNeverDecreases(t *testing.T) {
	st := p2pwatch.NewState().WithMark("f", ts(12, 0, 5))
	st = st.WithMark("f", ts(12, 0, 1))

	got, _ := st.Mark("f")
	assert.True(t, got.Equal(ts(12, 0, 5)))
}

func TestFilterTexts_NoMark(t *testing.T) {
	lines := []string{
		"2024-01-15 12:00:01 CHAT hello",
		"2024-01-15 12:00:02 foo",
		"    continuation without timestamp",
		"2024-01-15 12:00:03 SLOWLY TYPING RESPONSE bar",
	}

	res := p2pwatch.FilterTexts(lines, time.Time{}, false, time.Time{})
	assert.Len(t, res.New, 3)
	assert.Equal(t, res.New, res.Recent)
	require.True(t, res.HasMark)
	assert.True(t, res.Mark.Equal(ts(12, 0, 3)))
}

func TestFilterTexts_StrictlyAfterMark(t *testing.T) {
	lines := []string{
		"2024-01-15 12:00:01 a",
		"2024-01-15 12:00:02 b",
		"2024-01-15 12:00:02 c",
		"2024-01-15 12:00:03 d",
	}

	res := p2pwatch.FilterTexts(lines, ts(12, 0, 2), true, time.Time{})
	assert.Equal(t, []string{"2024-01-15 12:00:03 d"}, p2pwatch.Texts(res.New))
	assert.True(t, res.Mark.Equal(ts(12, 0, 3)))
}

func TestFilterTexts_NothingNewKeepsMark(t *testing.T) {
	res := p2pwatch.FilterTexts([]string{"2024-01-15 12:00:01 a", "garbage"}, ts(12, 0, 5), true, time.Time{})
	assert.Empty(t, res.New)
	assert.True(t, res.HasMark)
	assert.True(t, res.Mark.Equal(ts(12, 0, 5)))
}

func TestFilterTexts_NoParseableLines(t *testing.T) {
	res := p2pwatch.FilterTexts([]string{"garbage", "12:00:01 CHAT"}, time.Time{}, false, time.Time{})
	assert.Empty(t, res.New)
	assert.False(t, res.HasMark)
}

func TestFilterTexts_MarkIsMaxNotLast(t *testing.T) {
	lines := []string{
		"2024-01-15 12:00:09 late",
		"2024-01-15 12:00:04 out of order",
	}
	res := p2pwatch.FilterTexts(lines, time.Time{}, false, time.Time{})
	assert.Len(t, res.New, 2)
	assert.True(t, res.Mark.Equal(ts(12, 0, 9)))
}

func TestFilterTexts_RecentWindow(t *testing.T) {
	lines := []string{
		"2024-01-15 11:50:00 old but new",
		"2024-01-15 11:55:00 exactly at cutoff",
		"2024-01-15 11:58:00 recent",
	}

	res := p2pwatch.FilterTexts(lines, time.Time{}, false, ts(11, 55, 0))
	assert.Len(t, res.New, 3)
	assert.Equal(t, []string{"2024-01-15 11:58:00 recent"}, p2pwatch.Texts(res.Recent))
	// Lines outside the window still advance the mark.
	assert.True(t, res.Mark.Equal(ts(11, 58, 0)))
}
