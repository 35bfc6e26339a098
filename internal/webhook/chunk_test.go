package webhook

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunks_LineLimit(t *testing.T) {
	lines := make([]string, 45)
	for i := range lines {
		lines[i] = fmt.Sprintf("  line %d  ", i)
	}

	chunks := Chunks(lines, 20, 100000)
	if assert.Len(t, chunks, 3) {
		assert.Len(t, strings.Split(chunks[0], "\n"), 20)
		assert.Len(t, strings.Split(chunks[1], "\n"), 20)
		assert.Len(t, strings.Split(chunks[2], "\n"), 5)
		assert.True(t, strings.HasPrefix(chunks[0], "line 0\nline 1"))
	}
}

func TestChunks_CharBudget(t *testing.T) {
	long := strings.Repeat("é", 600)
	chunks := Chunks([]string{long, long}, 20, 1000)
	if assert.Len(t, chunks, 1) {
		assert.Equal(t, 1000, utf8.RuneCountInString(chunks[0]))
		assert.True(t, utf8.ValidString(chunks[0]))
	}
}

func TestChunks_Bounds(t *testing.T) {
	var lines []string
	for i := 0; i < 137; i++ {
		lines = append(lines, strings.Repeat("x", i%90))
	}

	for _, size := range []int{1, 7, 20, 200} {
		for _, budget := range []int{10, 333, 1000} {
			for _, c := range Chunks(lines, size, budget) {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), budget)
				assert.LessOrEqual(t, len(strings.Split(c, "\n")), size)
			}
		}
	}
}

func TestChunks_Empty(t *testing.T) {
	assert.Nil(t, Chunks(nil, 20, 1000))
}

func TestChunks_NoLimits(t *testing.T) {
	assert.Equal(t, []string{"a\nb\nc"}, Chunks([]string{"a", "b", "c"}, 0, 0))
}
