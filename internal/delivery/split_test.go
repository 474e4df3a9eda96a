package delivery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestSplitShortText(t *testing.T) {
	chunks := Split("hello there", 2000)
	assert.Equal(t, []string{"hello there"}, chunks)
}

func TestSplitLongTextReconstructs(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 120)
	chunks := Split(text, 2000)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 2000)
	}
	assert.Equal(t, stripSpace(text), stripSpace(strings.Join(chunks, "")))
}

func TestSplitPrefersWordBoundaries(t *testing.T) {
	chunks := Split("alpha beta gamma delta", 11)
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, chunks)
}

func TestSplitHardBreaksUnbrokenRuns(t *testing.T) {
	text := strings.Repeat("x", 4500)
	chunks := Split(text, 2000)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2000)
	assert.Len(t, chunks[1], 2000)
	assert.Len(t, chunks[2], 500)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("ж", 30)
	chunks := Split(text, 10)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Len(t, []rune(c), 10)
	}
}

func TestSplitEmpty(t *testing.T) {
	assert.Equal(t, []string{""}, Split("", 2000))
}
