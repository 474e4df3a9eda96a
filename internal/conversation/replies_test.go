package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyLogTrackAndTake(t *testing.T) {
	l := NewReplyLog(5)
	l.Track("origin", Reply{ChannelID: "chan", MessageID: "reply"})

	rep, ok := l.Take("origin")
	require.True(t, ok)
	assert.Equal(t, "chan", rep.ChannelID)
	assert.Equal(t, "reply", rep.MessageID)

	_, ok = l.Take("origin")
	assert.False(t, ok, "take removes the record")
}

func TestReplyLogEvictsOldest(t *testing.T) {
	l := NewReplyLog(5)
	for i := 1; i <= 6; i++ {
		l.Track(fmt.Sprintf("origin-%d", i), Reply{MessageID: fmt.Sprintf("reply-%d", i)})
	}

	assert.Equal(t, 5, l.Len())

	_, ok := l.Take("origin-1")
	assert.False(t, ok, "oldest record evicted")

	rep, ok := l.Take("origin-2")
	require.True(t, ok)
	assert.Equal(t, "reply-2", rep.MessageID)
}

func TestReplyLogNeverExceedsCapacity(t *testing.T) {
	l := NewReplyLog(5)
	for i := 0; i < 50; i++ {
		l.Track(fmt.Sprintf("origin-%d", i), Reply{})
		assert.LessOrEqual(t, l.Len(), 5)
	}
}

func TestReplyLogRetrackKeepsSingleSlot(t *testing.T) {
	l := NewReplyLog(5)
	l.Track("origin", Reply{MessageID: "first"})
	l.Track("origin", Reply{MessageID: "second"})

	assert.Equal(t, 1, l.Len())
	rep, ok := l.Take("origin")
	require.True(t, ok)
	assert.Equal(t, "second", rep.MessageID)
}

func TestReplyLogTakeUnknown(t *testing.T) {
	l := NewReplyLog(5)
	_, ok := l.Take("nope")
	assert.False(t, ok)
}
