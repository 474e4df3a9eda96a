package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetMissingKey(t *testing.T) {
	s := NewStore(4)
	assert.Empty(t, s.Get(Key{UserID: "u", ChannelID: "c"}))
}

func TestStoreAppendBounded(t *testing.T) {
	s := NewStore(4)
	key := Key{UserID: "u", ChannelID: "c"}

	for i := 0; i < 20; i++ {
		s.Append(key, Turn{Role: RoleUser, Content: fmt.Sprintf("msg %d", i)})
		assert.LessOrEqual(t, s.Len(key), 4)
	}
	assert.Equal(t, 4, s.Len(key))
}

func TestStoreTruncationIsFIFO(t *testing.T) {
	s := NewStore(4)
	key := Key{UserID: "u", ChannelID: "c"}

	for i := 1; i <= 4; i++ {
		s.Append(key, Turn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}
	s.Append(key, Turn{Role: RoleAssistant, Content: "turn 5"})

	h := s.Get(key)
	require.Len(t, h, 4)
	assert.Equal(t, "turn 2", h[0].Content)
	assert.Equal(t, "turn 3", h[1].Content)
	assert.Equal(t, "turn 4", h[2].Content)
	assert.Equal(t, "turn 5", h[3].Content)
}

func TestStoreKeysAreIndependent(t *testing.T) {
	s := NewStore(2)
	a := Key{UserID: "u1", ChannelID: "c"}
	b := Key{UserID: "u2", ChannelID: "c"}

	s.Append(a, Turn{Role: RoleUser, Content: "hello"})
	assert.Equal(t, 1, s.Len(a))
	assert.Equal(t, 0, s.Len(b))
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore(4)
	key := Key{UserID: "u", ChannelID: "c"}
	s.Append(key, Turn{Role: RoleUser, Content: "original"})

	h := s.Get(key)
	h[0].Content = "mutated"

	assert.Equal(t, "original", s.Get(key)[0].Content)
}

func TestStoreMinimumBound(t *testing.T) {
	s := NewStore(0)
	key := Key{UserID: "u", ChannelID: "c"}
	s.Append(key, Turn{Role: RoleUser, Content: "a"})
	s.Append(key, Turn{Role: RoleUser, Content: "b"})
	require.Equal(t, 1, s.Len(key))
	assert.Equal(t, "b", s.Get(key)[0].Content)
}

func TestStoreClear(t *testing.T) {
	s := NewStore(4)
	a := Key{UserID: "u1", ChannelID: "c1"}
	b := Key{UserID: "u2", ChannelID: "c2"}
	s.Append(a, Turn{Role: RoleUser, Content: "x"})
	s.Append(b, Turn{Role: RoleUser, Content: "y"})

	s.Clear()

	assert.Equal(t, 0, s.Len(a))
	assert.Equal(t, 0, s.Len(b))
}
