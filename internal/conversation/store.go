// Package conversation keeps the per-(user, channel) rolling histories and
// the short log of replies the bot may have to take back later.
package conversation

import "sync"

// Role tags one side of an exchange.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a conversation history. Immutable once appended.
type Turn struct {
	Role    Role
	Name    string // optional speaker label, set on assistant turns
	Content string
}

// Key identifies one independent history.
type Key struct {
	UserID    string
	ChannelID string
}

// Store is a size-bounded map of conversation histories. Histories keep the
// most recent maxTurns entries; older turns age out FIFO. Keys live for the
// process lifetime, bounded by the distinct (user, channel) pairs seen.
type Store struct {
	mu       sync.Mutex
	maxTurns int
	byKey    map[Key][]Turn
}

func NewStore(maxTurns int) *Store {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Store{
		maxTurns: maxTurns,
		byKey:    make(map[Key][]Turn),
	}
}

// Get returns a copy of the history for key, empty if none exists.
func (s *Store) Get(key Key) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.byKey[key]
	out := make([]Turn, len(h))
	copy(out, h)
	return out
}

// Append adds a turn to the history for key, dropping the oldest turns when
// the history exceeds the configured bound.
func (s *Store) Append(key Key, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.byKey[key], turn)
	if over := len(h) - s.maxTurns; over > 0 {
		h = h[over:]
	}
	s.byKey[key] = h
}

// Clear drops every conversation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[Key][]Turn)
}

// Len reports the current history length for key.
func (s *Store) Len(key Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey[key])
}
