// Package activation tracks which channels the bot always answers in, and
// which persona it answers with there.
package activation

import "sync"

// Set maps channel IDs to persona names. Presence of a channel means the bot
// responds to every message there; absent channels fall back to the default
// persona. Mutated by command handlers, read by the trigger rules.
type Set struct {
	mu       sync.RWMutex
	fallback string
	channels map[string]string
}

func New(defaultPersona string) *Set {
	return &Set{
		fallback: defaultPersona,
		channels: make(map[string]string),
	}
}

// Active reports whether the channel is in the always-respond set.
func (s *Set) Active(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.channels[channelID]
	return ok
}

// Persona returns the persona configured for the channel, or the default.
func (s *Set) Persona(channelID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.channels[channelID]; ok && p != "" {
		return p
	}
	return s.fallback
}

// Toggle flips the channel in or out of the set and reports the new state.
// An empty persona keeps the default.
func (s *Set) Toggle(channelID, persona string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; ok {
		delete(s.channels, channelID)
		return false
	}
	s.channels[channelID] = persona
	return true
}

// Len reports how many channels are active.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}
