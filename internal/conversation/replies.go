package conversation

import "sync"

// Reply locates one message the bot sent so it can be deleted later.
type Reply struct {
	ChannelID string
	MessageID string
}

// DefaultReplyCapacity bounds how many outbound replies stay eligible for
// the delete cascade.
const DefaultReplyCapacity = 5

// ReplyLog maps the ID of a message the bot replied to onto the reply it
// sent. It holds at most capacity records; inserting past the bound evicts
// the oldest record first.
type ReplyLog struct {
	mu       sync.Mutex
	capacity int
	order    []string
	byOrigin map[string]Reply
}

func NewReplyLog(capacity int) *ReplyLog {
	if capacity < 1 {
		capacity = 1
	}
	return &ReplyLog{
		capacity: capacity,
		byOrigin: make(map[string]Reply),
	}
}

// Track records the reply sent for originID, evicting the oldest record when
// the log is full. Tracking the same origin twice keeps its original slot.
func (l *ReplyLog) Track(originID string, reply Reply) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byOrigin[originID]; !ok {
		l.order = append(l.order, originID)
	}
	l.byOrigin[originID] = reply

	for len(l.order) > l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.byOrigin, oldest)
	}
}

// Take removes and returns the reply recorded for originID.
func (l *ReplyLog) Take(originID string) (Reply, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reply, ok := l.byOrigin[originID]
	if !ok {
		return Reply{}, false
	}
	delete(l.byOrigin, originID)
	for i, id := range l.order {
		if id == originID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return reply, true
}

// Len reports how many replies are currently tracked.
func (l *ReplyLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byOrigin)
}
