// Package delivery sends generated replies back to the platform in
// size-limited chunks and remembers which replies can be cascade-deleted.
package delivery

import (
	"context"
	log "log/slog"

	"quill/internal/chat"
	"quill/internal/conversation"
)

// Messenger is the outbound messaging capability of the platform gateway.
type Messenger interface {
	// Reply sends content as a reply to the referenced message and returns
	// the sent message ID.
	Reply(channelID, messageID, guildID, content string) (string, error)
	Send(channelID, content string) error
	Delete(channelID, messageID string) error
}

// Manager splits replies into chunks and owns the pending-reply log.
type Manager struct {
	msgr       Messenger
	replies    *conversation.ReplyLog
	limit      int
	failNotice string
}

func NewManager(msgr Messenger, replies *conversation.ReplyLog, limit int, failNotice string) *Manager {
	if limit <= 0 {
		limit = MessageLimit
	}
	return &Manager{
		msgr:       msgr,
		replies:    replies,
		limit:      limit,
		failNotice: failNotice,
	}
}

// Deliver sends reply as sequential chunks replying to msg. A failed chunk is
// replaced by a single generic notice; the remaining chunks are still
// attempted.
func (m *Manager) Deliver(ctx context.Context, msg chat.Message, reply string) {
	for _, chunk := range Split(reply, m.limit) {
		if _, err := m.msgr.Reply(msg.ChannelID, msg.ID, msg.GuildID, chunk); err != nil {
			log.Warn("failed to deliver chunk", "channel", msg.ChannelID, "err", err)
			if err := m.msgr.Send(msg.ChannelID, m.failNotice); err != nil {
				log.Warn("failed to send delivery notice", "channel", msg.ChannelID, "err", err)
			}
		}
	}
}

// TrackOutgoing records an outbound bot reply so that deleting originID later
// cascades to it.
func (m *Manager) TrackOutgoing(originID, channelID, messageID string) {
	m.replies.Track(originID, conversation.Reply{ChannelID: channelID, MessageID: messageID})
}

// HandleDeleted runs the delete cascade for a removed message: the tracked
// bot reply is deleted best-effort and the record dropped either way.
func (m *Manager) HandleDeleted(messageID string) {
	rep, ok := m.replies.Take(messageID)
	if !ok {
		return
	}
	if err := m.msgr.Delete(rep.ChannelID, rep.MessageID); err != nil {
		log.Debug("cascade delete failed", "message", rep.MessageID, "err", err)
	}
}
