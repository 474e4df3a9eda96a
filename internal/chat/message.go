// Package chat holds the platform-neutral view of an inbound message.
// The gateway adapter translates raw platform events into these values so the
// rest of the engine never touches SDK types.
package chat

// ReplyRef describes the message an inbound message replies to, after the
// gateway has resolved the reference.
type ReplyRef struct {
	MessageID string
	FromSelf  bool // resolved target was authored by this bot
	HasEmbeds bool
}

// Message is one inbound chat message with the metadata the engine cares
// about. GuildID is empty for direct messages.
type Message struct {
	ID         string
	ChannelID  string
	GuildID    string
	AuthorID   string
	AuthorName string
	FromBot    bool // authored by any bot account, including this one
	Content    string
	DM         bool

	MentionsMe       bool
	MentionsEveryone bool
	HasSticker       bool

	// Ref is non-nil when the message is a reply. If the referenced message
	// could not be resolved the gateway leaves FromSelf false, which the
	// trigger rules treat as a reply to someone else.
	Ref *ReplyRef
}
