package platform

import (
	log "log/slog"

	"github.com/bwmarrin/discordgo"

	"quill/internal/chat"
)

// toMessage translates a gateway message event into the engine's view of it.
// Reply references are resolved here so the trigger rules never see SDK
// types. An unresolvable reference yields a Ref with FromSelf false.
func (b *Bot) toMessage(s *discordgo.Session, m *discordgo.Message) chat.Message {
	msg := chat.Message{
		ID:         m.ID,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		FromBot:    m.Author.Bot,
		Content:    m.Content,
		DM:         m.GuildID == "",

		MentionsEveryone: m.MentionEveryone,
		HasSticker:       len(m.StickerItems) > 0,
	}

	for _, u := range m.Mentions {
		if u.ID == b.selfID() {
			msg.MentionsMe = true
			break
		}
	}

	if ref := m.MessageReference; ref != nil && ref.MessageID != "" {
		target := m.ReferencedMessage
		if target == nil {
			var err error
			target, err = s.ChannelMessage(ref.ChannelID, ref.MessageID)
			if err != nil {
				log.Debug("reply target not resolvable", "message", ref.MessageID, "err", err)
			}
		}
		r := &chat.ReplyRef{MessageID: ref.MessageID}
		if target != nil && target.Author != nil {
			r.FromSelf = target.Author.ID == b.selfID()
			r.HasEmbeds = len(target.Embeds) > 0
		}
		msg.Ref = r
	}

	return msg
}
