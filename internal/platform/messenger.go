package platform

import (
	"github.com/bwmarrin/discordgo"
)

// Reply sends content as a reply to the referenced message, with mention
// pings and link embeds suppressed, and returns the sent message ID.
func (b *Bot) Reply(channelID, messageID, guildID, content string) (string, error) {
	sent, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: messageID,
			ChannelID: channelID,
			GuildID:   guildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
		Flags:           discordgo.MessageFlagsSuppressEmbeds,
	})
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (b *Bot) Send(channelID, content string) error {
	_, err := b.session.ChannelMessageSend(channelID, content)
	return err
}

func (b *Bot) Delete(channelID, messageID string) error {
	return b.session.ChannelMessageDelete(channelID, messageID)
}
