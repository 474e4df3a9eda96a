package platform

import (
	"fmt"
	log "log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// handleCommand dispatches prefix commands. Permission failures are answered
// with a mention reply naming the restriction rather than silence.
func (b *Bot) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, b.opts.Prefix))
	if len(fields) == 0 {
		return
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "toggleactive":
		if !b.isAdmin(s, m) {
			b.rejectCommand(m, b.opts.Strings.NoPermission)
			return
		}
		persona := ""
		if len(args) > 0 {
			persona = args[0]
		}
		if b.activations.Toggle(m.ChannelID, persona) {
			b.replyNotice(m, b.opts.Strings.Activated)
		} else {
			b.replyNotice(m, b.opts.Strings.Deactivated)
		}

	case "toggledm":
		if m.Author.ID != b.opts.OwnerID {
			b.rejectCommand(m, b.opts.Strings.OwnerOnly)
			return
		}
		if b.trigger.ToggleDM() {
			b.replyNotice(m, b.opts.Strings.DMEnabled)
		} else {
			b.replyNotice(m, b.opts.Strings.DMDisabled)
		}

	case "bonk":
		if !b.isAdmin(s, m) {
			b.rejectCommand(m, b.opts.Strings.NoPermission)
			return
		}
		b.store.Clear()
		b.replyNotice(m, "\U0001F528")

	default:
		// Unknown commands are ignored; the prefix may belong to another bot.
	}
}

// isAdmin checks the Administrator permission in the command's channel.
// Direct messages always pass.
func (b *Bot) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		return true
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		log.Warn("permission lookup failed", "user", m.Author.ID, "err", err)
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func (b *Bot) rejectCommand(m *discordgo.MessageCreate, notice string) {
	b.replyNotice(m, fmt.Sprintf("<@%s> %s", m.Author.ID, notice))
}

func (b *Bot) replyNotice(m *discordgo.MessageCreate, content string) {
	if _, err := b.Reply(m.ChannelID, m.ID, m.GuildID, content); err != nil {
		log.Warn("command reply failed", "channel", m.ChannelID, "err", err)
	}
}
