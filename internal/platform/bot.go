// Package platform is the Discord gateway adapter. It owns the session,
// translates events into the engine's types and implements the outbound
// capabilities the engine consumes through interfaces.
package platform

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"quill/internal/activation"
	"quill/internal/chat"
	"quill/internal/conversation"
	"quill/internal/delivery"
	"quill/internal/lang"
	"quill/internal/trigger"
)

// Responder runs the reply pipeline for a triggered message.
type Responder interface {
	Respond(ctx context.Context, msg chat.Message, personaID string)
}

// Publisher receives lifecycle events. May be nil.
type Publisher interface {
	Publish(kind, content string)
}

type Options struct {
	Token   string
	Prefix  string
	OwnerID string
	Strings lang.Strings
}

type Bot struct {
	session     *discordgo.Session
	opts        Options
	trigger     *trigger.Evaluator
	responder   Responder
	deliver     *delivery.Manager
	activations *activation.Set
	store       *conversation.Store
	publisher   Publisher
}

func NewBot(opts Options, eval *trigger.Evaluator, activations *activation.Set,
	store *conversation.Store, publisher Publisher) (*Bot, error) {

	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session:     session,
		opts:        opts,
		trigger:     eval,
		activations: activations,
		store:       store,
		publisher:   publisher,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onMessageDelete)
	return b, nil
}

// Wire installs the reply pipeline. The bot is also the outbound capability
// those components send through, so they are built around an existing bot
// and attached here before Open.
func (b *Bot) Wire(responder Responder, deliver *delivery.Manager) {
	b.responder = responder
	b.deliver = deliver
}

func (b *Bot) Open() error {
	if b.responder == nil || b.deliver == nil {
		return fmt.Errorf("bot opened before Wire")
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) selfID() string {
	if u := b.session.State.User; u != nil {
		return u.ID
	}
	return ""
}

// SetStatus and GuildCount drive the presence cycler.
func (b *Bot) SetStatus(status string) error {
	return b.session.UpdateGameStatus(0, status)
}

func (b *Bot) GuildCount() int {
	return len(b.session.State.Guilds)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.trigger.SetBotName(r.User.Username)
	log.Info("gateway ready",
		"user", r.User.Username,
		"guilds", len(r.Guilds),
		"invite", fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=412317240384&scope=bot", r.User.ID),
	)
	b.publish("ready", r.User.Username)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	// Our own outbound replies come back through the gateway. Record them so
	// deleting the message they answer cascades to them.
	if m.Author.ID == b.selfID() {
		if ref := m.MessageReference; ref != nil && ref.MessageID != "" {
			b.deliver.TrackOutgoing(ref.MessageID, m.ChannelID, m.ID)
		}
		return
	}

	if !m.Author.Bot && strings.HasPrefix(m.Content, b.opts.Prefix) {
		b.handleCommand(s, m)
		return
	}

	msg := b.toMessage(s, m.Message)
	ok, personaID := b.trigger.Evaluate(msg)
	if !ok {
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		log.Debug("typing indicator failed", "channel", m.ChannelID, "err", err)
	}
	go b.responder.Respond(context.Background(), msg, personaID)
}

func (b *Bot) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	b.deliver.HandleDeleted(m.ID)
}

func (b *Bot) publish(kind, content string) {
	if b.publisher != nil {
		b.publisher.Publish(kind, content)
	}
}
