// Package voice speaks generated replies into the author's voice channel.
// Announcements are strictly best-effort: every failure is swallowed so text
// delivery is never held up.
package voice

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"time"

	"quill/internal/chat"
)

// Synthesizer renders text into an audio asset at path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, path string) error
	Ext() string
}

// Conn is an established voice connection.
type Conn interface {
	// Play starts playback of the asset and returns once playback has been
	// started, not once it finishes.
	Play(path string) error
	Playing() bool
	Disconnect() error
}

// Transport joins voice channels.
type Transport interface {
	Join(guildID, channelID string) (Conn, error)
}

// Locator finds the voice channel a user is currently connected to.
type Locator interface {
	VoiceChannel(guildID, userID string) (string, bool)
}

// Announcer synthesizes and plays replies. Assets are transient files named
// by the triggering message ID so concurrent announcements never collide.
type Announcer struct {
	synth     Synthesizer
	transport Transport
	locator   Locator
	dir       string
	pollEvery time.Duration
}

func NewAnnouncer(synth Synthesizer, transport Transport, locator Locator, dir string, pollEvery time.Duration) *Announcer {
	if dir == "" {
		dir = os.TempDir()
	}
	if pollEvery <= 0 {
		pollEvery = time.Second
	}
	return &Announcer{
		synth:     synth,
		transport: transport,
		locator:   locator,
		dir:       dir,
		pollEvery: pollEvery,
	}
}

// Announce speaks reply in the voice channel msg's author occupies, if any.
// It blocks until playback finishes but is expected to run on its own task,
// in parallel with text delivery.
func (a *Announcer) Announce(ctx context.Context, msg chat.Message, reply string) {
	if msg.GuildID == "" {
		return
	}
	channelID, ok := a.locator.VoiceChannel(msg.GuildID, msg.AuthorID)
	if !ok {
		return
	}

	path := filepath.Join(a.dir, fmt.Sprintf("tts_%s.%s", msg.ID, a.synth.Ext()))
	defer os.Remove(path)

	if err := a.synth.Synthesize(ctx, reply, path); err != nil {
		log.Debug("speech synthesis failed", "message", msg.ID, "err", err)
		return
	}

	conn, err := a.transport.Join(msg.GuildID, channelID)
	if err != nil {
		log.Debug("voice join failed", "channel", channelID, "err", err)
		return
	}
	defer func() {
		if err := conn.Disconnect(); err != nil {
			log.Debug("voice disconnect failed", "channel", channelID, "err", err)
		}
	}()

	if err := conn.Play(path); err != nil {
		log.Debug("voice playback failed", "channel", channelID, "err", err)
		return
	}
	for conn.Playing() {
		time.Sleep(a.pollEvery)
	}
}
