package platform

import (
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"quill/internal/voice"
	"quill/pkg/audioconv"
)

// VoiceChannel reports the voice channel userID currently occupies in
// guildID, consulting gateway state.
func (b *Bot) VoiceChannel(guildID, userID string) (string, bool) {
	guild, err := b.session.State.Guild(guildID)
	if err != nil {
		return "", false
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}

// Join connects to a voice channel muted for receive.
func (b *Bot) Join(guildID, channelID string) (voice.Conn, error) {
	vc, err := b.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("join voice channel: %w", err)
	}
	return &voiceConn{vc: vc}, nil
}

type voiceConn struct {
	vc      *discordgo.VoiceConnection
	playing atomic.Bool
}

// Play decodes the asset and streams it as opus frames in a background
// goroutine. Playing reports true until the last frame has been queued.
func (c *voiceConn) Play(path string) error {
	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	frames, err := audioconv.OpusFrames(pcm)
	if err != nil {
		return fmt.Errorf("encode opus: %w", err)
	}

	c.playing.Store(true)
	go func() {
		defer c.playing.Store(false)
		c.vc.Speaking(true)
		defer c.vc.Speaking(false)
		for _, frame := range frames {
			c.vc.OpusSend <- frame
		}
	}()
	return nil
}

func (c *voiceConn) Playing() bool { return c.playing.Load() }

func (c *voiceConn) Disconnect() error { return c.vc.Disconnect() }
