package voice

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/chat"
)

type fakeSynth struct {
	err    error
	called bool
	path   string
}

func (s *fakeSynth) Synthesize(_ context.Context, _ string, path string) error {
	s.called = true
	s.path = path
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(path, []byte("audio"), 0o644)
}

func (s *fakeSynth) Ext() string { return "mp3" }

type fakeConn struct {
	playErr      error
	played       string
	polls        int
	disconnected bool
}

func (c *fakeConn) Play(path string) error {
	c.played = path
	return c.playErr
}

func (c *fakeConn) Playing() bool {
	c.polls++
	return c.polls < 3
}

func (c *fakeConn) Disconnect() error {
	c.disconnected = true
	return nil
}

type fakeTransport struct {
	conn   *fakeConn
	err    error
	joined string
}

func (t *fakeTransport) Join(_, channelID string) (Conn, error) {
	t.joined = channelID
	if t.err != nil {
		return nil, t.err
	}
	return t.conn, nil
}

type fakeLocator struct {
	channel string
	ok      bool
}

func (l *fakeLocator) VoiceChannel(_, _ string) (string, bool) {
	return l.channel, l.ok
}

func guildMsg() chat.Message {
	return chat.Message{ID: "42", GuildID: "g1", AuthorID: "u1", ChannelID: "c1"}
}

func TestAnnouncePlaysAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{}
	conn := &fakeConn{}
	tr := &fakeTransport{conn: conn}

	a := NewAnnouncer(synth, tr, &fakeLocator{channel: "vc1", ok: true}, dir, time.Millisecond)
	a.Announce(context.Background(), guildMsg(), "hello there")

	assert.Equal(t, "vc1", tr.joined)
	assert.Equal(t, filepath.Join(dir, "tts_42.mp3"), conn.played)
	assert.True(t, conn.disconnected)
	assert.GreaterOrEqual(t, conn.polls, 3)

	_, err := os.Stat(synth.path)
	require.True(t, os.IsNotExist(err), "asset should be removed after playback")
}

func TestAnnounceSkipsDirectMessages(t *testing.T) {
	synth := &fakeSynth{}
	tr := &fakeTransport{conn: &fakeConn{}}
	a := NewAnnouncer(synth, tr, &fakeLocator{channel: "vc1", ok: true}, t.TempDir(), time.Millisecond)

	msg := guildMsg()
	msg.GuildID = ""
	a.Announce(context.Background(), msg, "hello")

	assert.False(t, synth.called)
	assert.Empty(t, tr.joined)
}

func TestAnnounceSkipsWhenAuthorNotInVoice(t *testing.T) {
	synth := &fakeSynth{}
	tr := &fakeTransport{conn: &fakeConn{}}
	a := NewAnnouncer(synth, tr, &fakeLocator{}, t.TempDir(), time.Millisecond)

	a.Announce(context.Background(), guildMsg(), "hello")

	assert.False(t, synth.called)
	assert.Empty(t, tr.joined)
}

func TestAnnounceSwallowsSynthesisFailure(t *testing.T) {
	synth := &fakeSynth{err: os.ErrPermission}
	tr := &fakeTransport{conn: &fakeConn{}}
	a := NewAnnouncer(synth, tr, &fakeLocator{channel: "vc1", ok: true}, t.TempDir(), time.Millisecond)

	a.Announce(context.Background(), guildMsg(), "hello")

	assert.Empty(t, tr.joined, "should not join voice when synthesis fails")
}

func TestAnnounceDisconnectsAfterPlayFailure(t *testing.T) {
	conn := &fakeConn{playErr: os.ErrInvalid}
	tr := &fakeTransport{conn: conn}
	a := NewAnnouncer(&fakeSynth{}, tr, &fakeLocator{channel: "vc1", ok: true}, t.TempDir(), time.Millisecond)

	a.Announce(context.Background(), guildMsg(), "hello")

	assert.True(t, conn.disconnected)
	assert.Zero(t, conn.polls, "should not poll after a failed play")
}
