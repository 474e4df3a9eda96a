package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quill/internal/activation"
	"quill/internal/chat"
)

func newEvaluator(allowDM bool) (*Evaluator, *activation.Set) {
	acts := activation.New("chatgpt")
	return NewEvaluator(acts, []string{"hey bot"}, allowDM, true, "Quill"), acts
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		allowDM bool
		msg     chat.Message
		want    bool
	}{
		{
			name: "plain message does not trigger",
			msg:  chat.Message{ChannelID: "c", Content: "hello there"},
			want: false,
		},
		{
			name: "trigger word",
			msg:  chat.Message{ChannelID: "c", Content: "hey bot, how are you"},
			want: true,
		},
		{
			name: "trigger word is case sensitive",
			msg:  chat.Message{ChannelID: "c", Content: "HEY BOT"},
			want: false,
		},
		{
			name:    "direct message with dm policy",
			allowDM: true,
			msg:     chat.Message{ChannelID: "c", Content: "hi", DM: true},
			want:    true,
		},
		{
			name: "direct message without dm policy",
			msg:  chat.Message{ChannelID: "c", Content: "hi", DM: true},
			want: false,
		},
		{
			name: "mention",
			msg:  chat.Message{ChannelID: "c", Content: "<@1> hi", MentionsMe: true},
			want: true,
		},
		{
			name: "everyone broadcast is not a mention",
			msg:  chat.Message{ChannelID: "c", Content: "@everyone hi", MentionsMe: true, MentionsEveryone: true},
			want: false,
		},
		{
			name: "display name match is case insensitive",
			msg:  chat.Message{ChannelID: "c", Content: "what do you think, quill?"},
			want: true,
		},
		{
			name: "reply to own message",
			msg:  chat.Message{ChannelID: "c", Content: "and then?", Ref: &chat.ReplyRef{FromSelf: true}},
			want: true,
		},
		{
			name: "sticker suppresses trigger word",
			msg:  chat.Message{ChannelID: "c", Content: "hey bot", HasSticker: true},
			want: false,
		},
		{
			name: "sticker suppresses mention",
			msg:  chat.Message{ChannelID: "c", Content: "<@1>", MentionsMe: true, HasSticker: true},
			want: false,
		},
		{
			name:    "reply to someone else suppresses even under dm policy",
			allowDM: true,
			msg:     chat.Message{ChannelID: "c", Content: "hey bot", DM: true, Ref: &chat.ReplyRef{FromSelf: false}},
			want:    false,
		},
		{
			name: "reply to own message with embeds suppresses",
			msg:  chat.Message{ChannelID: "c", Content: "hey bot", Ref: &chat.ReplyRef{FromSelf: true, HasEmbeds: true}},
			want: false,
		},
		{
			name: "bot author never triggers",
			msg:  chat.Message{ChannelID: "c", Content: "hey bot", FromBot: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEvaluator(tt.allowDM)
			got, _ := e.Evaluate(tt.msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateActiveChannelPersona(t *testing.T) {
	e, acts := newEvaluator(false)
	acts.Toggle("chan", "pirate")

	ok, persona := e.Evaluate(chat.Message{ChannelID: "chan", Content: "anything at all"})
	assert.True(t, ok)
	assert.Equal(t, "pirate", persona)

	ok, persona = e.Evaluate(chat.Message{ChannelID: "other", Content: "hey bot"})
	assert.True(t, ok)
	assert.Equal(t, "chatgpt", persona)
}

func TestEvaluateSmartMentionDisabled(t *testing.T) {
	acts := activation.New("chatgpt")
	e := NewEvaluator(acts, nil, false, false, "Quill")

	ok, _ := e.Evaluate(chat.Message{ChannelID: "c", Content: "quill are you there"})
	assert.False(t, ok)
}

func TestToggleDM(t *testing.T) {
	e, _ := newEvaluator(true)
	dm := chat.Message{ChannelID: "c", DM: true, Content: "hi"}

	ok, _ := e.Evaluate(dm)
	assert.True(t, ok)

	assert.False(t, e.ToggleDM())
	ok, _ = e.Evaluate(dm)
	assert.False(t, ok)

	assert.True(t, e.ToggleDM())
	ok, _ = e.Evaluate(dm)
	assert.True(t, ok)
}

func TestSetBotName(t *testing.T) {
	acts := activation.New("chatgpt")
	e := NewEvaluator(acts, nil, false, true, "")

	msg := chat.Message{ChannelID: "c", Content: "hey Quill, what's up"}
	ok, _ := e.Evaluate(msg)
	assert.False(t, ok)

	e.SetBotName("quill")
	ok, _ = e.Evaluate(msg)
	assert.True(t, ok)
}
