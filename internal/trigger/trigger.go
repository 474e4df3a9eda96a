// Package trigger decides whether an inbound message warrants a response.
package trigger

import (
	"strings"
	"sync"

	"quill/internal/activation"
	"quill/internal/chat"
)

// Evaluator applies the response rules to inbound messages. The DM flag and
// bot name can change at runtime; everything else is read-only after
// construction. The activation set carries its own locking.
type Evaluator struct {
	activations  *activation.Set
	triggerWords []string
	smartMention bool

	mu      sync.RWMutex
	allowDM bool
	botName string
}

func NewEvaluator(activations *activation.Set, triggerWords []string, allowDM, smartMention bool, botName string) *Evaluator {
	return &Evaluator{
		activations:  activations,
		triggerWords: triggerWords,
		smartMention: smartMention,
		allowDM:      allowDM,
		botName:      botName,
	}
}

// ToggleDM flips the direct-message policy and reports the new state.
func (e *Evaluator) ToggleDM() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allowDM = !e.allowDM
	return e.allowDM
}

// SetBotName installs the account name used for smart mentions, once it is
// known from the gateway.
func (e *Evaluator) SetBotName(name string) {
	e.mu.Lock()
	e.botName = name
	e.mu.Unlock()
}

// Evaluate reports whether the bot should respond to msg, and with which
// persona. Suppression rules win over every positive rule: messages carrying
// stickers never trigger, and neither do replies whose resolved target is not
// one of the bot's own messages or carries rich embeds.
func (e *Evaluator) Evaluate(msg chat.Message) (bool, string) {
	if msg.FromBot {
		return false, ""
	}
	if msg.HasSticker {
		return false, ""
	}
	if msg.Ref != nil && (!msg.Ref.FromSelf || msg.Ref.HasEmbeds) {
		return false, ""
	}

	e.mu.RLock()
	allowDM, botName := e.allowDM, e.botName
	e.mu.RUnlock()

	persona := e.activations.Persona(msg.ChannelID)

	switch {
	case e.activations.Active(msg.ChannelID):
	case allowDM && msg.DM:
	case e.matchesTriggerWord(msg.Content):
	case msg.MentionsMe && !msg.MentionsEveryone:
	case e.smartMention && containsName(msg.Content, botName):
	case msg.Ref != nil && msg.Ref.FromSelf:
	default:
		return false, ""
	}
	return true, persona
}

// matchesTriggerWord is a case-sensitive substring match, so configured
// words can distinguish "AI" from "ai".
func (e *Evaluator) matchesTriggerWord(content string) bool {
	for _, w := range e.triggerWords {
		if w != "" && strings.Contains(content, w) {
			return true
		}
	}
	return false
}

func containsName(content, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(name))
}
