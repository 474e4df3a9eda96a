// Package respond runs the reply pipeline for a triggered message: persona
// instructions, optional web search, generation, history bookkeeping and
// fan-out to text delivery and voice.
package respond

import (
	"context"
	log "log/slog"
	"time"

	"github.com/sourcegraph/conc"

	"quill/internal/chat"
	"quill/internal/conversation"
	"quill/internal/persona"
)

// Generator produces an assistant reply from instructions and history.
type Generator interface {
	Generate(ctx context.Context, instructions, searchContext string, history []conversation.Turn) (string, error)
}

// Searcher fetches web context for a query. An empty result means no context.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Deliverer sends the reply as text.
type Deliverer interface {
	Deliver(ctx context.Context, msg chat.Message, reply string)
}

// Announcer speaks the reply in voice.
type Announcer interface {
	Announce(ctx context.Context, msg chat.Message, reply string)
}

// PersonaSource resolves persona instructions.
type PersonaSource interface {
	Build(name string, now time.Time) string
}

type Responder struct {
	personas  PersonaSource
	search    Searcher
	generator Generator
	store     *conversation.Store
	deliver   Deliverer
	announcer Announcer
}

func NewResponder(personas PersonaSource, search Searcher, gen Generator, store *conversation.Store, deliver Deliverer, announcer Announcer) *Responder {
	return &Responder{
		personas:  personas,
		search:    search,
		generator: gen,
		store:     store,
		deliver:   deliver,
		announcer: announcer,
	}
}

// Respond runs the full pipeline for one triggered message. Generation
// failures and empty completions end the pipeline silently: the user message
// stays in history, nothing is delivered.
func (r *Responder) Respond(ctx context.Context, msg chat.Message, personaID string) {
	instructions := r.personas.Build(personaID, time.Now())

	searchContext := ""
	if r.search != nil {
		found, err := r.search.Search(ctx, msg.Content)
		if err != nil {
			log.Warn("web search failed", "channel", msg.ChannelID, "err", err)
		} else {
			searchContext = found
		}
	}

	key := conversation.Key{UserID: msg.AuthorID, ChannelID: msg.ChannelID}
	r.store.Append(key, conversation.Turn{
		Role:    conversation.RoleUser,
		Name:    msg.AuthorName,
		Content: msg.Content,
	})

	reply, err := r.generator.Generate(ctx, instructions, searchContext, r.store.Get(key))
	if err != nil {
		log.Error("generation failed", "channel", msg.ChannelID, "err", err)
		return
	}
	if reply == "" {
		log.Warn("empty completion", "channel", msg.ChannelID)
		return
	}

	r.store.Append(key, conversation.Turn{
		Role:    conversation.RoleAssistant,
		Name:    persona.Label(personaID),
		Content: reply,
	})

	var wg conc.WaitGroup
	wg.Go(func() { r.deliver.Deliver(ctx, msg, reply) })
	if r.announcer != nil {
		wg.Go(func() { r.announcer.Announce(ctx, msg, reply) })
	}
	wg.Wait()
}
