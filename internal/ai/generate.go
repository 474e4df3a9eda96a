// Package ai wraps the remote model backends: chat generation and web search
// enrichment.
package ai

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"

	"quill/internal/conversation"
)

// Generator produces replies from a persona directive, optional search
// context and a bounded conversation history.
type Generator struct {
	api   openai.Client
	model string
}

func NewGenerator(api openai.Client, model string) *Generator {
	return &Generator{api: api, model: model}
}

// Generate runs one chat completion. An empty reply with a nil error means
// the backend had nothing to say; callers treat that the same as a failure.
func (g *Generator) Generate(ctx context.Context, instructions, searchContext string, history []conversation.Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(instructions))
	if searchContext != "" {
		msgs = append(msgs, openai.SystemMessage("Search results:\n"+searchContext))
	}
	for _, turn := range history {
		switch turn.Role {
		case conversation.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		}
	}

	resp, err := g.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(g.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the chat model IDs the backend offers. Best-effort,
// used only for startup reporting.
func (g *Generator) ListModels(ctx context.Context) ([]string, error) {
	page, err := g.api.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
