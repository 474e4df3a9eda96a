// Package tts synthesizes speech for generated replies.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"

	openai "github.com/openai/openai-go/v3"
)

// Speaker renders text into an audio asset through the speech endpoint.
type Speaker struct {
	api    openai.Client
	model  string
	voice  string
	format string
}

func NewSpeaker(api openai.Client, model, voice, format string) *Speaker {
	return &Speaker{api: api, model: model, voice: voice, format: format}
}

// Ext returns the file extension matching the configured response format.
func (s *Speaker) Ext() string {
	return s.format
}

// Synthesize writes spoken audio for text to path. The file is not created
// when synthesis fails.
func (s *Speaker) Synthesize(ctx context.Context, text, path string) error {
	resp, err := s.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(s.format),
	})
	if err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create speech asset: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write speech asset: %w", err)
	}
	return f.Close()
}
