package asr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// GroqWhisper transcribes audio through Groq's OpenAI-compatible API.
type GroqWhisper struct {
	client *openai.Client
	model  string
}

func NewGroqWhisper(apiKey, baseURL, model string) *GroqWhisper {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqWhisper{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *GroqWhisper) Name() string {
	return "groq"
}

func (g *GroqWhisper) Info() Info {
	return Info{Value: g.Name(), Label: "Groq Whisper (hosted)", Type: "hosted", Model: g.model}
}

func (g *GroqWhisper) Transcribe(ctx context.Context, req Request) (*Result, error) {
	audioReq := openai.AudioRequest{
		Model:    g.model,
		FilePath: req.Path,
	}
	if req.Language != "" && req.Language != "auto" {
		audioReq.Language = req.Language
	}

	resp, err := g.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, fmt.Errorf("groq transcription: %w", err)
	}

	return &Result{Text: strings.TrimSpace(resp.Text), Model: g.model}, nil
}
