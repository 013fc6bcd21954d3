package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel favors latency over depth; chat turns in a game loop
// need to come back fast.
const DefaultModel = "gemini-2.5-flash"

const (
	chatTemperature     = 0.8
	chatMaxOutputTokens = 300
)

// Gemini talks to the Google generative-language API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](chatTemperature),
		MaxOutputTokens:   chatMaxOutputTokens,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

func (g *Gemini) CompleteStructured(ctx context.Context, prompt string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate structured content: %w", err)
	}
	return []byte(resp.Text()), nil
}
