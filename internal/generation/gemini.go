package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiCompleter generates text through the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini-backed completer.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Name returns the configured model name.
func (g *GeminiCompleter) Name() string { return g.model }

// Complete sends a system+user exchange and returns the model's text reply.
func (g *GeminiCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini call: empty response")
	}
	return text, nil
}
