package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	Model  string
	APIKey string
}

// NewGeminiProvider creates a Gemini provider reading its key from apiKeyEnv.
func NewGeminiProvider(model, apiKeyEnv string) *GeminiProvider {
	return &GeminiProvider{Model: model, APIKey: os.Getenv(apiKeyEnv)}
}

func (g *GeminiProvider) Name() string { return "gemini/" + g.Model }

func (g *GeminiProvider) IsConfigured() bool {
	return g.APIKey != ""
}

// Generate sends the request to Gemini and concatenates the text parts of
// the first candidate.
func (g *GeminiProvider) Generate(ctx context.Context, r Request) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	temperature := float32(r.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(r.MaxTokens),
	}
	if r.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: r.System}}}
	}

	result, err := client.Models.GenerateContent(ctx, g.Model, genai.Text(r.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var b strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}
