package reasoner

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"enemyintel/internal/logging"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures GeminiClient.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// GeminiClient generates text with the genai SDK.
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, maxTokens: int32(cfg.MaxTokens)}, nil
}

func (g *GeminiClient) Model() string { return g.model }

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	logging.ReasonerDebug("[Gemini] Complete: model=%s prompt_len=%d", g.model, len(prompt))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}
	return text, nil
}
