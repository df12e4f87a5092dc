// Package reasoner talks to the external reasoning service that writes
// advisory text. Callers depend on Client; the concrete providers are the
// Anthropic Messages API and Gemini via the genai SDK.
package reasoner

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client turns a prompt into generated text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ErrNotConfigured is returned when a provider has no API key.
var ErrNotConfigured = errors.New("reasoning service not configured")

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// Config selects and tunes a provider.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// New builds the client for cfg.Provider. ProviderNone yields a nil Client
// and no error: advisory lookups then always serve the fallback text.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return NewAnthropicClient(AnthropicConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		}), nil
	case ProviderGemini:
		g, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown reasoning provider %q", cfg.Provider)
	}
}
