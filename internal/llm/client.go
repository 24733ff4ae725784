// Package llm provides chat-completion clients for the supported providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrEmptyResponse is returned when the provider answers with no choice or candidate.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Client is a chat-completion capability with an explicit lifecycle.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New constructs the Client for cfg.Provider. An empty Model selects the
// provider's default.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.Timeout)
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return c, nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
