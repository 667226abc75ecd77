package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Provider name constants.
const (
	ProviderMistral = "mistral"
	ProviderOpenAI  = "openai"
	ProviderClaude  = "claude"
)

// Defaults match the hosted Mistral endpoint the family site talks to.
const (
	DefaultProvider    = ProviderMistral
	DefaultModel       = "mistral-large-latest"
	DefaultClaudeModel = "claude-haiku-4-5-20251001"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
	DefaultTimeout     = 30 * time.Second

	MistralBaseURL = "https://api.mistral.ai/v1"
)

// Completer is the chat completion collaborator: text in, text out or error.
// Implementations make exactly one attempt per call.
type Completer interface {
	Complete(ctx context.Context, systemContext, userMessage string) (string, error)
}

// Settings configures a Completer.
type Settings struct {
	Provider    string
	APIKey      string
	BaseURL     string // empty uses the provider default
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

func (s Settings) withDefaults() Settings {
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	if s.Model == "" {
		switch s.Provider {
		case ProviderClaude:
			s.Model = DefaultClaudeModel
		case ProviderMistral:
			s.Model = DefaultModel
		default:
			s.Model = "gpt-4o-mini"
		}
	}
	if s.Temperature == 0 {
		s.Temperature = DefaultTemperature
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.HTTPClient == nil {
		s.HTTPClient = http.DefaultClient
	}
	return s
}

// NewCompleter builds the Completer for s.Provider. A missing credential is a
// ConfigurationError; callers treat it as "chat not configured" rather than
// a fatal condition.
func NewCompleter(s Settings, logger *slog.Logger) (Completer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s = s.withDefaults()
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, &ConfigurationError{Provider: s.Provider, Reason: "API key not set"}
	}
	switch s.Provider {
	case ProviderMistral, ProviderOpenAI:
		return newOpenAICompat(s, logger), nil
	case ProviderClaude:
		return newClaude(s, logger), nil
	default:
		return nil, &ConfigurationError{
			Provider: s.Provider,
			Reason:   fmt.Sprintf("unknown provider; valid providers: %s, %s, %s", ProviderMistral, ProviderOpenAI, ProviderClaude),
		}
	}
}
