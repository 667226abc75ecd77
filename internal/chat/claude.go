package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeCompleter answers through the Anthropic Messages API. SDK retries are
// disabled so a failure falls back immediately.
type ClaudeCompleter struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	logger      *slog.Logger
}

func newClaude(s Settings, logger *slog.Logger) *ClaudeCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(s.HTTPClient),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	c := anthropic.NewClient(opts...)
	return &ClaudeCompleter{
		client:      &c,
		model:       s.Model,
		temperature: s.Temperature,
		maxTokens:   int64(s.MaxTokens),
		logger:      logger,
	}
}

// Complete sends the family context as the system prompt and returns the
// first text block of the reply.
func (c *ClaudeCompleter) Complete(ctx context.Context, systemContext, userMessage string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemContext},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &ExternalServiceError{Provider: ProviderClaude, StatusCode: apiErr.StatusCode, Message: apiErr.Error(), Err: err}
		}
		return "", &ExternalServiceError{Provider: ProviderClaude, Message: err.Error(), Err: err}
	}

	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			if text := strings.TrimSpace(resp.Content[i].Text); text != "" {
				c.logger.Debug("chat: completion received",
					"provider", ProviderClaude,
					"model", c.model,
					"input_tokens", resp.Usage.InputTokens,
					"output_tokens", resp.Usage.OutputTokens)
				return resp.Content[i].Text, nil
			}
		}
	}
	return "", &ExternalServiceError{Provider: ProviderClaude, Message: "no text block in response"}
}
