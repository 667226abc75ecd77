package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatCompleter talks to any OpenAI-compatible chat completions
// endpoint. Mistral's API accepts the same request shape.
type OpenAICompatCompleter struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

func newOpenAICompat(s Settings, logger *slog.Logger) *OpenAICompatCompleter {
	cfg := openai.DefaultConfig(s.APIKey)
	switch {
	case s.BaseURL != "":
		cfg.BaseURL = strings.TrimRight(s.BaseURL, "/")
	case s.Provider == ProviderMistral:
		cfg.BaseURL = MistralBaseURL
	}
	cfg.HTTPClient = s.HTTPClient
	return &OpenAICompatCompleter{
		client:      openai.NewClientWithConfig(cfg),
		provider:    s.Provider,
		model:       s.Model,
		temperature: float32(s.Temperature),
		maxTokens:   s.MaxTokens,
		logger:      logger,
	}
}

// Complete sends one system+user exchange and returns the first choice.
func (c *OpenAICompatCompleter) Complete(ctx context.Context, systemContext, userMessage string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemContext},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", c.classify(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &ExternalServiceError{Provider: c.provider, Message: "empty completion"}
	}
	c.logger.Debug("chat: completion received",
		"provider", c.provider,
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"elapsed", time.Since(start))
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAICompatCompleter) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ExternalServiceError{Provider: c.provider, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := "request failed"
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &ExternalServiceError{Provider: c.provider, StatusCode: reqErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return &ExternalServiceError{Provider: c.provider, Message: err.Error(), Err: err}
}
