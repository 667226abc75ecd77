// Package chat is the family memory assistant: it renders the store as a
// system prompt, sends it to a completion backend, and substitutes a local
// fallback reply whenever the backend is missing or fails.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saaj-family/familyhub/internal/metrics"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/pkg/tokenizer"
)

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Fallback  bool      `json:"fallback,omitempty"`
}

// Reply is the assistant's answer to one Send.
type Reply struct {
	Message Message `json:"message"`
	// Fallback is true when Message was produced locally.
	Fallback bool `json:"fallback"`
	// Reason names why the fallback was used: "not_configured", "unauthorized",
	// "rate_limited", or "unavailable". Empty when Fallback is false.
	Reason string `json:"reason,omitempty"`
}

const (
	Greeting = "Hi there! I'm your family memory assistant. I know all about the family's memories, stories, and special moments. Feel free to ask me anything about your family's journey, or even about meal planning and upcoming events!"

	NotConfiguredMessage = "I'm sorry, but the API key hasn't been configured yet. Please set FAMILYHUB_CHAT_API_KEY (or MISTRAL_API_KEY) to enable AI responses."
	UnauthorizedMessage  = "I'm having trouble accessing the AI service. Please check if your API key is valid and has sufficient credits."
	RateLimitedMessage   = "I'm receiving too many requests right now. Please wait a moment and try again."
	UnavailableMessage   = "I'm experiencing some technical difficulties right now. Let me give you a helpful response based on what I know about your family!"
)

var cannedReplies = []string{
	"I'd love to help you with that! As your family memory keeper, I remember all those wonderful moments you've shared. Could you tell me more about what specific memory or topic you'd like to discuss?",
	"That sounds like it would fit right in with your family's collection of beautiful memories! Just like the time with the great pizza disaster or Mom's secret garden surprise.",
	"Your family has such wonderful stories! From Sparsh's birthday celebrations to those midnight board game championships. What would you like to know more about?",
	"I love how your family creates such meaningful moments together. Whether it's planning meals or celebrating milestones, there's always something special happening in the household!",
	"That reminds me of one of your family's adventures! Your family really knows how to turn ordinary moments into extraordinary memories.",
}

var suggestions = []string{
	"Tell me about Dad's pizza making adventure",
	"What was Sparsh's driving test like?",
	"How did Mom surprise everyone with her garden?",
	"What should we have for dinner tonight?",
	"Tell me about our family's New Year's resolution",
	"What are some upcoming family events?",
}

// Snapshotter supplies the data the prompt is built from. *store.Store
// implements it.
type Snapshotter interface {
	Snapshot() store.Snapshot
}

// AssistantOptions tunes an Assistant.
type AssistantOptions struct {
	// Timeout bounds a single completion call. Zero uses DefaultTimeout.
	Timeout time.Duration
	Context Options
	Now     func() time.Time
}

// Assistant runs the chat flow. At most one Send is outstanding at a time.
type Assistant struct {
	completer Completer
	source    Snapshotter
	opts      AssistantOptions
	logger    *slog.Logger

	inflight sync.Mutex

	histMu  sync.Mutex
	history []Message
}

// NewAssistant returns an Assistant. A nil completer means chat is not
// configured; every Send then answers with NotConfiguredMessage without
// touching the network.
func NewAssistant(completer Completer, source Snapshotter, opts AssistantOptions, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &Assistant{
		completer: completer,
		source:    source,
		opts:      opts,
		logger:    logger,
	}
	a.history = []Message{a.newMessage(RoleAssistant, Greeting, false)}
	return a
}

// Configured reports whether a completion backend is attached.
func (a *Assistant) Configured() bool { return a.completer != nil }

// Send records text, asks the backend for an answer, and records the reply.
// Backend failures never surface as errors: they produce a fallback Reply.
// The only errors are ErrEmptyMessage and ErrRequestInFlight.
func (a *Assistant) Send(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !a.inflight.TryLock() {
		return Reply{}, ErrRequestInFlight
	}
	defer a.inflight.Unlock()

	metrics.Inc(metrics.ChatRequests)
	a.record(a.newMessage(RoleUser, text, false))

	snap := a.source.Snapshot()
	if a.completer == nil {
		return a.fallback(snap, "not_configured", NotConfiguredMessage, false), nil
	}

	copts := a.opts.Context
	if copts.Now.IsZero() {
		copts.Now = a.opts.Now()
	}
	system := BuildContext(snap, copts)
	a.logger.Debug("chat: sending request",
		"memories", len(snap.Memories),
		"system_tokens_est", tokenizer.EstimateTokens(system),
		"message_tokens_est", tokenizer.EstimateTokens(text))

	callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()
	answer, err := a.completer.Complete(callCtx, system, text)
	if err != nil {
		reason, apology := classify(err)
		a.logger.Warn("chat: completion failed, using fallback", "reason", reason, "error", err)
		return a.fallback(snap, reason, apology, true), nil
	}

	msg := a.newMessage(RoleAssistant, answer, false)
	a.record(msg)
	return Reply{Message: msg}, nil
}

// History returns a copy of the conversation, oldest first, starting with the
// greeting.
func (a *Assistant) History() []Message {
	a.histMu.Lock()
	defer a.histMu.Unlock()
	return append([]Message(nil), a.history...)
}

// Suggestions returns the suggested opening questions.
func (a *Assistant) Suggestions() []string {
	return append([]string(nil), suggestions...)
}

// fallback records and returns a locally produced reply. withCanned appends
// a canned answer picked from the conversation length and the memory count.
func (a *Assistant) fallback(snap store.Snapshot, reason, apology string, withCanned bool) Reply {
	metrics.Inc(metrics.ChatFallbacks)
	content := apology
	if withCanned {
		a.histMu.Lock()
		turns := len(a.history)
		a.histMu.Unlock()
		content += "\n\n" + cannedReplies[(turns+len(snap.Memories))%len(cannedReplies)]
	}
	msg := a.newMessage(RoleAssistant, content, true)
	a.record(msg)
	return Reply{Message: msg, Fallback: true, Reason: reason}
}

func (a *Assistant) record(m Message) {
	a.histMu.Lock()
	a.history = append(a.history, m)
	a.histMu.Unlock()
}

func (a *Assistant) newMessage(role Role, content string, fallback bool) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: a.opts.Now(),
		Fallback:  fallback,
	}
}

func classify(err error) (reason, apology string) {
	var svcErr *ExternalServiceError
	if errors.As(err, &svcErr) {
		switch svcErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "unauthorized", UnauthorizedMessage
		case http.StatusTooManyRequests:
			return "rate_limited", RateLimitedMessage
		}
	}
	return "unavailable", UnavailableMessage
}
