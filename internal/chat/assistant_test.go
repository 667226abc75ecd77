package chat_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaj-family/familyhub/internal/chat"
)

type funcCompleter func(ctx context.Context, system, user string) (string, error)

func (f funcCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestAssistant_HistoryStartsWithGreeting(t *testing.T) {
	a := chat.NewAssistant(nil, seededStore(t), chat.AssistantOptions{}, testLogger())

	h := a.History()
	require.Len(t, h, 1)
	assert.Equal(t, chat.RoleAssistant, h[0].Role)
	assert.Equal(t, chat.Greeting, h[0].Content)
	assert.NotEmpty(t, h[0].ID)
	assert.Len(t, a.Suggestions(), 6)
	assert.False(t, a.Configured())
}

func TestAssistant_EmptyMessage(t *testing.T) {
	a := chat.NewAssistant(nil, seededStore(t), chat.AssistantOptions{}, testLogger())
	_, err := a.Send(context.Background(), "  \n ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
	assert.Len(t, a.History(), 1, "nothing recorded")
}

// Scenario D: no credential means the not-configured fallback and no network call.
func TestAssistant_NotConfiguredMakesNoCall(t *testing.T) {
	var hits atomic.Int32
	srv := openAIBackend(t, http.StatusOK, okCompletion, nil, &hits)

	completer, err := chat.NewCompleter(chat.Settings{Provider: chat.ProviderMistral, BaseURL: srv.URL}, testLogger())
	require.ErrorIs(t, err, chat.ErrNotConfigured)

	a := chat.NewAssistant(completer, seededStore(t), chat.AssistantOptions{}, testLogger())
	reply, err := a.Send(context.Background(), "Tell me about the pizza")
	require.NoError(t, err)

	assert.True(t, reply.Fallback)
	assert.Equal(t, "not_configured", reply.Reason)
	assert.Equal(t, chat.NotConfiguredMessage, reply.Message.Content)
	assert.Equal(t, int32(0), hits.Load())

	h := a.History()
	require.Len(t, h, 3)
	assert.Equal(t, chat.RoleUser, h[1].Role)
	assert.Equal(t, reply.Message, h[2])
}

func TestAssistant_Success(t *testing.T) {
	var gotSystem string
	c := funcCompleter(func(_ context.Context, system, user string) (string, error) {
		gotSystem = system
		return "It was legendary, " + user, nil
	})
	a := chat.NewAssistant(c, seededStore(t), chat.AssistantOptions{
		Context: chat.Options{IncludeFamily: true},
	}, testLogger())

	reply, err := a.Send(context.Background(), "pizza?")
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Empty(t, reply.Reason)
	assert.Equal(t, "It was legendary, pizza?", reply.Message.Content)
	assert.Contains(t, gotSystem, "The Great Pizza Disaster of 2022")
	assert.Contains(t, gotSystem, "FAMILY DYNAMICS")
	assert.Len(t, a.History(), 3)
}

func TestAssistant_PromptSeesLatestStore(t *testing.T) {
	st := seededStore(t)
	var gotSystem string
	c := funcCompleter(func(_ context.Context, system, _ string) (string, error) {
		gotSystem = system
		return "ok", nil
	})
	a := chat.NewAssistant(c, st, chat.AssistantOptions{}, testLogger())

	_, err := st.AddMemory(newMemory("Kite Festival", "2024-01-14"))
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "anything new?")
	require.NoError(t, err)
	assert.Contains(t, gotSystem, "11. Kite Festival (2024-01-14)")
}

func TestAssistant_FallbackByStatus(t *testing.T) {
	tests := []struct {
		status int
		reason string
		prefix string
	}{
		{http.StatusUnauthorized, "unauthorized", chat.UnauthorizedMessage},
		{http.StatusForbidden, "unauthorized", chat.UnauthorizedMessage},
		{http.StatusTooManyRequests, "rate_limited", chat.RateLimitedMessage},
		{http.StatusBadGateway, "unavailable", chat.UnavailableMessage},
		{0, "unavailable", chat.UnavailableMessage},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			calls := 0
			c := funcCompleter(func(context.Context, string, string) (string, error) {
				calls++
				return "", &chat.ExternalServiceError{Provider: "mistral", StatusCode: tt.status, Message: "nope"}
			})
			a := chat.NewAssistant(c, seededStore(t), chat.AssistantOptions{}, testLogger())

			reply, err := a.Send(context.Background(), "hello")
			require.NoError(t, err)
			assert.True(t, reply.Fallback)
			assert.Equal(t, tt.reason, reply.Reason)
			assert.True(t, strings.HasPrefix(reply.Message.Content, tt.prefix+"\n\n"), reply.Message.Content)
			assert.Equal(t, 1, calls, "one attempt, no retry")
		})
	}
}

func TestAssistant_FallbackIsDeterministic(t *testing.T) {
	failing := funcCompleter(func(context.Context, string, string) (string, error) {
		return "", errors.New("connection refused")
	})
	a1 := chat.NewAssistant(failing, seededStore(t), chat.AssistantOptions{}, testLogger())
	a2 := chat.NewAssistant(failing, seededStore(t), chat.AssistantOptions{}, testLogger())

	r1, err := a1.Send(context.Background(), "hi")
	require.NoError(t, err)
	r2, err := a2.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, r1.Message.Content, r2.Message.Content)

	// A longer conversation picks a different canned answer.
	r3, err := a1.Send(context.Background(), "hi again")
	require.NoError(t, err)
	assert.NotEqual(t, r1.Message.Content, r3.Message.Content)
}

func TestAssistant_Timeout(t *testing.T) {
	c := funcCompleter(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	a := chat.NewAssistant(c, seededStore(t), chat.AssistantOptions{Timeout: 20 * time.Millisecond}, testLogger())

	start := time.Now()
	reply, err := a.Send(context.Background(), "are you there?")
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "unavailable", reply.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAssistant_SingleOutstandingRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := funcCompleter(func(context.Context, string, string) (string, error) {
		close(started)
		<-release
		return "done", nil
	})
	a := chat.NewAssistant(c, seededStore(t), chat.AssistantOptions{}, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := a.Send(context.Background(), "first")
		done <- err
	}()
	<-started

	_, err := a.Send(context.Background(), "second")
	assert.ErrorIs(t, err, chat.ErrRequestInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, a.History(), 3, "the rejected message is not recorded")
}
