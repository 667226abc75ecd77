package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/chat"
	"github.com/saaj-family/familyhub/internal/config"
	"github.com/saaj-family/familyhub/internal/seed"
	"github.com/saaj-family/familyhub/internal/store"
)

var (
	cfg        *config.Config
	configFile string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "familyhub",
		Short: "familyhub: the SAAJ family's memories, calendar, and chat assistant",
		Long:  "familyhub keeps the family's shared memories, events, and meal plans in memory and serves them over HTTP, MCP, or the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.familyhub/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		listCmd(),
		statsCmd(),
		familyCmd(),
		calendarCmd(),
		upcomingCmd(),
		mapCmd(),
		contextCmd(),
		askCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = cfg.Logging.SlogLevel()
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newStore(logger *slog.Logger) (*store.Store, error) {
	ds, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return nil, err
	}
	return store.New(ds, logger)
}

func contextOptions() chat.Options {
	return chat.Options{
		FamilyName:       cfg.Chat.FamilyName,
		IncludeFamily:    true,
		IncludeMeals:     true,
		UpcomingEvents:   cfg.Chat.UpcomingEvents,
		StoryTokenBudget: cfg.Chat.StoryTokenBudget,
	}
}

// newAssistant builds the chat assistant. A missing credential is not fatal:
// the assistant then answers every message with the not-configured reply.
func newAssistant(st *store.Store, logger *slog.Logger) (*chat.Assistant, error) {
	completer, err := chat.NewCompleter(chat.Settings{
		Provider:    cfg.Chat.Provider,
		APIKey:      cfg.ChatAPIKey(),
		BaseURL:     cfg.Chat.BaseURL,
		Model:       cfg.ChatModel(),
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	}, logger)
	if err != nil {
		var confErr *chat.ConfigurationError
		if !errors.As(err, &confErr) {
			return nil, err
		}
		logger.Warn("chat: assistant not configured; replies will use the fallback message",
			"provider", cfg.Chat.Provider, "reason", confErr.Reason)
		completer = nil
	}
	return chat.NewAssistant(completer, st, chat.AssistantOptions{
		Timeout: cfg.Chat.Timeout,
		Context: contextOptions(),
	}, logger), nil
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
