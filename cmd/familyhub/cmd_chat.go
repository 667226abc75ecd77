package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/chat"
	"github.com/saaj-family/familyhub/pkg/tokenizer"
)

func contextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the system prompt the chat assistant sends",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("context: loading store: %w", err)
			}

			opts := contextOptions()
			opts.Now = time.Now()
			prompt := chat.BuildContext(st.Snapshot(), opts)

			fmt.Println(prompt)
			logger.Info("context built", "chars", len(prompt), "estimated_tokens", tokenizer.EstimateTokens(prompt))
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the family memory assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("ask: loading store: %w", err)
			}
			assistant, err := newAssistant(st, logger)
			if err != nil {
				return fmt.Errorf("ask: building assistant: %w", err)
			}

			reply, err := assistant.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(reply.Message.Content)
			if reply.Fallback {
				logger.Warn("ask: fallback reply", "reason", reply.Reason)
			}
			return nil
		},
	}
}
