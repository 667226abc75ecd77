package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	familymcp "github.com/saaj-family/familyhub/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  list_memories     filter the memory timeline
  add_memory        record a new memory
  delete_memory     delete a memory by ID
  suggest_category  suggest a category for a draft memory
  stats             memory statistics
  calendar          events and meal plans for a month
  ask               ask the family memory assistant

Without a chat credential the ask tool still answers, with the not-configured reply.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("mcp: loading store: %w", err)
			}
			assistant, err := newAssistant(st, logger)
			if err != nil {
				return fmt.Errorf("mcp: building assistant: %w", err)
			}

			srv := familymcp.NewServer(st, assistant, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: familyhub MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
