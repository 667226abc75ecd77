package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/views"
)

func listCmd() *cobra.Command {
	var (
		filter views.Filter
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("list: loading store: %w", err)
			}

			memories := views.Timeline(st.Snapshot().Memories, filter)
			if limit > 0 && len(memories) > limit {
				memories = memories[:limit]
			}

			for i, m := range memories {
				fmt.Printf("[%d] [%s] %s (%s)\n", i+1, m.Category, m.Title, m.Date)
				fmt.Printf("    ID: %s | Location: %s | Shared by: %s\n", m.ID, m.Location, m.Author)
				fmt.Printf("    %s\n", truncate(m.Story, 100))
			}

			if len(memories) == 0 {
				fmt.Println("No memories found.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "filter by category (exact match)")
	cmd.Flags().StringVar(&filter.Year, "year", "", "filter by year")
	cmd.Flags().StringVarP(&filter.Text, "query", "q", "", "search title, location, author, and tags")
	cmd.Flags().IntVar(&limit, "limit", 0, "max results (0 = all)")
	return cmd
}
