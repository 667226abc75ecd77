package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/query"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show memory statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("stats: loading store: %w", err)
			}

			stats := query.Summarize(st.Snapshot().Memories)

			fmt.Printf("Total memories: %d\n\n", stats.TotalMemories)

			fmt.Println("By category:")
			printCounts(stats.ByCategory)

			fmt.Println("\nBy author:")
			printCounts(stats.ByAuthor)

			fmt.Println("\nBy year:")
			printCounts(stats.ByYear)

			return nil
		},
	}
}

func printCounts(counts map[string]int) {
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
}
