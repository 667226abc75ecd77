package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func familyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "family",
		Short: "Show the family members and values",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("family: loading store: %w", err)
			}
			snap := st.Snapshot()

			for _, f := range snap.Family {
				fmt.Printf("%s (%s, %s)\n", f.Name, f.Role, f.Age)
				fmt.Printf("    %s\n", truncate(f.Bio, 100))
				if len(f.Interests) > 0 {
					fmt.Printf("    Interests: %s\n", strings.Join(f.Interests, ", "))
				}
			}

			if len(snap.Values) > 0 {
				fmt.Println("\nValues:")
				for _, v := range snap.Values {
					fmt.Printf("  %-12s %s\n", v.Title, truncate(v.Description, 80))
				}
			}
			return nil
		},
	}
}
