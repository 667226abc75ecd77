package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/views"
)

func mapCmd() *cobra.Command {
	var (
		filter   views.MapFilter
		itemType string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "List the places on the family map",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			switch views.ItemType(itemType) {
			case "", views.ItemMemory, views.ItemGallery:
				filter.Type = views.ItemType(itemType)
			default:
				return fmt.Errorf("map: --type must be %s or %s", views.ItemMemory, views.ItemGallery)
			}

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("map: loading store: %w", err)
			}

			items, err := views.MapItems(st.Snapshot(), filter)
			if err != nil {
				return fmt.Errorf("map: %w", err)
			}

			for _, it := range items {
				fmt.Printf("%-28s %9.4f %9.4f  %s\n", it.ID, it.Coordinates.Lat, it.Coordinates.Lng, it.Label)
			}
			b := views.ItemBounds(items)
			fmt.Printf("\n%d places, centered at %.4f, %.4f\n", len(items), b.Center.Lat, b.Center.Lng)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "filter by category (exact match)")
	cmd.Flags().StringVar(&itemType, "type", "", "memory or gallery (default: both)")
	cmd.Flags().StringVarP(&filter.Text, "query", "q", "", "search labels, locations, and authors")
	return cmd
}
