// Package views shapes store data for a specific display: the memory
// timeline, the calendar month grid, and the map. Views own no state.
package views

import (
	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/query"
)

// Filter selects memories for the timeline. Empty fields mean "all".
type Filter struct {
	Category string `json:"category"`
	Year     string `json:"year"`
	Text     string `json:"q"`
}

func orAll(s string) string {
	if s == "" {
		return query.All
	}
	return s
}

// Timeline returns the filtered memories as a flat reverse-chronological list.
func Timeline(list []models.Memory, f Filter) []models.Memory {
	out := query.FilterByCategory(list, orAll(f.Category))
	out = query.FilterByYear(out, orAll(f.Year))
	out = query.SearchByText(out, f.Text)
	return query.SortByDateDescending(out)
}
