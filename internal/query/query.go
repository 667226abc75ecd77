// Package query holds the pure filter, search, sort, and aggregation functions
// the views build on. No function here mutates its input.
package query

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/saaj-family/familyhub/internal/models"
)

// All is the filter value that disables a filter.
const All = models.CategoryAll

// FilterByCategory keeps memories whose category equals category exactly.
// Matching is case-sensitive: "Travel" does not match "travel".
func FilterByCategory(list []models.Memory, category string) []models.Memory {
	if category == All {
		return slices.Clone(list)
	}
	return filter(list, func(m models.Memory) bool { return string(m.Category) == category })
}

// FilterByYear keeps memories whose derived year equals year.
func FilterByYear(list []models.Memory, year string) []models.Memory {
	if year == All {
		return slices.Clone(list)
	}
	return filter(list, func(m models.Memory) bool { return m.Year == year })
}

// SearchByText keeps memories whose title, location, author, or a tag contains
// term, ignoring case. A blank term keeps everything.
func SearchByText(list []models.Memory, term string) []models.Memory {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(list)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	return filter(list, func(m models.Memory) bool {
		if containsFolded(fold, m.Title, needle) ||
			containsFolded(fold, m.Location, needle) ||
			containsFolded(fold, m.Author, needle) {
			return true
		}
		for _, tag := range m.Tags {
			if containsFolded(fold, tag, needle) {
				return true
			}
		}
		return false
	})
}

// SortByDateDescending returns the memories most recent first. The sort is
// stable; memories whose date does not parse go last in their original order.
func SortByDateDescending(list []models.Memory) []models.Memory {
	type keyed struct {
		m     models.Memory
		unix  int64
		valid bool
	}
	ks := make([]keyed, len(list))
	for i, m := range list {
		t, err := models.ParseDate(m.Date)
		ks[i] = keyed{m: m, unix: t.Unix(), valid: err == nil}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		if a.valid != b.valid {
			return a.valid
		}
		return a.valid && a.unix > b.unix
	})
	out := make([]models.Memory, len(ks))
	for i := range ks {
		out[i] = ks[i].m
	}
	return out
}

// AggregateCounts maps each key produced by keyFn to the number of memories
// sharing it. The counts always sum to len(list).
func AggregateCounts(list []models.Memory, keyFn func(models.Memory) string) map[string]int {
	counts := make(map[string]int)
	for _, m := range list {
		counts[keyFn(m)]++
	}
	return counts
}

// CountByCategory counts memories per category value.
func CountByCategory(list []models.Memory) map[string]int {
	return AggregateCounts(list, func(m models.Memory) string { return string(m.Category) })
}

// CountByAuthor counts memories per author.
func CountByAuthor(list []models.Memory) map[string]int {
	return AggregateCounts(list, func(m models.Memory) string { return m.Author })
}

// CountByYear counts memories per derived year.
func CountByYear(list []models.Memory) map[string]int {
	return AggregateCounts(list, func(m models.Memory) string { return m.Year })
}

// Years returns the distinct years present, newest first.
func Years(list []models.Memory) []string {
	years := sortedKeys(CountByYear(list))
	slices.Reverse(years)
	return years
}

// Chip is a filter option with the number of memories it would show.
type Chip struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryChips returns the category filter options: "all", each known
// category, then "other" for memories whose category is not known.
func CategoryChips(list []models.Memory) []Chip {
	counts := AggregateCounts(list, func(m models.Memory) string {
		if m.Category.Known() {
			return string(m.Category)
		}
		return string(models.CategoryOther)
	})
	chips := make([]Chip, 0, len(models.KnownCategories)+2)
	chips = append(chips, Chip{Value: All, Label: "All Memories", Count: len(list)})
	for _, c := range models.KnownCategories {
		chips = append(chips, Chip{Value: string(c), Label: c.Label(), Count: counts[string(c)]})
	}
	chips = append(chips, Chip{
		Value: string(models.CategoryOther),
		Label: models.CategoryOther.Label(),
		Count: counts[string(models.CategoryOther)],
	})
	return chips
}

// Summarize computes the statistics shown on the memories page and in the chat prompt.
func Summarize(list []models.Memory) models.Stats {
	byCategory := CountByCategory(list)
	byAuthor := CountByAuthor(list)
	byYear := CountByYear(list)
	return models.Stats{
		TotalMemories: len(list),
		ByCategory:    byCategory,
		ByAuthor:      byAuthor,
		ByYear:        byYear,
		Years:         sortedKeys(byYear),
		Categories:    sortedKeys(byCategory),
		Authors:       sortedKeys(byAuthor),
	}
}

func filter(list []models.Memory, keep func(models.Memory) bool) []models.Memory {
	out := make([]models.Memory, 0, len(list))
	for _, m := range list {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func containsFolded(fold cases.Caser, s, needle string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(fold.String(s), needle)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
