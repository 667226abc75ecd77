package models

import (
	"errors"
	"strings"
	"time"
)

// Category classifies a memory.
type Category string

const (
	CategoryCelebration  Category = "celebration"
	CategoryMilestone    Category = "milestone"
	CategoryFunny        Category = "funny"
	CategoryHeartwarming Category = "heartwarming"
	CategoryTradition    Category = "tradition"
	CategoryTravel       Category = "travel"

	// CategoryOther is the fallback for empty or unrecognized categories.
	CategoryOther Category = "other"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "all"

// KnownCategories lists the categories the filter UI offers, in display order.
var KnownCategories = []Category{
	CategoryCelebration,
	CategoryMilestone,
	CategoryFunny,
	CategoryHeartwarming,
	CategoryTradition,
	CategoryTravel,
}

// categoryLabels are the chip labels shown next to each category.
var categoryLabels = map[Category]string{
	CategoryCelebration:  "Celebrations",
	CategoryMilestone:    "Milestones",
	CategoryFunny:        "Funny",
	CategoryHeartwarming: "Heartwarming",
	CategoryTradition:    "Traditions",
	CategoryTravel:       "Travel",
	CategoryOther:        "Other",
}

// Known returns true if the category is one of KnownCategories.
// Matching is exact: "Travel" is not known.
func (c Category) Known() bool {
	for _, v := range KnownCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Label returns the display label for the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Memory is a user-authored family recollection.
type Memory struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Story       string       `json:"story" yaml:"story"`
	Date        string       `json:"date" yaml:"date"`
	Year        string       `json:"year" yaml:"-"` // derived from Date by the store
	Category    Category     `json:"category" yaml:"category"`
	Location    string       `json:"location" yaml:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Author      string       `json:"author" yaml:"author"`
	Tags        []string     `json:"tags" yaml:"tags"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
}

// Clone returns a copy of m that shares no mutable state with it.
func (m Memory) Clone() Memory {
	if m.Tags != nil {
		m.Tags = append([]string(nil), m.Tags...)
	}
	if m.Coordinates != nil {
		c := *m.Coordinates
		m.Coordinates = &c
	}
	return m
}

// ErrEmptyDate is returned by ParseDate for a blank date string.
var ErrEmptyDate = errors.New("date is empty")

// dateLayouts are the date formats accepted for memories, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate parses a memory date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// YearOf returns the four-digit year of a memory date.
func YearOf(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format("2006"), nil
}

// Stats holds summary statistics about a memory list.
type Stats struct {
	TotalMemories int            `json:"total_memories"`
	ByCategory    map[string]int `json:"by_category"`
	ByAuthor      map[string]int `json:"by_author"`
	ByYear        map[string]int `json:"by_year"`
	Years         []string       `json:"years"`
	Categories    []string       `json:"categories"`
	Authors       []string       `json:"authors"`
}
