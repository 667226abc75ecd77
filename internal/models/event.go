package models

import (
	"fmt"
	"strings"
	"time"
)

// EventType classifies a calendar event.
type EventType string

const (
	EventTypeBirthday    EventType = "birthday"
	EventTypeAnniversary EventType = "anniversary"
	EventTypeFestival    EventType = "festival"
	EventTypeRegular     EventType = "regular"
	EventTypeCelebration EventType = "celebration"
	EventTypeActivity    EventType = "activity"
	EventTypeMilestone   EventType = "milestone"
	EventTypePlanning    EventType = "planning"
	EventTypeOther       EventType = "other"
)

var eventColors = map[EventType]string{
	EventTypeBirthday:    "bg-pink-500",
	EventTypeAnniversary: "bg-red-500",
	EventTypeFestival:    "bg-orange-500",
	EventTypeRegular:     "bg-blue-500",
	EventTypeCelebration: "bg-purple-500",
	EventTypeActivity:    "bg-blue-500",
	EventTypeMilestone:   "bg-green-500",
	EventTypePlanning:    "bg-purple-500",
}

// DefaultEventColor is the color token for unrecognized event types.
const DefaultEventColor = "bg-gray-500"

// Color returns the display color token for the event type.
func (t EventType) Color() string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return DefaultEventColor
}

// Event is a calendar entry.
type Event struct {
	ID          int       `json:"id" yaml:"id"`
	Date        string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Title       string    `json:"title" yaml:"title"`
	Type        EventType `json:"type" yaml:"type"`
	Time        string    `json:"time,omitempty" yaml:"time,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Attendees   []string  `json:"attendees,omitempty" yaml:"attendees,omitempty"`
	Color       string    `json:"color" yaml:"color,omitempty"`
}

// MealSlot names one of the three daily meals.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// IsValid returns true if the slot is breakfast, lunch, or dinner.
func (s MealSlot) IsValid() bool {
	return s == SlotBreakfast || s == SlotLunch || s == SlotDinner
}

// MealPlanEntry holds the planned dishes for one day.
type MealPlanEntry struct {
	Breakfast string `json:"breakfast" yaml:"breakfast"`
	Lunch     string `json:"lunch" yaml:"lunch"`
	Dinner    string `json:"dinner" yaml:"dinner"`
}

// With returns a copy of e with the given slot set to dish.
func (e MealPlanEntry) With(slot MealSlot, dish string) MealPlanEntry {
	switch slot {
	case SlotBreakfast:
		e.Breakfast = dish
	case SlotLunch:
		e.Lunch = dish
	case SlotDinner:
		e.Dinner = dish
	}
	return e
}

// IsEmpty reports whether no slot has a dish.
func (e MealPlanEntry) IsEmpty() bool {
	return strings.TrimSpace(e.Breakfast) == "" &&
		strings.TrimSpace(e.Lunch) == "" &&
		strings.TrimSpace(e.Dinner) == ""
}

// MealData is the meal-planning reference data.
type MealData struct {
	Categories  []string            `json:"categories" yaml:"categories"`
	SampleMeals map[string][]string `json:"sample_meals" yaml:"sample_meals"`
	Preferences map[string][]string `json:"preferences" yaml:"preferences"`
}

// DateKeyLayout is the layout of calendar keys.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a calendar key.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey validates a YYYY-MM-DD calendar key.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
