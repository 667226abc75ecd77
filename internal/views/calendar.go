package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/store"
)

// maxCellEvents is how many events a day cell lists before collapsing the rest
// into an overflow count.
const maxCellEvents = 2

// MealPresence says which meal slots of a day have a dish planned.
type MealPresence struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

// DayCell describes one day of the month grid.
type DayCell struct {
	Day      int                  `json:"day"`
	Date     string               `json:"date"`
	Events   []models.Event       `json:"events"`
	Overflow int                  `json:"overflow"`
	Meals    models.MealPlanEntry `json:"meals"`
	Presence MealPresence         `json:"presence"`
}

// Month is the calendar grid for one month.
type Month struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Title string `json:"title"`
	// LeadingBlanks is the number of empty cells before day 1 in a
	// Sunday-first week.
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayCell `json:"days"`
}

// CalendarMonth builds the grid for (year, month). Missing meal plans yield
// empty slots. An event without an id or date is a ValidationError.
func CalendarMonth(snap store.Snapshot, year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, &store.ValidationError{Field: "month", Reason: fmt.Sprintf("%d is not in 1..12", month)}
	}
	if year < 1 || year > 9999 {
		return Month{}, &store.ValidationError{Field: "year", Reason: fmt.Sprintf("%d is out of range", year)}
	}
	if err := validateEvents(snap.Events); err != nil {
		return Month{}, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	m := Month{
		Year:          year,
		Month:         month,
		Title:         first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, 0, daysIn),
	}
	for d := 1; d <= daysIn; d++ {
		key := models.DateKey(first.AddDate(0, 0, d-1))
		evs := EventsOn(snap.Events, key)
		cell := DayCell{Day: d, Date: key, Events: evs}
		if len(evs) > maxCellEvents {
			cell.Events = evs[:maxCellEvents]
			cell.Overflow = len(evs) - maxCellEvents
		}
		cell.Meals = snap.MealPlan(key)
		cell.Presence = MealPresence{
			Breakfast: strings.TrimSpace(cell.Meals.Breakfast) != "",
			Lunch:     strings.TrimSpace(cell.Meals.Lunch) != "",
			Dinner:    strings.TrimSpace(cell.Meals.Dinner) != "",
		}
		m.Days = append(m.Days, cell)
	}
	return m, nil
}

// EventsOn returns the events whose date string equals date exactly.
func EventsOn(events []models.Event, date string) []models.Event {
	out := make([]models.Event, 0)
	for _, ev := range events {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out
}

// UpcomingEvents returns up to limit events on or after now's date, soonest
// first. Events whose date does not parse are skipped.
func UpcomingEvents(events []models.Event, now time.Time, limit int) []models.Event {
	today := models.DateKey(now)
	type dated struct {
		ev models.Event
		t  time.Time
	}
	var ds []dated
	for _, ev := range events {
		t, err := models.ParseDateKey(ev.Date)
		if err != nil || ev.Date < today {
			continue
		}
		ds = append(ds, dated{ev: ev, t: t})
	}
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].t.Before(ds[j].t) })
	if limit > 0 && len(ds) > limit {
		ds = ds[:limit]
	}
	out := make([]models.Event, len(ds))
	for i := range ds {
		out[i] = ds[i].ev
	}
	return out
}

func validateEvents(events []models.Event) error {
	for i, ev := range events {
		if ev.ID == 0 {
			return &store.ValidationError{Field: "event.id", Reason: fmt.Sprintf("event %d (%q) has no id", i, ev.Title)}
		}
		if strings.TrimSpace(ev.Date) == "" {
			return &store.ValidationError{Field: "event.date", Reason: fmt.Sprintf("event %d has no date", ev.ID)}
		}
	}
	return nil
}
