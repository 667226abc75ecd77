package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/views"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar [year] [month]",
		Short: "Show events and meal plans for a month (default: this month)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			now := time.Now()
			year, month := now.Year(), int(now.Month())
			if len(args) == 2 {
				var err error
				if year, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("calendar: invalid year %q", args[0])
				}
				if month, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("calendar: invalid month %q", args[1])
				}
			} else if len(args) == 1 {
				return fmt.Errorf("calendar: give both year and month, or neither")
			}

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("calendar: loading store: %w", err)
			}

			m, err := views.CalendarMonth(st.Snapshot(), year, month)
			if err != nil {
				return fmt.Errorf("calendar: %w", err)
			}

			fmt.Println(m.Title)
			for _, d := range m.Days {
				if len(d.Events) == 0 && d.Meals.IsEmpty() {
					continue
				}
				fmt.Printf("  %s  %s\n", d.Date, mealMarks(d.Presence))
				for _, ev := range d.Events {
					fmt.Printf("      %-6s %s (%s)\n", ev.Time, ev.Title, ev.Type)
				}
				if d.Overflow > 0 {
					fmt.Printf("      +%d more\n", d.Overflow)
				}
			}
			return nil
		},
	}
	return cmd
}

func mealMarks(p views.MealPresence) string {
	var marks []string
	if p.Breakfast {
		marks = append(marks, "B")
	}
	if p.Lunch {
		marks = append(marks, "L")
	}
	if p.Dinner {
		marks = append(marks, "D")
	}
	if len(marks) == 0 {
		return ""
	}
	return "meals: " + strings.Join(marks, "/")
}

func upcomingCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming events, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("upcoming: loading store: %w", err)
			}

			events := views.UpcomingEvents(st.Snapshot().Events, time.Now(), limit)
			for _, ev := range events {
				fmt.Printf("%s %-6s %s", ev.Date, ev.Time, ev.Title)
				if ev.Location != "" {
					fmt.Printf(" at %s", ev.Location)
				}
				fmt.Println()
			}
			if len(events) == 0 {
				fmt.Println("No upcoming events.")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "max events (0 = all)")
	return cmd
}
