package chat

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/query"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/internal/views"
	"github.com/saaj-family/familyhub/pkg/tokenizer"
)

// EmptyMemoriesSentence stands in for the memory list when there is nothing
// to enumerate.
const EmptyMemoriesSentence = "No family memories have been recorded yet."

// DefaultFamilyName is used in the prompt header when Options.FamilyName is empty.
const DefaultFamilyName = "SAAJ"

// Options selects the optional prompt sections.
type Options struct {
	FamilyName string

	// IncludeFamily adds a section describing each family member.
	IncludeFamily bool

	// IncludeMeals adds the meal preferences and sample dishes.
	IncludeMeals bool

	// UpcomingEvents is how many upcoming events to list; 0 omits the section.
	UpcomingEvents int
	Now            time.Time

	// StoryTokenBudget caps each story's estimated size; 0 means no cap.
	StoryTokenBudget int
}

// BuildContext renders snap as the system prompt for the completion API.
// The output depends only on snap and opts.
func BuildContext(snap store.Snapshot, opts Options) string {
	name := opts.FamilyName
	if name == "" {
		name = DefaultFamilyName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a family memory assistant for the %s family%s. Here's what you know about them:\n\n", name, roster(snap.Family))

	b.WriteString("FAMILY MEMORIES:\n")
	if len(snap.Memories) == 0 {
		b.WriteString(EmptyMemoriesSentence + "\n")
	}
	for i, m := range snap.Memories {
		story := strings.Join(strings.Fields(m.Story), " ")
		story = tokenizer.Truncate(story, opts.StoryTokenBudget)
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, m.Title, m.Date, story)
		fmt.Fprintf(&b, "   Category: %s | Location: %s | Shared by: %s\n", orNone(string(m.Category)), orNone(m.Location), orNone(m.Author))
	}

	stats := query.Summarize(snap.Memories)
	b.WriteString("\nSTATISTICS:\n")
	fmt.Fprintf(&b, "- Total memories: %d\n", stats.TotalMemories)
	fmt.Fprintf(&b, "- Years covered: %s\n", joinOrNone(stats.Years))
	fmt.Fprintf(&b, "- Categories: %s\n", joinOrNone(stats.Categories))
	fmt.Fprintf(&b, "- Shared by: %s\n", joinOrNone(stats.Authors))

	if opts.IncludeMeals {
		writeMeals(&b, snap.Meals)
	}
	if opts.IncludeFamily && len(snap.Family) > 0 {
		b.WriteString("\nFAMILY DYNAMICS:\n")
		for _, f := range snap.Family {
			fmt.Fprintf(&b, "- %s (%s", f.Name, f.Role)
			if n, ok := f.Years(); ok {
				fmt.Fprintf(&b, ", %d", n)
			}
			b.WriteString(")")
			if len(f.Interests) > 0 {
				fmt.Fprintf(&b, ": enjoys %s", strings.ToLower(strings.Join(f.Interests, ", ")))
			}
			if len(f.Personality) > 0 {
				fmt.Fprintf(&b, "; %s", strings.ToLower(strings.Join(f.Personality, ", ")))
			}
			b.WriteString("\n")
		}
	}
	if opts.UpcomingEvents > 0 {
		b.WriteString("\nUPCOMING EVENTS:\n")
		upcoming := views.UpcomingEvents(snap.Events, opts.Now, opts.UpcomingEvents)
		if len(upcoming) == 0 {
			b.WriteString("No upcoming events are scheduled.\n")
		}
		for _, ev := range upcoming {
			fmt.Fprintf(&b, "- %s", ev.Date)
			if ev.Time != "" {
				fmt.Fprintf(&b, " %s", ev.Time)
			}
			fmt.Fprintf(&b, ": %s", ev.Title)
			if ev.Location != "" {
				fmt.Fprintf(&b, " at %s", ev.Location)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond as a warm, knowledgeable family friend who remembers all these details and can help with questions about memories, suggest meal ideas, or just chat about family life. Be conversational, caring, and reference specific memories when relevant.\n")
	return b.String()
}

func roster(family []models.FamilyMember) string {
	if len(family) == 0 {
		return ""
	}
	parts := make([]string, len(family))
	for i, f := range family {
		parts[i] = f.Name
		if n, ok := f.Years(); ok {
			parts[i] = fmt.Sprintf("%s-%d", f.Name, n)
		}
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func writeMeals(b *strings.Builder, meals models.MealData) {
	b.WriteString("\nMEAL PLANNING CONTEXT:\n")
	slots := []models.MealSlot{models.SlotBreakfast, models.SlotLunch, models.SlotDinner}
	for _, slot := range slots {
		if dishes := meals.SampleMeals[string(slot)]; len(dishes) > 0 {
			fmt.Fprintf(b, "- Sample %s: %s\n", slot, strings.Join(dishes, ", "))
		}
	}
	if len(meals.Categories) > 0 {
		fmt.Fprintf(b, "- Dish categories: %s\n", strings.Join(meals.Categories, ", "))
	}
	for _, who := range slices.Sorted(maps.Keys(meals.Preferences)) {
		fmt.Fprintf(b, "- %s prefers %s\n", who, strings.Join(meals.Preferences[who], ", "))
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}
