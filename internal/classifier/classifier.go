// Package classifier suggests a category for a memory from its text.
package classifier

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/saaj-family/familyhub/internal/models"
)

// Classifier suggests a memory category.
type Classifier interface {
	Classify(title, story string, tags []string) Suggestion
}

// Suggestion is a classifier result. Score is the number of keyword hits
// behind the choice; 0 means no signal and Category is other.
type Suggestion struct {
	Category models.Category `json:"category"`
	Score    int             `json:"score"`
}

// HeuristicClassifier uses keyword-based rules for classification.
type HeuristicClassifier struct {
	logger *slog.Logger
}

// NewClassifier creates a new heuristic-based classifier.
func NewClassifier(logger *slog.Logger) *HeuristicClassifier {
	return &HeuristicClassifier{logger: logger}
}

var patterns = map[models.Category][]string{
	models.CategoryCelebration: {
		"birthday", "anniversary", "party", "celebrat", "surprise", "cake",
		"diwali", "holi", "christmas", "new year", "father's day", "mother's day",
	},
	models.CategoryMilestone: {
		"first", "graduat", "license", "admission", "promotion", "new job",
		"moved", "milestone", "passed", "achievement", "finally",
	},
	models.CategoryFunny: {
		"laugh", "funny", "hilarious", "disaster", "oops", "mess", "prank",
		"nobody asked", "giggl", "joke", "burnt",
	},
	models.CategoryHeartwarming: {
		"tears", "hug", "grateful", "proud", "love", "kindness", "thank",
		"together", "heart", "cried",
	},
	models.CategoryTradition: {
		"every year", "tradition", "annual", "ritual", "ever since", "each year",
		"resolution", "puja", "festival",
	},
	models.CategoryTravel: {
		"trip", "vacation", "beach", "flight", "road trip", "hotel", "visit",
		"journey", "travel", "mountains",
	},
}

// Classify scores each known category by keyword hits over the title, story,
// and tags. Ties go to the category listed first in KnownCategories.
func (c *HeuristicClassifier) Classify(title, story string, tags []string) Suggestion {
	text := cases.Fold().String(title + "\n" + story + "\n" + strings.Join(tags, " "))

	best := Suggestion{Category: models.CategoryOther}
	for _, cat := range models.KnownCategories {
		score := 0
		for _, p := range patterns[cat] {
			if strings.Contains(text, p) {
				score++
			}
		}
		if score > best.Score {
			best = Suggestion{Category: cat, Score: score}
		}
	}

	c.logger.Debug("classified memory", "category", best.Category, "score", best.Score, "title", truncate(title, 60))
	return best
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
