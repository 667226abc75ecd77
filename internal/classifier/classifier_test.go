package classifier_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saaj-family/familyhub/internal/classifier"
	"github.com/saaj-family/familyhub/internal/models"
)

func newClassifier() *classifier.HeuristicClassifier {
	return classifier.NewClassifier(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestClassify(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name  string
		title string
		story string
		tags  []string
		want  models.Category
	}{
		{"celebration", "Dad's Birthday", "A surprise party with cake.", nil, models.CategoryCelebration},
		{"travel", "Goa", "Our beach vacation, the whole trip was sunny.", nil, models.CategoryTravel},
		{"funny", "Pizza Night", "Total disaster, we could not stop laughing.", nil, models.CategoryFunny},
		{"milestone by tag", "Big day", "", []string{"graduation", "first job"}, models.CategoryMilestone},
		{"case folded", "ANNUAL DIWALI RITUAL", "Every year we do the same.", nil, models.CategoryTradition},
		{"no signal", "Tuesday", "Nothing much.", nil, models.CategoryOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.title, tc.story, tc.tags)
			assert.Equal(t, tc.want, got.Category)
			if tc.want == models.CategoryOther {
				assert.Zero(t, got.Score)
			} else {
				assert.Positive(t, got.Score)
			}
		})
	}
}

func TestClassify_TieGoesToFirstKnown(t *testing.T) {
	// One celebration hit and one travel hit.
	got := newClassifier().Classify("cake", "trip", nil)
	assert.Equal(t, models.CategoryCelebration, got.Category)
	assert.Equal(t, 1, got.Score)
}
