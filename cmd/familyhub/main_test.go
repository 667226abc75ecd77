package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saaj-family/familyhub/internal/views"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "line one line two", truncate("line one\nline two", 40))
	assert.Equal(t, "héll...", truncate("héllo world", 4))
}

func TestMealMarks(t *testing.T) {
	assert.Equal(t, "", mealMarks(views.MealPresence{}))
	assert.Equal(t, "meals: B/D", mealMarks(views.MealPresence{Breakfast: true, Dinner: true}))
	assert.Equal(t, "meals: B/L/D", mealMarks(views.MealPresence{Breakfast: true, Lunch: true, Dinner: true}))
}
