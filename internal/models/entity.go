package models

import (
	"strconv"
	"strings"
)

// FamilyMember is a static biographical profile.
type FamilyMember struct {
	ID            int      `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Role          string   `json:"role" yaml:"role"`
	Age           string   `json:"age" yaml:"age"` // a number or a placeholder such as "Adult"
	Avatar        string   `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Bio           string   `json:"bio" yaml:"bio"`
	Interests     []string `json:"interests" yaml:"interests"`
	Personality   []string `json:"personality" yaml:"personality"`
	FavoriteQuote string   `json:"favorite_quote" yaml:"favorite_quote"`
	FunFact       string   `json:"fun_fact" yaml:"fun_fact"`
}

// Years returns the member's age when it is numeric.
func (f FamilyMember) Years() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FamilyValue is one of the family's stated values.
type FamilyValue struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// GalleryAlbum is an externally hosted photo album.
type GalleryAlbum struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Thumbnail   string       `json:"thumbnail" yaml:"thumbnail"`
	PhotoCount  int          `json:"photo_count" yaml:"photo_count"`
	Date        string       `json:"date" yaml:"date"` // display label, may be a range
	Category    string       `json:"category" yaml:"category"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	URL         string       `json:"url" yaml:"url"`
}

// GalleryCategory is a filter chip on the gallery page.
type GalleryCategory struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Dataset is the reference data and seed content the store is built from.
type Dataset struct {
	Family            []FamilyMember           `json:"family" yaml:"family"`
	Values            []FamilyValue            `json:"values" yaml:"values"`
	Memories          []Memory                 `json:"memories" yaml:"memories"`
	Events            []Event                  `json:"events" yaml:"events"`
	MealPlans         map[string]MealPlanEntry `json:"meal_plans" yaml:"meal_plans"`
	Meals             MealData                 `json:"meals" yaml:"meals"`
	Gallery           []GalleryAlbum           `json:"gallery" yaml:"gallery"`
	GalleryCategories []GalleryCategory        `json:"gallery_categories" yaml:"gallery_categories"`
}
