package store

import (
	"maps"

	"github.com/saaj-family/familyhub/internal/models"
)

// Snapshot is a point-in-time copy of every collection in the store.
// It shares no memory with the store; changing it has no effect on the store.
type Snapshot struct {
	Memories          []models.Memory                 `json:"memories"`
	Family            []models.FamilyMember           `json:"family"`
	Values            []models.FamilyValue            `json:"values"`
	Events            []models.Event                  `json:"events"`
	MealPlans         map[string]models.MealPlanEntry `json:"meal_plans"`
	Meals             models.MealData                 `json:"meals"`
	Gallery           []models.GalleryAlbum           `json:"gallery"`
	GalleryCategories []models.GalleryCategory        `json:"gallery_categories"`
}

// MealPlan returns the entry for date, or an empty entry when none exists.
func (sn Snapshot) MealPlan(date string) models.MealPlanEntry {
	return sn.MealPlans[date]
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mems := make([]models.Memory, len(s.memories))
	for i := range s.memories {
		mems[i] = s.memories[i].Clone()
	}
	events := make([]models.Event, len(s.ref.events))
	for i, ev := range s.ref.events {
		ev.Attendees = cloneStrings(ev.Attendees)
		events[i] = ev
	}

	return Snapshot{
		Memories:          mems,
		Family:            cloneFamily(s.ref.family),
		Values:            append([]models.FamilyValue(nil), s.ref.values...),
		Events:            events,
		MealPlans:         maps.Clone(s.mealPlans),
		Meals:             cloneMealData(s.ref.meals),
		Gallery:           cloneAlbums(s.ref.gallery),
		GalleryCategories: append([]models.GalleryCategory(nil), s.ref.galleryCategories...),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneFamily(in []models.FamilyMember) []models.FamilyMember {
	out := make([]models.FamilyMember, len(in))
	for i, f := range in {
		f.Interests = cloneStrings(f.Interests)
		f.Personality = cloneStrings(f.Personality)
		out[i] = f
	}
	return out
}

func cloneAlbums(in []models.GalleryAlbum) []models.GalleryAlbum {
	out := make([]models.GalleryAlbum, len(in))
	for i, a := range in {
		if a.Coordinates != nil {
			c := *a.Coordinates
			a.Coordinates = &c
		}
		out[i] = a
	}
	return out
}

func cloneMealData(in models.MealData) models.MealData {
	out := models.MealData{Categories: cloneStrings(in.Categories)}
	if in.SampleMeals != nil {
		out.SampleMeals = make(map[string][]string, len(in.SampleMeals))
		for k, v := range in.SampleMeals {
			out.SampleMeals[k] = cloneStrings(v)
		}
	}
	if in.Preferences != nil {
		out.Preferences = make(map[string][]string, len(in.Preferences))
		for k, v := range in.Preferences {
			out.Preferences[k] = cloneStrings(v)
		}
	}
	return out
}
