// Package store owns the canonical family content: the Memory collection,
// the meal plan, and the read-only reference data loaded at construction.
package store

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/saaj-family/familyhub/internal/metrics"
	"github.com/saaj-family/familyhub/internal/models"
)

// Store is the in-memory content store. All mutation goes through its methods;
// every successful mutation notifies subscribers once, after it is applied.
type Store struct {
	// writeMu serializes mutate+notify so listeners see mutations in order.
	writeMu sync.Mutex
	mu      sync.RWMutex

	memories  []models.Memory
	index     map[string]int // memory id -> position in memories
	mealPlans map[string]models.MealPlanEntry
	ref       reference

	entropy *ulid.MonotonicEntropy
	now     func() time.Time

	subMu     sync.Mutex
	subs      map[SubscriptionID]Listener
	subOrder  []SubscriptionID
	nextSubID SubscriptionID

	logger *slog.Logger
}

// reference holds collections that are never mutated after construction.
type reference struct {
	family            []models.FamilyMember
	values            []models.FamilyValue
	events            []models.Event
	meals             models.MealData
	gallery           []models.GalleryAlbum
	galleryCategories []models.GalleryCategory
}

// New builds a store from ds. Seed memories are validated the same way
// AddMemory validates input, but keep their ids; duplicate ids are rejected.
func New(ds models.Dataset, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		index:     make(map[string]int, len(ds.Memories)),
		mealPlans: make(map[string]models.MealPlanEntry, len(ds.MealPlans)),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
		subs:      make(map[SubscriptionID]Listener),
		logger:    logger,
	}

	for i := range ds.Memories {
		m := ds.Memories[i].Clone()
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("store: seed memory %d: %w", i, &ValidationError{Field: "id", Reason: "missing"})
		}
		if _, dup := s.index[m.ID]; dup {
			return nil, fmt.Errorf("store: seed memory %d: %w", i, &ValidationError{Field: "id", Reason: "duplicate " + m.ID})
		}
		if err := normalize(&m); err != nil {
			return nil, fmt.Errorf("store: seed memory %s: %w", m.ID, err)
		}
		s.index[m.ID] = len(s.memories)
		s.memories = append(s.memories, m)
	}

	for date, entry := range ds.MealPlans {
		if _, err := models.ParseDateKey(date); err != nil {
			return nil, fmt.Errorf("store: seed meal plan: %w", &ValidationError{Field: "date", Reason: "malformed key", Err: err})
		}
		s.mealPlans[date] = entry
	}

	events := make([]models.Event, len(ds.Events))
	for i, ev := range ds.Events {
		ev.Attendees = cloneStrings(ev.Attendees)
		if ev.Color == "" {
			ev.Color = ev.Type.Color()
		}
		events[i] = ev
	}

	s.ref = reference{
		family:            cloneFamily(ds.Family),
		values:            append([]models.FamilyValue(nil), ds.Values...),
		events:            events,
		meals:             cloneMealData(ds.Meals),
		gallery:           cloneAlbums(ds.Gallery),
		galleryCategories: append([]models.GalleryCategory(nil), ds.GalleryCategories...),
	}

	logger.Debug("store: initialized",
		"memories", len(s.memories),
		"events", len(s.ref.events),
		"albums", len(s.ref.gallery),
		"meal_plans", len(s.mealPlans))
	return s, nil
}

// AddMemory validates input, assigns a fresh id, derives the year, and appends
// the record. Any id or year on input is ignored.
func (s *Store) AddMemory(input models.Memory) (models.Memory, error) {
	m := input.Clone()
	if err := normalize(&m); err != nil {
		return models.Memory{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	m.ID = s.newID()
	s.index[m.ID] = len(s.memories)
	s.memories = append(s.memories, m)
	s.mu.Unlock()

	metrics.Inc(metrics.MemoriesAdded)
	s.logger.Info("store: memory added", "id", m.ID, "year", m.Year, "category", m.Category)
	s.notify(Change{Kind: ChangeAdded, ID: m.ID})
	return m.Clone(), nil
}

// EditMemory replaces the record with updated.ID wholesale and re-derives its year.
func (s *Store) EditMemory(updated models.Memory) (models.Memory, error) {
	m := updated.Clone()
	if strings.TrimSpace(m.ID) == "" {
		return models.Memory{}, &ValidationError{Field: "id", Reason: "missing"}
	}
	if err := normalize(&m); err != nil {
		return models.Memory{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	pos, ok := s.index[m.ID]
	if !ok {
		s.mu.Unlock()
		return models.Memory{}, &NotFoundError{ID: m.ID}
	}
	s.memories[pos] = m
	s.mu.Unlock()

	metrics.Inc(metrics.MemoriesEdited)
	s.logger.Info("store: memory edited", "id", m.ID, "year", m.Year)
	s.notify(Change{Kind: ChangeEdited, ID: m.ID})
	return m.Clone(), nil
}

// DeleteMemory removes the record with id and reports whether it existed.
// Deleting an absent id is a no-op and does not notify subscribers.
func (s *Store) DeleteMemory(id string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.memories = append(s.memories[:pos], s.memories[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.memories); i++ {
		s.index[s.memories[i].ID] = i
	}
	s.mu.Unlock()

	metrics.Inc(metrics.MemoriesDeleted)
	s.logger.Info("store: memory deleted", "id", id)
	s.notify(Change{Kind: ChangeDeleted, ID: id})
	return true
}

// GetMemory returns a copy of the record with id.
func (s *Store) GetMemory(id string) (models.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return models.Memory{}, &NotFoundError{ID: id}
	}
	return s.memories[pos].Clone(), nil
}

// Len returns the number of memories.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memories)
}

// SetMealPlan creates or overwrites the entry for date (YYYY-MM-DD).
func (s *Store) SetMealPlan(date string, entry models.MealPlanEntry) error {
	if _, err := models.ParseDateKey(date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD", Err: err}
	}
	s.applyMeal(date, func(models.MealPlanEntry) models.MealPlanEntry { return entry })
	return nil
}

// SetMeal sets a single slot of the entry for date, creating the entry if needed.
func (s *Store) SetMeal(date string, slot models.MealSlot, dish string) error {
	if _, err := models.ParseDateKey(date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD", Err: err}
	}
	if !slot.IsValid() {
		return &ValidationError{Field: "slot", Reason: fmt.Sprintf("%q is not breakfast, lunch, or dinner", slot)}
	}
	s.applyMeal(date, func(e models.MealPlanEntry) models.MealPlanEntry { return e.With(slot, dish) })
	return nil
}

func (s *Store) applyMeal(date string, fn func(models.MealPlanEntry) models.MealPlanEntry) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.mealPlans[date] = fn(s.mealPlans[date])
	s.mu.Unlock()

	metrics.Inc(metrics.MealPlanUpdates)
	s.logger.Info("store: meal plan updated", "date", date)
	s.notify(Change{Kind: ChangeMealPlan, ID: date})
}

// newID returns a ULID that collides with no existing memory id.
// Caller must hold s.mu.
func (s *Store) newID() string {
	for {
		id := ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// normalize validates the mandatory fields of m, derives Year, and cleans tags.
func normalize(m *models.Memory) error {
	if strings.TrimSpace(m.Title) == "" {
		return &ValidationError{Field: "title", Reason: "missing"}
	}
	if strings.TrimSpace(m.Date) == "" {
		return &ValidationError{Field: "date", Reason: "missing"}
	}
	year, err := models.YearOf(m.Date)
	if err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("cannot parse %q", m.Date), Err: err}
	}
	m.Year = year
	if m.Category == "" {
		m.Category = models.CategoryOther
	}
	m.Tags = dedupeTags(m.Tags)
	return nil
}

// dedupeTags trims tags, drops empties, and keeps the first occurrence of each.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
