package store

// ChangeKind says which mutation produced a Change.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeEdited   ChangeKind = "edited"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeMealPlan ChangeKind = "meal_plan"
)

// Change describes one applied mutation. ID is the memory id, or the
// YYYY-MM-DD key for meal plan changes.
type Change struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id"`
}

// Listener is called synchronously after each mutation, while the store's
// write lock is held. It may read the store. A listener that mutates the store
// deadlocks.
type Listener func(Change)

// SubscriptionID identifies a registered listener.
type SubscriptionID uint64

// Subscribe registers l and returns an id for Unsubscribe.
func (s *Store) Subscribe(l Listener) SubscriptionID {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = l
	s.subOrder = append(s.subOrder, id)
	return id
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (s *Store) Unsubscribe(id SubscriptionID) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return
	}
	delete(s.subs, id)
	for i, v := range s.subOrder {
		if v == id {
			s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
			break
		}
	}
}

// notify calls every current listener in registration order.
// Caller must hold writeMu and must not hold mu.
func (s *Store) notify(c Change) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subOrder))
	for _, id := range s.subOrder {
		listeners = append(listeners, s.subs[id])
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(c)
	}
}
