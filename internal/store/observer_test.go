package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/store"
)

func TestObserver_NotifiedOncePerMutation(t *testing.T) {
	st := newSeededStore(t)
	var got []store.Change
	st.Subscribe(func(c store.Change) { got = append(got, c) })

	added, err := st.AddMemory(newTestMemory("New", "2024-05-05", models.CategoryFunny))
	require.NoError(t, err)
	added.Title = "Newer"
	_, err = st.EditMemory(added)
	require.NoError(t, err)
	st.DeleteMemory(added.ID)
	require.NoError(t, st.SetMeal("2024-05-05", models.SlotDinner, "Pizza"))

	assert.Equal(t, []store.Change{
		{Kind: store.ChangeAdded, ID: added.ID},
		{Kind: store.ChangeEdited, ID: added.ID},
		{Kind: store.ChangeDeleted, ID: added.ID},
		{Kind: store.ChangeMealPlan, ID: "2024-05-05"},
	}, got)
}

func TestObserver_SeesFullyAppliedState(t *testing.T) {
	st := newEmptyStore(t)
	var sawLen int
	var sawYear string
	st.Subscribe(func(c store.Change) {
		sawLen = st.Len()
		m, err := st.GetMemory(c.ID)
		if err == nil {
			sawYear = m.Year
		}
	})

	_, err := st.AddMemory(newTestMemory("x", "March 8, 2023", models.CategoryMilestone))
	require.NoError(t, err)
	assert.Equal(t, 1, sawLen)
	assert.Equal(t, "2023", sawYear)
}

func TestObserver_NoNotificationOnFailureOrNoop(t *testing.T) {
	st := newSeededStore(t)
	calls := 0
	st.Subscribe(func(store.Change) { calls++ })

	st.DeleteMemory("does-not-exist")
	_, _ = st.EditMemory(models.Memory{ID: "does-not-exist", Title: "x", Date: "2024-01-01"})
	_, _ = st.AddMemory(models.Memory{Title: "x"})

	assert.Equal(t, 0, calls)
}

func TestObserver_Unsubscribe(t *testing.T) {
	st := newEmptyStore(t)
	var a, b int
	idA := st.Subscribe(func(store.Change) { a++ })
	st.Subscribe(func(store.Change) { b++ })

	_, err := st.AddMemory(newTestMemory("one", "2024-01-01", models.CategoryFunny))
	require.NoError(t, err)

	st.Unsubscribe(idA)
	st.Unsubscribe(idA) // unknown ids are ignored

	_, err = st.AddMemory(newTestMemory("two", "2024-01-02", models.CategoryFunny))
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestObserver_ConcurrentWritersAllNotified(t *testing.T) {
	st := newEmptyStore(t)
	var mu sync.Mutex
	ids := make(map[string]bool)
	st.Subscribe(func(c store.Change) {
		mu.Lock()
		ids[c.ID] = true
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.AddMemory(newTestMemory("concurrent", "2024-01-01", models.CategoryFunny))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, st.Len())
	assert.Len(t, ids, 20)
}
