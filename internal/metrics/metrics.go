// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on the /debug/vars HTTP endpoint served by the API.
package metrics

import "expvar"

// Operation counters.
var (
	MemoriesAdded   = expvar.NewInt("familyhub_memories_added_total")
	MemoriesEdited  = expvar.NewInt("familyhub_memories_edited_total")
	MemoriesDeleted = expvar.NewInt("familyhub_memories_deleted_total")
	MealPlanUpdates = expvar.NewInt("familyhub_meal_plan_updates_total")
	ChatRequests    = expvar.NewInt("familyhub_chat_requests_total")
	ChatFallbacks   = expvar.NewInt("familyhub_chat_fallbacks_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
