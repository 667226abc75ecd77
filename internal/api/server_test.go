package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaj-family/familyhub/internal/api"
	"github.com/saaj-family/familyhub/internal/chat"
	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/seed"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/internal/views"
)

type stubCompleter struct{ answer string }

func (c stubCompleter) Complete(context.Context, string, string) (string, error) {
	return c.answer, nil
}

// newTestServer creates a test HTTP server over a seeded store. A nil
// completer leaves chat unconfigured.
func newTestServer(t *testing.T, completer chat.Completer) (*httptest.Server, *store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ds, err := seed.Default()
	require.NoError(t, err)
	st, err := store.New(ds, logger)
	require.NoError(t, err)

	assistant := chat.NewAssistant(completer, st, chat.AssistantOptions{}, logger)
	srv := api.NewServer(st, assistant, logger)
	srv.SetNow(func() time.Time { return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC) })
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func doRequest(t *testing.T, method, url string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(context.Background(), method, url, body)
	} else {
		req, err = http.NewRequestWithContext(context.Background(), method, url, http.NoBody)
	}
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_Healthz(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]any
	decodeJSON(t, resp, &result)
	assert.Equal(t, "ok", result["status"])
	assert.EqualValues(t, 10, result["memories"])
}

func TestAPI_ListMemories_Filters(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var all struct {
		Memories []models.Memory `json:"memories"`
		Count    int             `json:"count"`
		Years    []string        `json:"years"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/memories", nil), &all)
	assert.Equal(t, 10, all.Count)
	assert.Equal(t, "10", all.Memories[0].ID, "newest first")
	assert.Equal(t, []string{"2023", "2022"}, all.Years)

	var funny struct {
		Memories []models.Memory `json:"memories"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/memories?category=funny&year=2022", nil), &funny)
	require.Len(t, funny.Memories, 1)
	assert.Equal(t, "6", funny.Memories[0].ID)

	var search struct {
		Count int `json:"count"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/memories?q=DMV", nil), &search)
	assert.Equal(t, 1, search.Count)
}

func TestAPI_MemoryLifecycle(t *testing.T) {
	ts, st := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/memories", jsonBody(t, map[string]any{
		"title":    "T",
		"date":     "2024-03-01",
		"category": "travel",
		"tags":     []string{"road trip", "road trip"},
		"year":     "1999",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Memory
	decodeJSON(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024", created.Year)
	assert.Equal(t, []string{"road trip"}, created.Tags)
	assert.Equal(t, 11, st.Len())

	// Scenario B over HTTP: the year follows the edited date.
	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/memories/"+created.ID, jsonBody(t, map[string]any{
		"title":    "T",
		"date":     "2021-11-11",
		"category": "travel",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var edited models.Memory
	decodeJSON(t, resp, &edited)
	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, "2021", edited.Year)

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/memories/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Memory
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, edited, fetched)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/v1/memories/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is a no-op.
	resp = doRequest(t, http.MethodDelete, ts.URL+"/v1/memories/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 10, st.Len())

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/memories/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_MemoryErrors(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   *bytes.Buffer
		status int
	}{
		{"missing date", http.MethodPost, "/v1/memories", jsonBody(t, map[string]any{"title": "x"}), http.StatusBadRequest},
		{"bad date", http.MethodPost, "/v1/memories", jsonBody(t, map[string]any{"title": "x", "date": "soon"}), http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/v1/memories", bytes.NewBufferString("{"), http.StatusBadRequest},
		{"edit unknown", http.MethodPut, "/v1/memories/nope", jsonBody(t, map[string]any{"title": "x", "date": "2024-01-01"}), http.StatusNotFound},
		{"edit bad date", http.MethodPut, "/v1/memories/1", jsonBody(t, map[string]any{"title": "x", "date": "31/31/31"}), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, tt.method, ts.URL+tt.path, tt.body)
			var result map[string]string
			decodeJSON(t, resp, &result)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, result["error"])
		})
	}
}

func TestAPI_Classify(t *testing.T) {
	ts, st := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/memories/classify", jsonBody(t, map[string]any{
		"title": "Road trip to the mountains",
		"story": "Our first family vacation by car.",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Category string `json:"category"`
		Score    int    `json:"score"`
	}
	decodeJSON(t, resp, &got)
	assert.Equal(t, "travel", got.Category)
	assert.Positive(t, got.Score)
	assert.Equal(t, 10, st.Len(), "classify stores nothing")
}

func TestAPI_Stats(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var stats models.Stats
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/stats", nil), &stats)
	assert.Equal(t, 10, stats.TotalMemories)
	assert.Equal(t, 4, stats.ByAuthor["Aryan"])
	assert.Equal(t, []string{"2022", "2023"}, stats.Years)
}

func TestAPI_FamilyAndGallery(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var family struct {
		Members []models.FamilyMember `json:"members"`
		Values  []models.FamilyValue  `json:"values"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/family", nil), &family)
	assert.Len(t, family.Members, 4)
	assert.Len(t, family.Values, 4)

	var gallery struct {
		Albums []models.GalleryAlbum `json:"albums"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/gallery?category=festival", nil), &gallery)
	require.Len(t, gallery.Albums, 1)
	assert.Equal(t, "diwali-2023", gallery.Albums[0].ID)
}

func TestAPI_Map(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var result struct {
		Items  []views.MapItem `json:"items"`
		Bounds views.Bounds    `json:"bounds"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/map?type=gallery", nil), &result)
	assert.Len(t, result.Items, 4)
	assert.Greater(t, result.Bounds.North, result.Bounds.South)

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/map?type=people", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Calendar(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/calendar/2024/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var month views.Month
	decodeJSON(t, resp, &month)
	assert.Equal(t, "January 2024", month.Title)
	assert.Len(t, month.Days, 31)
	assert.Equal(t, "Homemade pizza", month.Days[19].Meals.Dinner)

	for _, path := range []string{"/v1/calendar/2024/13", "/v1/calendar/2024/jan"} {
		resp = doRequest(t, http.MethodGet, ts.URL+path, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestAPI_Events(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var all struct {
		Events []models.Event `json:"events"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/events", nil), &all)
	assert.Len(t, all.Events, 10)

	var upcoming struct {
		Events []models.Event `json:"events"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/events/upcoming?limit=2", nil), &upcoming)
	require.Len(t, upcoming.Events, 2)
	assert.Equal(t, "2024-01-20", upcoming.Events[0].Date)
	assert.Equal(t, "2024-01-25", upcoming.Events[1].Date)

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/events/upcoming?limit=-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Meals(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPut, ts.URL+"/v1/meals/2024-02-02", jsonBody(t, models.MealPlanEntry{Breakfast: "Poha"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/meals/2024-02-02/dinner", jsonBody(t, map[string]string{"dish": "Biryani"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry models.MealPlanEntry
	decodeJSON(t, resp, &entry)
	assert.Equal(t, models.MealPlanEntry{Breakfast: "Poha", Dinner: "Biryani"}, entry)

	var fetched models.MealPlanEntry
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/meals/2024-02-02", nil), &fetched)
	assert.Equal(t, entry, fetched)

	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/meals/2024-02-02/brunch", jsonBody(t, map[string]string{"dish": "x"}))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/meals/tomorrow", jsonBody(t, models.MealPlanEntry{}))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Chat_NotConfigured(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/chat", jsonBody(t, map[string]string{"message": "hi"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply chat.Reply
	decodeJSON(t, resp, &reply)
	assert.True(t, reply.Fallback)
	assert.Equal(t, chat.NotConfiguredMessage, reply.Message.Content)

	var history struct {
		Messages    []chat.Message `json:"messages"`
		Suggestions []string       `json:"suggestions"`
		Configured  bool           `json:"configured"`
	}
	decodeJSON(t, doRequest(t, http.MethodGet, ts.URL+"/v1/chat/history", nil), &history)
	assert.Len(t, history.Messages, 3)
	assert.NotEmpty(t, history.Suggestions)
	assert.False(t, history.Configured)
}

func TestAPI_Chat(t *testing.T) {
	ts, _ := newTestServer(t, stubCompleter{answer: "Flour on the ceiling!"})

	resp := doRequest(t, http.MethodPost, ts.URL+"/v1/chat", jsonBody(t, map[string]string{"message": "pizza?"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply chat.Reply
	decodeJSON(t, resp, &reply)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "Flour on the ceiling!", reply.Message.Content)

	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/chat", jsonBody(t, map[string]string{"message": "   "}))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DebugVars(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, ts.URL+"/debug/vars", nil)
	var vars map[string]any
	decodeJSON(t, resp, &vars)
	assert.Contains(t, vars, "familyhub_memories_added_total")
}
