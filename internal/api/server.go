// Package api serves the family content store and the chat assistant over
// HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/saaj-family/familyhub/internal/chat"
	"github.com/saaj-family/familyhub/internal/classifier"
	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/query"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/internal/views"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// defaultUpcomingLimit is how many events GET /v1/events/upcoming returns
// without a limit parameter.
const defaultUpcomingLimit = 5

// Server is an HTTP API server over a Store and an Assistant.
type Server struct {
	store      *store.Store
	assistant  *chat.Assistant
	classifier classifier.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewServer creates a new Server with the given dependencies.
func NewServer(st *store.Store, assistant *chat.Assistant, logger *slog.Logger) *Server {
	return &Server{
		store:      st,
		assistant:  assistant,
		classifier: classifier.NewClassifier(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /debug/vars", expvar.Handler())

	mux.HandleFunc("GET /v1/memories", s.handleListMemories)
	mux.HandleFunc("POST /v1/memories", s.handleAddMemory)
	mux.HandleFunc("POST /v1/memories/classify", s.handleClassify)
	mux.HandleFunc("GET /v1/memories/{id}", s.handleGetMemory)
	mux.HandleFunc("PUT /v1/memories/{id}", s.handleEditMemory)
	mux.HandleFunc("DELETE /v1/memories/{id}", s.handleDeleteMemory)
	mux.HandleFunc("GET /v1/stats", s.handleStats)

	mux.HandleFunc("GET /v1/family", s.handleFamily)
	mux.HandleFunc("GET /v1/gallery", s.handleGallery)
	mux.HandleFunc("GET /v1/map", s.handleMap)

	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/events/upcoming", s.handleUpcoming)
	mux.HandleFunc("GET /v1/calendar/{year}/{month}", s.handleCalendar)
	mux.HandleFunc("GET /v1/meals/{date}", s.handleGetMeals)
	mux.HandleFunc("PUT /v1/meals/{date}", s.handleSetMealPlan)
	mux.HandleFunc("PUT /v1/meals/{date}/{slot}", s.handleSetMeal)

	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /v1/chat/history", s.handleChatHistory)

	return mux
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "memories": s.store.Len()})
}

// memoryRequest is the body accepted by POST /v1/memories and
// PUT /v1/memories/{id}. Year is never accepted; it is derived from Date.
type memoryRequest struct {
	Title       string              `json:"title"`
	Story       string              `json:"story"`
	Date        string              `json:"date"`
	Category    models.Category     `json:"category"`
	Location    string              `json:"location"`
	Coordinates *models.Coordinates `json:"coordinates"`
	Author      string              `json:"author"`
	Tags        []string            `json:"tags"`
	Image       string              `json:"image"`
}

func (req memoryRequest) toMemory(id string) models.Memory {
	return models.Memory{
		ID:          id,
		Title:       req.Title,
		Story:       req.Story,
		Date:        req.Date,
		Category:    req.Category,
		Location:    req.Location,
		Coordinates: req.Coordinates,
		Author:      req.Author,
		Tags:        req.Tags,
		Image:       req.Image,
	}
}

// handleClassify suggests a category for a draft memory. Nothing is stored.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.classifier.Classify(req.Title, req.Story, req.Tags))
}

// listMemoriesResponse is returned by GET /v1/memories.
type listMemoriesResponse struct {
	Memories   []models.Memory `json:"memories"`
	Count      int             `json:"count"`
	Categories []query.Chip    `json:"categories"`
	Years      []string        `json:"years"`
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap := s.store.Snapshot()
	list := views.Timeline(snap.Memories, views.Filter{
		Category: q.Get("category"),
		Year:     q.Get("year"),
		Text:     q.Get("q"),
	})
	s.writeJSON(w, http.StatusOK, listMemoriesResponse{
		Memories:   list,
		Count:      len(list),
		Categories: query.CategoryChips(snap.Memories),
		Years:      query.Years(snap.Memories),
	})
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	mem, err := s.store.AddMemory(req.toMemory(""))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, mem)
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	mem, err := s.store.GetMemory(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mem)
}

func (s *Server) handleEditMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	mem, err := s.store.EditMemory(req.toMemory(r.PathValue("id")))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mem)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteMemory(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, query.Summarize(s.store.Snapshot().Memories))
}

// familyResponse is returned by GET /v1/family.
type familyResponse struct {
	Members []models.FamilyMember `json:"members"`
	Values  []models.FamilyValue  `json:"values"`
}

func (s *Server) handleFamily(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	s.writeJSON(w, http.StatusOK, familyResponse{Members: snap.Family, Values: snap.Values})
}

// galleryResponse is returned by GET /v1/gallery.
type galleryResponse struct {
	Albums     []models.GalleryAlbum `json:"albums"`
	Categories []query.Chip          `json:"categories"`
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	category := r.URL.Query().Get("category")
	if category == "" {
		category = query.All
	}
	s.writeJSON(w, http.StatusOK, galleryResponse{
		Albums:     query.FilterAlbums(snap.Gallery, category, r.URL.Query().Get("q")),
		Categories: query.AlbumChips(snap.Gallery, snap.GalleryCategories),
	})
}

// mapResponse is returned by GET /v1/map.
type mapResponse struct {
	Items  []views.MapItem `json:"items"`
	Bounds views.Bounds    `json:"bounds"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ := views.ItemType(q.Get("type"))
	if typ != "" && typ != views.ItemMemory && typ != views.ItemGallery {
		s.writeError(w, http.StatusBadRequest, "type must be memory or gallery")
		return
	}
	items, err := views.MapItems(s.store.Snapshot(), views.MapFilter{
		Category: q.Get("category"),
		Type:     typ,
		Text:     q.Get("q"),
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapResponse{Items: items, Bounds: views.ItemBounds(items)})
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"events": s.store.Snapshot().Events})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := defaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	events := views.UpcomingEvents(s.store.Snapshot().Events, s.now(), limit)
	s.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, yErr := strconv.Atoi(r.PathValue("year"))
	month, mErr := strconv.Atoi(r.PathValue("month"))
	if yErr != nil || mErr != nil {
		s.writeError(w, http.StatusBadRequest, "year and month must be integers")
		return
	}
	m, err := views.CalendarMonth(s.store.Snapshot(), year, month)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetMeals(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := models.ParseDateKey(date); err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Snapshot().MealPlan(date))
}

func (s *Server) handleSetMealPlan(w http.ResponseWriter, r *http.Request) {
	var entry models.MealPlanEntry
	if !s.decode(w, r, &entry) {
		return
	}
	date := r.PathValue("date")
	if err := s.store.SetMealPlan(date, entry); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Snapshot().MealPlan(date))
}

// mealRequest is the body accepted by PUT /v1/meals/{date}/{slot}.
type mealRequest struct {
	Dish string `json:"dish"`
}

func (s *Server) handleSetMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !s.decode(w, r, &req) {
		return
	}
	date := r.PathValue("date")
	if err := s.store.SetMeal(date, models.MealSlot(r.PathValue("slot")), req.Dish); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Snapshot().MealPlan(date))
}

// chatRequest is the body accepted by POST /v1/chat.
type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	reply, err := s.assistant.Send(r.Context(), req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, chat.ErrRequestInFlight):
		s.writeError(w, http.StatusConflict, "a chat request is already in progress")
	case err != nil:
		s.logger.Error("chat send failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "chat failed")
	default:
		s.writeJSON(w, http.StatusOK, reply)
	}
}

// chatHistoryResponse is returned by GET /v1/chat/history.
type chatHistoryResponse struct {
	Messages    []chat.Message `json:"messages"`
	Suggestions []string       `json:"suggestions"`
	Configured  bool           `json:"configured"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, chatHistoryResponse{
		Messages:    s.assistant.History(),
		Suggestions: s.assistant.Suggestions(),
		Configured:  s.assistant.Configured(),
	})
}

// --- helpers ---

// decode reads a JSON body into v, writing a 400 and returning false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeStoreError maps store errors onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
