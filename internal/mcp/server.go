// Package mcp implements the Model Context Protocol server for familyhub.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/saaj-family/familyhub/internal/chat"
	"github.com/saaj-family/familyhub/internal/classifier"
	"github.com/saaj-family/familyhub/internal/models"
	"github.com/saaj-family/familyhub/internal/query"
	"github.com/saaj-family/familyhub/internal/store"
	"github.com/saaj-family/familyhub/internal/views"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Server wraps an MCPServer with the family store and assistant.
type Server struct {
	mcp        *mcpserver.MCPServer
	st         *store.Store
	assistant  *chat.Assistant
	classifier classifier.Classifier
	logger     *slog.Logger
}

// NewServer creates a new MCP server. A nil assistant disables the ask tool's
// backend; calls then return a tool error.
func NewServer(st *store.Store, assistant *chat.Assistant, logger *slog.Logger) *Server {
	s := &Server{
		st:         st,
		assistant:  assistant,
		classifier: classifier.NewClassifier(logger),
		logger:     logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"familyhub",
		Version,
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildListMemoriesTool(), s.handleListMemories)
	mcpSrv.AddTool(buildAddMemoryTool(), s.handleAddMemory)
	mcpSrv.AddTool(buildDeleteMemoryTool(), s.handleDeleteMemory)
	mcpSrv.AddTool(buildSuggestCategoryTool(), s.handleSuggestCategory)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)
	mcpSrv.AddTool(buildCalendarTool(), s.handleCalendar)
	mcpSrv.AddTool(buildAskTool(), s.handleAsk)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleListMemories is the exported handler for the "list_memories" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleListMemories(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleListMemories(ctx, req)
}

// HandleAddMemory is the exported handler for the "add_memory" tool.
func (s *Server) HandleAddMemory(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAddMemory(ctx, req)
}

// HandleDeleteMemory is the exported handler for the "delete_memory" tool.
func (s *Server) HandleDeleteMemory(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleDeleteMemory(ctx, req)
}

// HandleSuggestCategory is the exported handler for the "suggest_category" tool.
func (s *Server) HandleSuggestCategory(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSuggestCategory(ctx, req)
}

// HandleStats is the exported handler for the "stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// HandleCalendar is the exported handler for the "calendar" tool.
func (s *Server) HandleCalendar(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleCalendar(ctx, req)
}

// HandleAsk is the exported handler for the "ask" tool.
func (s *Server) HandleAsk(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAsk(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// splitTags parses a comma-separated tag list.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// --- tool definitions ---

func buildListMemoriesTool() mcpgo.Tool {
	return mcpgo.NewTool("list_memories",
		mcpgo.WithDescription("List family memories, newest first, optionally filtered by category, year, and text."),
		mcpgo.WithString("category",
			mcpgo.Description("Exact category: celebration, milestone, funny, heartwarming, tradition, travel, other (default: all)"),
		),
		mcpgo.WithString("year",
			mcpgo.Description("Four-digit year (default: all)"),
		),
		mcpgo.WithString("query",
			mcpgo.Description("Case-insensitive text matched against title, location, author, and tags"),
		),
	)
}

func buildAddMemoryTool() mcpgo.Tool {
	return mcpgo.NewTool("add_memory",
		mcpgo.WithDescription("Record a new family memory. The id and year are assigned automatically."),
		mcpgo.WithString("title",
			mcpgo.Required(),
			mcpgo.Description("Short title of the memory"),
		),
		mcpgo.WithString("date",
			mcpgo.Required(),
			mcpgo.Description("When it happened, e.g. 2024-03-01 or March 1, 2024"),
		),
		mcpgo.WithString("story",
			mcpgo.Description("The story itself"),
		),
		mcpgo.WithString("category",
			mcpgo.Description("celebration, milestone, funny, heartwarming, tradition, or travel (default: other)"),
		),
		mcpgo.WithString("location",
			mcpgo.Description("Where it happened"),
		),
		mcpgo.WithString("author",
			mcpgo.Description("Family member sharing the memory"),
		),
		mcpgo.WithString("tags",
			mcpgo.Description("Comma-separated tags"),
		),
		mcpgo.WithNumber("lat",
			mcpgo.Description("Latitude; set together with lng to place the memory on the map"),
		),
		mcpgo.WithNumber("lng",
			mcpgo.Description("Longitude"),
		),
	)
}

func buildDeleteMemoryTool() mcpgo.Tool {
	return mcpgo.NewTool("delete_memory",
		mcpgo.WithDescription("Delete a memory by ID. Deleting an unknown ID is a no-op."),
		mcpgo.WithString("id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the memory to delete"),
		),
	)
}

func buildSuggestCategoryTool() mcpgo.Tool {
	return mcpgo.NewTool("suggest_category",
		mcpgo.WithDescription("Suggest a category for a memory before adding it. Nothing is stored."),
		mcpgo.WithString("title",
			mcpgo.Required(),
			mcpgo.Description("Title of the memory"),
		),
		mcpgo.WithString("story",
			mcpgo.Description("The story"),
		),
		mcpgo.WithString("tags",
			mcpgo.Description("Comma-separated tags"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("stats",
		mcpgo.WithDescription("Memory statistics: totals by category, author, and year."),
	)
}

func buildCalendarTool() mcpgo.Tool {
	return mcpgo.NewTool("calendar",
		mcpgo.WithDescription("Events and meal plans for one month."),
		mcpgo.WithNumber("year",
			mcpgo.Required(),
			mcpgo.Description("Four-digit year"),
		),
		mcpgo.WithNumber("month",
			mcpgo.Required(),
			mcpgo.Description("Month number 1-12"),
		),
	)
}

func buildAskTool() mcpgo.Tool {
	return mcpgo.NewTool("ask",
		mcpgo.WithDescription("Ask the family memory assistant a question."),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The question"),
		),
	)
}

// --- tool handlers ---

// handleListMemories returns the filtered timeline.
func (s *Server) handleListMemories(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	list := views.Timeline(s.st.Snapshot().Memories, views.Filter{
		Category: req.GetString("category", ""),
		Year:     req.GetString("year", ""),
		Text:     req.GetString("query", ""),
	})
	return toolResultJSON(map[string]any{
		"memories": list,
		"count":    len(list),
	})
}

// handleAddMemory validates input and appends a memory to the store.
func (s *Server) handleAddMemory(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcpgo.NewToolResultError("title is required and must not be empty"), nil
	}

	in := models.Memory{
		Title:    title,
		Date:     req.GetString("date", ""),
		Story:    req.GetString("story", ""),
		Category: models.Category(req.GetString("category", "")),
		Location: req.GetString("location", ""),
		Author:   req.GetString("author", ""),
		Tags:     splitTags(req.GetString("tags", "")),
	}

	args := req.GetArguments()
	_, hasLat := args["lat"]
	_, hasLng := args["lng"]
	if hasLat != hasLng {
		return mcpgo.NewToolResultError("lat and lng must be given together"), nil
	}
	if hasLat {
		lat, lng := req.GetFloat("lat", 0), req.GetFloat("lng", 0)
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return mcpgo.NewToolResultErrorf("coordinates out of range: %v, %v", lat, lng), nil
		}
		in.Coordinates = &models.Coordinates{Lat: lat, Lng: lng}
	}

	mem, err := s.st.AddMemory(in)
	if err != nil {
		return mcpgo.NewToolResultErrorf("add failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: add_memory stored memory", "id", mem.ID, "year", mem.Year)
	return toolResultJSON(mem)
}

// handleDeleteMemory removes a memory by ID.
func (s *Server) handleDeleteMemory(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcpgo.NewToolResultError("id is required and must not be empty"), nil
	}

	deleted := s.st.DeleteMemory(id)

	s.logger.Info("mcp: delete_memory", "id", id, "deleted", deleted)
	return toolResultJSON(map[string]any{
		"deleted": deleted,
	})
}

// handleSuggestCategory runs the keyword classifier over a draft memory.
func (s *Server) handleSuggestCategory(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	title := req.GetString("title", "")
	story := req.GetString("story", "")
	if strings.TrimSpace(title+story) == "" {
		return mcpgo.NewToolResultError("title or story is required"), nil
	}
	return toolResultJSON(s.classifier.Classify(title, story, splitTags(req.GetString("tags", ""))))
}

// handleStats returns memory statistics.
func (s *Server) handleStats(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return toolResultJSON(query.Summarize(s.st.Snapshot().Memories))
}

// handleCalendar returns one month grid.
func (s *Server) handleCalendar(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	m, err := views.CalendarMonth(s.st.Snapshot(), req.GetInt("year", 0), req.GetInt("month", 0))
	if err != nil {
		return mcpgo.NewToolResultErrorf("calendar failed: %s", err.Error()), nil
	}
	return toolResultJSON(m)
}

// handleAsk forwards a question to the assistant. Backend failures still
// produce a normal result carrying the fallback reply.
func (s *Server) handleAsk(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.assistant == nil {
		return mcpgo.NewToolResultError("assistant is unavailable"), nil
	}
	reply, err := s.assistant.Send(ctx, req.GetString("message", ""))
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return mcpgo.NewToolResultError("message is required and must not be empty"), nil
	case err != nil:
		return mcpgo.NewToolResultErrorf("ask failed: %s", err.Error()), nil
	}
	return toolResultJSON(reply)
}
