// Package server exposes the orchestrator over a small JSON HTTP API:
// submit a query, list the integration catalogue, and a liveness check.
// The server owns no orchestration logic.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/switchboard/internal/catalog"
	"github.com/ShayCichocki/switchboard/pkg/models"
)

// QueryExecutor runs one orchestration pass. Satisfied by
// *orchestrator.Orchestrator.
type QueryExecutor interface {
	Execute(ctx context.Context, query string, selected []models.Integration, turns []models.ConversationTurn) (*models.QueryResult, error)
}

// Server is the HTTP front for the orchestrator.
type Server struct {
	orch       QueryExecutor
	catalogue  *catalog.Catalogue
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates the HTTP server listening on addr.
func New(orch QueryExecutor, catalogue *catalog.Catalogue, logger *slog.Logger, addr string) *Server {
	s := &Server{
		orch:      orch,
		catalogue: catalogue,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/integrations", s.handleIntegrations)
	mux.HandleFunc("/api/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving requests until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// turnPayload is the wire form of one conversation turn.
type turnPayload struct {
	Text             string   `json:"text"`
	IsUser           bool     `json:"is_user"`
	Timestamp        string   `json:"timestamp"`
	IntegrationsUsed []string `json:"integrations_used,omitempty"`
}

// queryRequest is the submit-query payload.
type queryRequest struct {
	Query                string        `json:"query"`
	SelectedIntegrations []string      `json:"selected_integrations,omitempty"`
	ConversationHistory  []turnPayload `json:"conversation_history,omitempty"`
}

// queryResponse is the submit-query result.
type queryResponse struct {
	Query                 string            `json:"query"`
	IntegrationsUsed      []string          `json:"integrations_used"`
	Responses             map[string]string `json:"responses"`
	Synthesis             string            `json:"synthesis"`
	SuggestedIntegrations []string          `json:"suggested_integrations"`
}

// integrationInfo is the public catalogue metadata.
type integrationInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqID := uuid.New().String()[:8]
	logger := s.logger.With("request_id", reqID)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	// Unknown integration strings are rejected before any dispatch.
	selected, err := models.ParseIntegrations(req.SelectedIntegrations)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	turns, err := parseTurns(req.ConversationHistory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("query received",
		"selected", req.SelectedIntegrations, "history_turns", len(turns))

	result, err := s.orch.Execute(r.Context(), req.Query, selected, turns)
	if err != nil {
		logger.Error("query execution failed", "error", err)
		http.Error(w, "query execution failed", http.StatusInternalServerError)
		return
	}

	responses := make(map[string]string, len(result.Responses))
	for id, text := range result.Responses {
		responses[string(id)] = text
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:                 result.Query,
		IntegrationsUsed:      models.Strings(result.Used),
		Responses:             responses,
		Synthesis:             result.Synthesis,
		SuggestedIntegrations: models.Strings(result.Suggested),
	})
}

func (s *Server) handleIntegrations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos := make([]integrationInfo, 0)
	for _, p := range s.catalogue.Profiles() {
		infos = append(infos, integrationInfo{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]integrationInfo{"integrations": infos})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// parseTurns converts wire turns, enforcing the closed integration set.
func parseTurns(payloads []turnPayload) ([]models.ConversationTurn, error) {
	turns := make([]models.ConversationTurn, 0, len(payloads))
	for _, p := range payloads {
		used, err := models.ParseIntegrations(p.IntegrationsUsed)
		if err != nil {
			return nil, err
		}
		var ts time.Time
		if p.Timestamp != "" {
			// Timestamps are informational; a malformed one stays zero.
			ts, _ = time.Parse(time.RFC3339, p.Timestamp)
		}
		turns = append(turns, models.ConversationTurn{
			Text:             p.Text,
			IsUser:           p.IsUser,
			Timestamp:        ts,
			IntegrationsUsed: used,
		})
	}
	return turns, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
