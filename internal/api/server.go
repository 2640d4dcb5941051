package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"factflow/internal/config"
	"factflow/internal/logging"
	"factflow/internal/models"
	"factflow/internal/storage"
	"factflow/internal/workflows"
)

// InvestigationStore is the read side of the investigations table.
type InvestigationStore interface {
	Get(ctx context.Context, runID string) (models.Investigation, error)
	List(ctx context.Context, limit int) ([]models.Investigation, error)
}

type Server struct {
	cfg   config.Config
	flows Orchestrator
	store InvestigationStore
	log   *slog.Logger
}

// NewServer builds the HTTP surface. store may be nil when no database is
// configured; status is then read from the running workflow.
func NewServer(cfg config.Config, flows Orchestrator, store InvestigationStore) *Server {
	return &Server{cfg: cfg, flows: flows, store: store, log: logging.New("api")}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/investigations", func(r chi.Router) {
		r.Post("/", s.handleStartInvestigation)
		r.Get("/", s.handleListInvestigations)
		r.Get("/{runID}", s.handleGetInvestigation)
	})
	r.Route("/batches", func(r chi.Router) {
		r.Post("/", s.handleStartBatch)
		r.Get("/{batchID}", s.handleGetBatch)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStartInvestigation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Claim             string `json:"claim"`
		RetryAttempts     int    `json:"retry_attempts"`
		RetryDelaySeconds int    `json:"retry_delay_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Claim = strings.TrimSpace(req.Claim)
	if req.Claim == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("claim is required"))
		return
	}
	in := workflows.InvestigationInput{
		RunID:             uuid.NewString(),
		Claim:             req.Claim,
		RetryAttempts:     s.orDefault(req.RetryAttempts, s.cfg.RetryAttempts),
		RetryDelaySeconds: s.orDefault(req.RetryDelaySeconds, s.cfg.RetryDelaySecs),
	}
	if err := s.flows.StartInvestigation(r.Context(), in); err != nil {
		s.log.Error("start investigation failed", "run_id", in.RunID, "err", err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("investigation started", "run_id", in.RunID)
	writeJSON(w, http.StatusAccepted, map[string]any{"run_id": in.RunID, "claim": in.Claim})
}

func (s *Server) handleListInvestigations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("investigation storage disabled"))
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}
	items, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"investigations": items})
}

func (s *Server) handleGetInvestigation(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if s.store != nil {
		inv, err := s.store.Get(r.Context(), runID)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, inv)
			return
		case !errors.Is(err, storage.ErrNotFound):
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}
	st, err := s.flows.InvestigationStatus(r.Context(), runID)
	if err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("investigation %s: %w", runID, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStartBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Claims                []string `json:"claims"`
		MaxConcurrentChildren int      `json:"max_concurrent_children"`
		RetryAttempts         int      `json:"retry_attempts"`
		RetryDelaySeconds     int      `json:"retry_delay_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	claims := make([]string, 0, len(req.Claims))
	for _, c := range req.Claims {
		if c = strings.TrimSpace(c); c != "" {
			claims = append(claims, c)
		}
	}
	if len(claims) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("claims are required"))
		return
	}
	in := workflows.BatchInput{
		BatchID:               "batch-" + uuid.NewString(),
		Claims:                claims,
		MaxConcurrentChildren: s.orDefault(req.MaxConcurrentChildren, s.cfg.BatchMaxChildren),
		RetryAttempts:         s.orDefault(req.RetryAttempts, s.cfg.RetryAttempts),
		RetryDelaySeconds:     s.orDefault(req.RetryDelaySeconds, s.cfg.RetryDelaySecs),
	}
	if err := s.flows.StartBatch(r.Context(), in); err != nil {
		s.log.Error("start batch failed", "batch_id", in.BatchID, "err", err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"batch_id": in.BatchID, "total": len(claims)})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	p, err := s.flows.BatchProgress(r.Context(), batchID)
	if err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("batch %s: %w", batchID, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "FF-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status == http.StatusServiceUnavailable:
		code = "FF-API-5030"
		msg = "Investigation storage is not configured on this server."
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "FF-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "FF-DB-5002",
				Message: "A backing service is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "FF-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "FF-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "FF-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusMethodNotAllowed:
		code = "FF-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "claim is required"):
			msg = "A claim to investigate is required."
		case strings.Contains(raw, "claims are required"):
			msg = "At least one non-empty claim is required."
		case strings.Contains(raw, "limit must be"):
			msg = "Limit must be a positive integer."
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
