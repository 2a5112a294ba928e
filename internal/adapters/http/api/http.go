// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Snapshot returns the current roster snapshot, or an error wrapping
	// repository.ErrNoSnapshot before the first successful run.
	Snapshot(ctx context.Context) (*repository.Snapshot, error)

	// Reload re-runs the pipeline and publishes a new snapshot.
	Reload(ctx context.Context) (repository.RunSummary, error)
}

// Server wires HTTP routes for the roster API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	athletesHandler *AthletesHandler
	torchHandler    *TorchHandler
	reloadHandler   *ReloadHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// n and limit query parameters.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		athletesHandler: NewAthletesHandler(deps, maxLimit),
		torchHandler:    NewTorchHandler(deps),
		reloadHandler:   NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/athletes", MetricsMiddleware(s.athletesHandler.HandleList, "athletes"))
	mux.HandleFunc("/athletes/summary", MetricsMiddleware(s.athletesHandler.HandleSummary, "athletes_summary"))
	mux.HandleFunc("/athletes/top", MetricsMiddleware(s.athletesHandler.HandleTop, "athletes_top"))
	mux.HandleFunc("/athletes/bottom", MetricsMiddleware(s.athletesHandler.HandleBottom, "athletes_bottom"))
	mux.HandleFunc("/athletes/groups", MetricsMiddleware(s.athletesHandler.HandleGroups, "athletes_groups"))
	mux.HandleFunc("/athletes/ages", MetricsMiddleware(s.athletesHandler.HandleAges, "athletes_ages"))
	mux.HandleFunc("/athletes/map", MetricsMiddleware(s.athletesHandler.HandleMap, "athletes_map"))
	mux.HandleFunc("/torch", MetricsMiddleware(s.torchHandler.HandleRange, "torch"))
	mux.HandleFunc("/torch/latest", MetricsMiddleware(s.torchHandler.HandleLatest, "torch_latest"))
	mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowMethod rejects requests whose method is not m.
func allowMethod(w http.ResponseWriter, r *http.Request, m string) bool {
	if r.Method == m {
		return true
	}
	w.Header().Set("Allow", m)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	return false
}

// currentSnapshot loads the snapshot or writes the matching error response.
func currentSnapshot(w http.ResponseWriter, r *http.Request, deps Dependencies) (*repository.Snapshot, bool) {
	snap, err := deps.Snapshot(r.Context())
	switch {
	case err == nil:
		return snap, true
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
	return nil, false
}
