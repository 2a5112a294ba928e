package api

import (
	"net/http"

	"github.com/albanecoiffe/JO2024-visualization/pkg/logger"
)

// ReloadHandler re-runs the pipeline on demand.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /reload. A failed run leaves the previous
// snapshot in place and answers 500.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	summary, err := h.deps.Reload(r.Context())
	if err != nil {
		logger.Get().Warn(r.Context(), "reload request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "reload_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
