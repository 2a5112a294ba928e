package api

import (
	"net/http"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/torch"
)

// TorchHandler serves torch relay waypoints.
type TorchHandler struct {
	deps Dependencies
}

// NewTorchHandler creates a new torch handler.
func NewTorchHandler(deps Dependencies) *TorchHandler {
	return &TorchHandler{deps: deps}
}

type waypointsResponse struct {
	Count     int              `json:"count"`
	Waypoints []model.Waypoint `json:"waypoints"`
}

// HandleRange handles GET /torch?start=YYYY-MM-DD&end=YYYY-MM-DD. Without
// bounds every waypoint is returned; with bounds both are required.
func (h *TorchHandler) HandleRange(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	start, hasStart, err := dateParam(q, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	end, hasEnd, err := dateParam(q, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if hasStart != hasEnd {
		writeError(w, http.StatusBadRequest, "bad_request", badParam("start/end", "both bounds are required"))
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps)
	if !ok {
		return
	}

	points := snap.Waypoints
	if hasStart {
		points = torch.FilterByDateRange(points, start, end)
	}
	if points == nil {
		points = []model.Waypoint{}
	}
	writeJSON(w, http.StatusOK, waypointsResponse{Count: len(points), Waypoints: points})
}

// HandleLatest handles GET /torch/latest.
func (h *TorchHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps)
	if !ok {
		return
	}
	p, found := torch.Latest(snap.Waypoints)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
