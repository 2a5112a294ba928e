package api

import (
	"net/http"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/roster"
)

const (
	defaultTopN       = 3
	defaultGroupLimit = 10
)

// AthletesHandler serves read-only roster views.
type AthletesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewAthletesHandler creates a new athletes handler.
func NewAthletesHandler(deps Dependencies, maxLimit int) *AthletesHandler {
	if maxLimit < 1 {
		maxLimit = 1
	}
	return &AthletesHandler{deps: deps, maxLimit: maxLimit}
}

type athletesResponse struct {
	Count    int                 `json:"count"`
	Athletes []model.AthleteView `json:"athletes"`
}

type summaryResponse struct {
	Total      int               `json:"total"`
	Olympic    int               `json:"olympic"`
	Paralympic int               `json:"paralympic"`
	Medalists  int               `json:"medalists"`
	Medals     model.MedalCounts `json:"medals"`
}

type rankedResponse struct {
	Metric   string              `json:"metric"`
	N        int                 `json:"n"`
	Athletes []model.AthleteView `json:"athletes"`
}

type groupsResponse struct {
	Metric string              `json:"metric,omitempty"`
	Agg    string              `json:"agg"`
	Key    string              `json:"key"`
	Groups []roster.GroupValue `json:"groups"`
}

type agesResponse struct {
	Bins []roster.Bin `json:"bins"`
}

type mapResponse struct {
	Count     int                     `json:"count"`
	Locations []model.AthleteLocation `json:"locations"`
}

// filtered loads the snapshot and applies ?type=.
func (h *AthletesHandler) filtered(w http.ResponseWriter, r *http.Request) (*roster.Roster, bool) {
	pred, err := typePredicate(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return nil, false
	}
	snap, ok := currentSnapshot(w, r, h.deps)
	if !ok {
		return nil, false
	}
	return snap.Roster.Filter(pred), true
}

// HandleList handles GET /athletes?type=.
func (h *AthletesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ros, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, athletesResponse{Count: ros.Len(), Athletes: ros.Rows()})
}

// HandleSummary handles GET /athletes/summary?type=.
func (h *AthletesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ros, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Total:      ros.Len(),
		Olympic:    ros.CountWhere(roster.ByType(model.Olympic)),
		Paralympic: ros.CountWhere(roster.ByType(model.Paralympic)),
		Medalists:  ros.CountWhere(roster.Medalists),
		Medals: model.MedalCounts{
			Gold:   int(ros.Sum(roster.Gold)),
			Silver: int(ros.Sum(roster.Silver)),
			Bronze: int(ros.Sum(roster.Bronze)),
			Total:  int(ros.Sum(roster.Total)),
		},
	})
}

// HandleTop handles GET /athletes/top?metric=&n=&type=.
func (h *AthletesHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	h.handleRanked(w, r, (*roster.Roster).TopNBy, roster.Total.Name)
}

// HandleBottom handles GET /athletes/bottom?metric=&n=&type=.
func (h *AthletesHandler) HandleBottom(w http.ResponseWriter, r *http.Request) {
	h.handleRanked(w, r, (*roster.Roster).BottomNBy, roster.Age.Name)
}

func (h *AthletesHandler) handleRanked(
	w http.ResponseWriter,
	r *http.Request,
	pick func(*roster.Roster, roster.Metric, int) []model.AthleteView,
	defaultMetric string,
) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	metric, err := metricParam(q, defaultMetric)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := intParam(q, "n", defaultTopN, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ros, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rankedResponse{Metric: metric.Name, N: n, Athletes: pick(ros, metric, n)})
}

// HandleGroups handles GET /athletes/groups?metric=&agg=&key=&type=&limit=.
// Groups are ranked by value, highest first.
func (h *AthletesHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	agg, err := aggParam(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	key, keyName, err := groupKeyParam(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var metric roster.Metric
	if agg != aggCount {
		if metric, err = metricParam(q, roster.Total.Name); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
	}
	limit, err := intParam(q, "limit", min(defaultGroupLimit, h.maxLimit), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ros, ok := h.filtered(w, r)
	if !ok {
		return
	}

	var groups []roster.GroupValue
	switch agg {
	case aggSum:
		groups = roster.Ranked(ros.GroupSum(key, metric))
	case aggMean:
		groups = roster.Ranked(ros.GroupMean(key, metric))
	case aggCount:
		groups = roster.Ranked(ros.GroupCount(key))
	}
	if len(groups) > limit {
		groups = groups[:limit]
	}
	writeJSON(w, http.StatusOK, groupsResponse{Metric: metric.Name, Agg: agg, Key: keyName, Groups: groups})
}

// HandleAges handles GET /athletes/ages?type=.
func (h *AthletesHandler) HandleAges(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	ros, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, agesResponse{Bins: ros.Distribution(roster.Age)})
}

// HandleMap handles GET /athletes/map.
func (h *AthletesHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	snap, ok := currentSnapshot(w, r, h.deps)
	if !ok {
		return
	}
	locations := snap.Locations
	if locations == nil {
		locations = []model.AthleteLocation{}
	}
	writeJSON(w, http.StatusOK, mapResponse{Count: len(locations), Locations: locations})
}
