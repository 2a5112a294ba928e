// Package torch filters torch relay waypoints.
package torch

import (
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// FilterByDateRange returns the waypoints whose calendar day falls within
// [start, end], both bounds inclusive. Waypoints without a timestamp never
// match. The input is not modified.
func FilterByDateRange(points []model.Waypoint, start, end time.Time) []model.Waypoint {
	from, to := model.DateOf(start), model.DateOf(end)
	out := make([]model.Waypoint, 0)
	if from.After(to) {
		return out
	}
	for _, p := range points {
		if !p.HasTimestamp() {
			continue
		}
		day := p.Date
		if day.IsZero() {
			day = model.DateOf(p.Timestamp)
		}
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Latest returns the waypoint with the most recent timestamp. On equal
// timestamps the later one in input order wins.
func Latest(points []model.Waypoint) (model.Waypoint, bool) {
	var (
		best  model.Waypoint
		found bool
	)
	for _, p := range points {
		if !p.HasTimestamp() {
			continue
		}
		if !found || !p.Timestamp.Before(best.Timestamp) {
			best, found = p, true
		}
	}
	return best, found
}
