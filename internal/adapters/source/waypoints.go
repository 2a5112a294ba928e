package source

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Torch file columns, after header normalization and alias resolution.
const (
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colStart     = "start_datetime"
)

var timestampLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// WaypointResult is the outcome of reading the torch file.
type WaypointResult struct {
	Waypoints []model.Waypoint
	// Dropped counts rows skipped for blank or non-numeric coordinates.
	Dropped int
	// Untimed counts kept rows whose timestamp was absent or unreadable.
	Untimed int
}

// LoadWaypoints reads the torch relay file, dropping rows without usable
// coordinates.
func LoadWaypoints(ctx context.Context, path string) ([]model.Waypoint, error) {
	res, err := ReadWaypoints(ctx, path)
	if err != nil {
		return nil, err
	}
	return res.Waypoints, nil
}

// ReadWaypoints is LoadWaypoints with drop counts.
func ReadWaypoints(ctx context.Context, path string) (WaypointResult, error) {
	t, err := readTable(ctx, path)
	if err != nil {
		return WaypointResult{}, err
	}
	if err := t.require(colLatitude, colLongitude); err != nil {
		return WaypointResult{}, err
	}
	timed := t.has(colStart)

	res := WaypointResult{Waypoints: make([]model.Waypoint, 0, len(t.rows))}
	for i, row := range t.rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return WaypointResult{}, err
			}
		}
		lat, errLat := strconv.ParseFloat(t.cell(row, colLatitude), 64)
		lng, errLng := strconv.ParseFloat(t.cell(row, colLongitude), 64)
		if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsNaN(lng) {
			res.Dropped++
			continue
		}
		w := model.Waypoint{Latitude: lat, Longitude: lng}
		if timed {
			if ts, ok := ParseTimestamp(t.cell(row, colStart)); ok {
				w.Timestamp = ts
				w.Date = model.DateOf(ts)
			}
		}
		if !w.HasTimestamp() {
			res.Untimed++
		}
		res.Waypoints = append(res.Waypoints, w)
	}
	return res, nil
}

// ParseTimestamp reads a textual timestamp or an Excel date serial.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
