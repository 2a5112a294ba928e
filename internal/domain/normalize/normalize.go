// Package normalize projects raw athlete documents into flat athlete records.
//
// Nested fields are handled leniently: the export is known to be
// inconsistent, so anything that is not a list of objects simply yields an
// empty sequence instead of an error.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Field names inside the nested list items.
const (
	gameYearField       = "year"
	disciplineSlugField = "slug"
)

// Normalize flattens one raw athlete.
func Normalize(raw model.RawAthlete) model.Athlete {
	return model.Athlete{
		NaturalKey:   raw.NaturalKey,
		Birthdate:    raw.Birthdate,
		Gender:       raw.Gender,
		Type:         raw.Type,
		OlympicGames: GameYears(raw.OlympicGames),
		Disciplines:  DisciplineSlugs(raw.Disciplines),
		PictureURL:   raw.PictureURL,
	}
}

// NormalizeAll flattens a sequence of raw athletes, preserving order.
func NormalizeAll(raws []model.RawAthlete) []model.Athlete {
	out := make([]model.Athlete, len(raws))
	for i, r := range raws {
		out[i] = Normalize(r)
	}
	return out
}

// GameYears extracts the participation years from an olympicGames value.
// Items without a usable year are skipped. Never returns nil.
func GameYears(v any) []int {
	items, _ := v.([]any)
	years := make([]int, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if y, ok := toYear(obj[gameYearField]); ok {
			years = append(years, y)
		}
	}
	return years
}

// DisciplineSlugs extracts the discipline slugs from a disciplines value.
// Items without a string slug are skipped. Never returns nil.
func DisciplineSlugs(v any) []string {
	items, _ := v.([]any)
	slugs := make([]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s, ok := obj[disciplineSlugField].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		slugs = append(slugs, s)
	}
	return slugs
}

// Locations returns map points for athletes that carry both coordinates.
// _geoloc may be a single object or a list of them; the first complete
// point wins and any other shape is skipped.
func Locations(raws []model.RawAthlete) []model.AthleteLocation {
	out := make([]model.AthleteLocation, 0, len(raws))
	for _, r := range raws {
		lat, lng, ok := GeoPoint(r.Geoloc)
		if !ok {
			continue
		}
		out = append(out, model.AthleteLocation{
			NaturalKey:  r.NaturalKey,
			Lat:         lat,
			Lng:         lng,
			Disciplines: DisciplineSlugs(r.Disciplines),
		})
	}
	return out
}

// GeoPoint extracts coordinates from a raw _geoloc value.
func GeoPoint(raw json.RawMessage) (lat, lng float64, ok bool) {
	var one model.GeoPoint
	if err := json.Unmarshal(raw, &one); err == nil {
		return completePoint(one)
	}
	var many []model.GeoPoint
	if err := json.Unmarshal(raw, &many); err != nil {
		return 0, 0, false
	}
	for _, p := range many {
		if lat, lng, ok := completePoint(p); ok {
			return lat, lng, true
		}
	}
	return 0, 0, false
}

func completePoint(p model.GeoPoint) (lat, lng float64, ok bool) {
	if p.Lat == nil || p.Lng == nil {
		return 0, 0, false
	}
	return *p.Lat, *p.Lng, true
}

func toYear(v any) (int, bool) {
	switch y := v.(type) {
	case float64:
		if y != math.Trunc(y) {
			return 0, false
		}
		return int(y), true
	case json.Number:
		n, err := y.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
