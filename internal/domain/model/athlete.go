// Package model contains domain models passed between pipeline stages.
package model

import (
	"encoding/json"
	"fmt"
)

// AthleteType distinguishes Olympic from Paralympic athletes.
type AthleteType string

// Known athlete types.
const (
	Olympic    AthleteType = "olympic"
	Paralympic AthleteType = "paralympic"
)

// NaturalKey identifies an athlete across sources.
type NaturalKey struct {
	Slug      string `json:"slug"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// String renders the key as slug(firstname lastname).
func (k NaturalKey) String() string {
	return fmt.Sprintf("%s(%s %s)", k.Slug, k.Firstname, k.Lastname)
}

// GeoPoint is a coordinate pair from the document source. Either side may
// be absent.
type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// RawAthlete is one hit of the athlete document export, as decoded.
// OlympicGames, Disciplines, Geoloc and IsMedalist keep whatever shape the
// export carried.
type RawAthlete struct {
	NaturalKey
	Birthdate    string          `json:"birthdate"`
	Gender       string          `json:"gender"`
	Type         AthleteType     `json:"type"`
	OlympicGames any             `json:"olympicGames"`
	Disciplines  any             `json:"disciplines"`
	Geoloc       json.RawMessage `json:"_geoloc"`
	PictureURL   string          `json:"pictureUrl"`
	IsMedalist   any             `json:"isMedalist"`
}

// Athlete is a normalized athlete record: nested lists projected to
// scalars, geolocation and medalist flag removed.
type Athlete struct {
	NaturalKey
	Birthdate    string      `json:"birthdate"`
	Gender       string      `json:"gender"`
	Type         AthleteType `json:"type"`
	OlympicGames []int       `json:"olympic_games"`
	Disciplines  []string    `json:"disciplines"`
	PictureURL   string      `json:"picture_url"`
}

// AthleteLocation is a map point for an athlete with a known geolocation.
type AthleteLocation struct {
	NaturalKey
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Disciplines []string `json:"disciplines"`
}
