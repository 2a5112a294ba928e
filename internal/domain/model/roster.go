package model

import "fmt"

// RawMedal is one row of the medal spreadsheet. Nil counts are blank cells.
type RawMedal struct {
	NaturalKey
	Gold   *int
	Silver *int
	Bronze *int
	Total  *int
}

// MedalCounts holds the medal tally of the current games.
type MedalCounts struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
	Total  int `json:"total"`
}

// Presence records which sources contributed to a roster row.
type Presence int

// Presence values.
const (
	PresenceBoth Presence = iota
	PresenceAthleteOnly
	PresenceMedalOnly
)

// String returns the wire name of the presence.
func (p Presence) String() string {
	switch p {
	case PresenceBoth:
		return "both"
	case PresenceAthleteOnly:
		return "athlete_only"
	case PresenceMedalOnly:
		return "medal_only"
	default:
		return fmt.Sprintf("presence(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Presence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// RosterRow is the outer join of an Athlete and a RawMedal on NaturalKey.
// Medal counts are always filled.
type RosterRow struct {
	Athlete
	Medals   MedalCounts `json:"medals"`
	Presence Presence    `json:"present_in"`
}

// AthleteView is a RosterRow with derived display fields.
type AthleteView struct {
	RosterRow
	Age               int    `json:"age"`
	DisciplinesJoined string `json:"disciplines_joined"`
}
