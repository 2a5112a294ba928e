package model

import "time"

// Waypoint is one GPS fix of the torch relay.
type Waypoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"` // zero when the source had none
	Date      time.Time `json:"date"`      // calendar day of Timestamp, midnight UTC
}

// HasTimestamp reports whether the fix carried a usable timestamp.
func (w Waypoint) HasTimestamp() bool {
	return !w.Timestamp.IsZero()
}

// DateOf truncates t to its calendar day, expressed at midnight UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
