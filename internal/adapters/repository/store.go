// Package repository holds the published roster snapshots.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/roster"
)

// SourceCounts records how many rows each input contributed to a run.
type SourceCounts struct {
	Athletes         int `json:"athletes"`
	Medals           int `json:"medals"`
	Waypoints        int `json:"waypoints"`
	DroppedWaypoints int `json:"dropped_waypoints"`
}

// Snapshot is the immutable result of one pipeline run.
type Snapshot struct {
	RunID     uuid.UUID
	BuiltAt   time.Time
	Roster    *roster.Roster
	Locations []model.AthleteLocation
	Waypoints []model.Waypoint
	Report    reconcile.Report
	Sources   SourceCounts
}

// RunSummary describes a published snapshot without its data.
type RunSummary struct {
	RunID   uuid.UUID        `json:"run_id"`
	BuiltAt time.Time        `json:"built_at"`
	Rows    int              `json:"rows"`
	Sources SourceCounts     `json:"sources"`
	Report  reconcile.Report `json:"report"`
}

// Summary returns the run summary of s.
func (s *Snapshot) Summary() RunSummary {
	rows := 0
	if s.Roster != nil {
		rows = s.Roster.Len()
	}
	return RunSummary{
		RunID:   s.RunID,
		BuiltAt: s.BuiltAt,
		Rows:    rows,
		Sources: s.Sources,
		Report:  s.Report,
	}
}

// Store provides access to the current snapshot.
type Store interface {
	// Publish makes snap the current snapshot. A zero RunID or BuiltAt is
	// filled in before publication.
	Publish(ctx context.Context, snap *Snapshot) error

	// Current returns the latest published snapshot.
	// Returns ErrNoSnapshot before the first Publish.
	Current(ctx context.Context) (*Snapshot, error)

	// History returns summaries of recent publications, newest first.
	History(ctx context.Context) []RunSummary
}
