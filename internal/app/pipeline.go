package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/source"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/normalize"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/roster"
	"github.com/albanecoiffe/JO2024-visualization/pkg/logger"
	"github.com/albanecoiffe/JO2024-visualization/pkg/metrics"
)

// Source labels used in logs and metrics.
const (
	sourceAthletes = "athletes"
	sourceMedals   = "medals"
	sourceTorch    = "torch"
)

// inputs holds the raw contents of the three source files.
type inputs struct {
	athletes []model.RawAthlete
	medals   []model.RawMedal
	torch    source.WaypointResult
}

// load reads the sources concurrently. The first failure cancels the rest.
func (s *Service) load(ctx context.Context, log logger.Logger) (inputs, error) {
	var in inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return timed(gctx, log, sourceAthletes, s.athletesPath, func(ctx context.Context) (int, error) {
			raws, err := source.LoadAthleteDocuments(ctx, s.athletesPath)
			in.athletes = raws
			return len(raws), err
		})
	})
	g.Go(func() error {
		return timed(gctx, log, sourceMedals, s.medalsPath, func(ctx context.Context) (int, error) {
			medals, err := source.LoadMedalTable(ctx, s.medalsPath)
			in.medals = medals
			return len(medals), err
		})
	})
	if s.torchPath != "" {
		g.Go(func() error {
			return timed(gctx, log, sourceTorch, s.torchPath, func(ctx context.Context) (int, error) {
				res, err := source.ReadWaypoints(ctx, s.torchPath)
				in.torch = res
				return len(res.Waypoints), err
			})
		})
	}

	if err := g.Wait(); err != nil {
		return inputs{}, err
	}
	return in, nil
}

func timed(ctx context.Context, log logger.Logger, name, path string, fn func(context.Context) (int, error)) error {
	start := time.Now()
	n, err := fn(ctx)
	elapsed := time.Since(start)
	metrics.RecordSourceLoad(name, float64(elapsed.Milliseconds()))
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	metrics.UpdateSourceRows(name, n)
	log.Debug(ctx, "source loaded",
		logger.String("source", name),
		logger.String("path", path),
		logger.Int("rows", n),
		logger.Duration("took", elapsed),
	)
	return nil
}

// build runs one full pipeline pass and returns an unpublished snapshot.
func (s *Service) build(ctx context.Context) (*repository.Snapshot, error) {
	log := s.log()
	in, err := s.load(ctx, log)
	if err != nil {
		return nil, err
	}

	athletes := normalize.NormalizeAll(in.athletes)
	rows, report := s.reconciler.Reconcile(athletes, in.medals)

	for _, k := range report.DuplicateKeys {
		log.Warn(ctx, "duplicate natural key fanned out", logger.String("key", k.String()))
	}
	for _, k := range report.UnmatchedOverrides {
		log.Warn(ctx, "override matched no roster row", logger.String("key", k.String()))
	}
	if in.torch.Dropped > 0 {
		log.Info(ctx, "torch rows without coordinates dropped", logger.Int("dropped", in.torch.Dropped))
	}

	views, err := s.deriver.DeriveAll(rows)
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}

	waypoints := in.torch.Waypoints
	if waypoints == nil {
		waypoints = []model.Waypoint{}
	}
	return &repository.Snapshot{
		Roster:    roster.New(views),
		Locations: normalize.Locations(in.athletes),
		Waypoints: waypoints,
		Report:    report,
		Sources: repository.SourceCounts{
			Athletes:         len(in.athletes),
			Medals:           len(in.medals),
			Waypoints:        len(waypoints),
			DroppedWaypoints: in.torch.Dropped,
		},
	}, nil
}

// recordRun exports the quality figures of a published snapshot.
func recordRun(snap *repository.Snapshot) {
	rep := snap.Report
	metrics.UpdateRosterRows(model.PresenceBoth.String(), rep.Matched)
	metrics.UpdateRosterRows(model.PresenceAthleteOnly.String(), rep.AthleteOnly)
	metrics.UpdateRosterRows(model.PresenceMedalOnly.String(), rep.MedalOnly)
	metrics.RecordOverrides(rep.OverridesApplied, len(rep.UnmatchedOverrides))
	metrics.RecordZeroFilled(rep.ZeroFilled)
	metrics.RecordDuplicateKeys(len(rep.DuplicateKeys))
	metrics.RecordWaypointsDropped(snap.Sources.DroppedWaypoints)
}
