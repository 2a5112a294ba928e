// Package service runs the roster pipeline and serves its snapshots to the
// HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/derive"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
	"github.com/albanecoiffe/JO2024-visualization/pkg/logger"
	"github.com/albanecoiffe/JO2024-visualization/pkg/metrics"
)

// Service owns the pipeline components and the snapshot store.
type Service struct {
	runMu sync.Mutex // serialises pipeline runs
	mu    sync.RWMutex

	// Configuration
	athletesPath       string
	medalsPath         string
	torchPath          string
	referenceYear      int
	overrides          []reconcile.Override
	noDefaultOverrides bool
	reloadInterval     time.Duration

	// Components
	store      repository.Store
	reconciler *reconcile.Reconciler
	deriver    *derive.Deriver

	// State
	started   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	runs      int
	failures  int
	lastErr   error
	lastRunAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		athletesPath:  "athlete_fr_2024.json",
		medalsPath:    "medailles2024.xlsx",
		torchPath:     "games_map_torch_position.xlsx",
		referenceYear: derive.DefaultReferenceYear,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}
	ropts := []reconcile.Option{reconcile.WithOverrides(s.overrides...)}
	if s.noDefaultOverrides {
		ropts = append([]reconcile.Option{reconcile.WithoutDefaultOverrides()}, ropts...)
	}
	s.reconciler = reconcile.New(ropts...)
	s.deriver = derive.New(derive.WithReferenceYear(s.referenceYear))

	return s
}

// Start runs the pipeline once and, when a reload interval is set, keeps
// re-running it in the background until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "starting roster service...",
		logger.String("athletes", s.athletesPath),
		logger.String("medals", s.medalsPath),
		logger.String("torch", s.torchPath),
		logger.Int("referenceYear", s.referenceYear),
	)

	if _, err := s.Reload(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.stopCh = make(chan struct{})
	if s.reloadInterval > 0 {
		s.wg.Add(1)
		go s.reloadLoop(context.WithoutCancel(ctx), s.stopCh)
	}
	s.logger.Info(ctx, "roster service started", logger.Duration("reloadInterval", s.reloadInterval))
	return nil
}

func (s *Service) reloadLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Warn(ctx, "scheduled reload failed; keeping previous snapshot", logger.Error(err))
			}
		}
	}
}

// Stop halts the background reload loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "roster service stopped")
}

// Reload runs the pipeline and publishes the result. On failure the
// previously published snapshot stays current.
func (s *Service) Reload(ctx context.Context) (repository.RunSummary, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	log := s.log()
	start := time.Now()
	snap, err := s.build(ctx)
	if err == nil {
		err = s.store.Publish(ctx, snap)
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	s.runs++
	s.lastRunAt = start
	s.lastErr = err
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordPipelineRun("failure", float64(elapsed.Milliseconds()))
		metrics.RecordErrorByComponent("pipeline", errorKind(err))
		log.Error(ctx, "pipeline run failed", logger.Error(err), logger.Duration("took", elapsed))
		return repository.RunSummary{}, fmt.Errorf("%w: %w", ErrPipelineFailed, err)
	}

	metrics.RecordPipelineRun("success", float64(elapsed.Milliseconds()))
	recordRun(snap)
	log.Info(ctx, "snapshot published",
		logger.String("runID", snap.RunID.String()),
		logger.Int("rows", snap.Roster.Len()),
		logger.Int("matched", snap.Report.Matched),
		logger.Int("athleteOnly", snap.Report.AthleteOnly),
		logger.Int("medalOnly", snap.Report.MedalOnly),
		logger.Int("overridesApplied", snap.Report.OverridesApplied),
		logger.Int("waypoints", snap.Sources.Waypoints),
		logger.Duration("took", elapsed),
	)
	return snap.Summary(), nil
}

// Snapshot returns the current snapshot, or ErrNoSnapshot before the first
// successful run.
func (s *Service) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	return s.store.Current(ctx)
}

// History returns summaries of recent snapshots, newest first.
func (s *Service) History(ctx context.Context) []repository.RunSummary {
	return s.store.History(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":        s.started,
		"runs":           s.runs,
		"failures":       s.failures,
		"referenceYear":  s.referenceYear,
		"reloadInterval": s.reloadInterval.String(),
	}
	if !s.lastRunAt.IsZero() {
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	s.mu.RUnlock()

	snap, err := s.store.Current(context.Background())
	switch {
	case err == nil:
		stats["snapshot"] = snap.Summary()
	case errors.Is(err, ErrNoSnapshot):
		stats["snapshot"] = nil
	}
	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		l = logger.Get()
	}
	return l
}
