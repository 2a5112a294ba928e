package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/albanecoiffe/JO2024-visualization/pkg/metrics"
)

const defaultHistorySize = 16

var _ Store = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory Store. Readers load the current snapshot
// with a single atomic read and never block publishers.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]

	mu          sync.Mutex
	history     []RunSummary // newest last
	historySize int
}

// NewSnapshotStore constructs a snapshot store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{historySize: defaultHistorySize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "nil_snapshot")
		return ErrNilSnapshot
	}
	if snap.RunID == uuid.Nil {
		snap.RunID = uuid.New()
	}
	if snap.BuiltAt.IsZero() {
		snap.BuiltAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.current.Store(snap)
	s.history = append(s.history, snap.Summary())
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
	s.mu.Unlock()

	metrics.RecordSnapshotPublished(snap.BuiltAt)
	return nil
}

// Current implements Store.Current.
func (s *SnapshotStore) Current(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// History implements Store.History.
func (s *SnapshotStore) History(ctx context.Context) []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RunSummary, len(s.history))
	copy(out, s.history)
	slices.Reverse(out)
	return out
}
