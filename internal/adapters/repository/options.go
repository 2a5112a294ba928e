package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithHistorySize sets how many run summaries are retained.
func WithHistorySize(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.historySize = n
		}
	}
}
