package trace

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/probkit/probkit/pkg/observability"
)

// MemoryStore keeps every series in process memory. This is the default
// backend for interactive runs.
type MemoryStore struct {
	mu     sync.Mutex
	series map[string][]float64
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{series: make(map[string][]float64)}
}

// Tally appends a value to the named series.
func (s *MemoryStore) Tally(ctx context.Context, series string, iteration int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		observability.Store().OnStoreError(ctx, "memory", ErrClosed)
		return ErrClosed
	}
	s.series[series] = append(s.series[series], value)
	observability.Store().OnTally(ctx, "memory", series)
	return nil
}

// Series returns a copy of the named series in tally order.
func (s *MemoryStore) Series(ctx context.Context, series string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	vals, ok := s.series[series]
	if !ok {
		return nil, ErrUnknownSeries
	}
	observability.Store().OnPlayback(ctx, "memory", series, len(vals))
	return slices.Clone(vals), nil
}

// Names returns the tallied series names in ascending order.
func (s *MemoryStore) Names(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return slices.Sorted(maps.Keys(s.series)), nil
}

// Close marks the store closed and drops the recorded series.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.series = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
