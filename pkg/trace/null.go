package trace

import "context"

// NullStore discards every tally. Useful for tuning runs where only the
// final state matters.
type NullStore struct{}

// NewNullStore creates a no-op store.
func NewNullStore() *NullStore { return &NullStore{} }

// Tally does nothing.
func (s *NullStore) Tally(ctx context.Context, series string, iteration int, value float64) error {
	return nil
}

// Series always returns ErrUnknownSeries; nothing is retained.
func (s *NullStore) Series(ctx context.Context, series string) ([]float64, error) {
	return nil, ErrUnknownSeries
}

// Names returns no names.
func (s *NullStore) Names(ctx context.Context) ([]string, error) { return nil, nil }

// Close does nothing.
func (s *NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
