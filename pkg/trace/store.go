// Package trace records sampled values per variable across iterations and
// plays them back as series. Several backends are provided: in-memory for
// normal runs, a no-op store for tuning runs, an append-only JSONL file, and
// Redis or MongoDB for runs whose history must outlive the process.
package trace

import (
	"context"
	"errors"
)

var (
	// ErrUnknownSeries is returned when a requested series has never been
	// tallied.
	ErrUnknownSeries = errors.New("unknown trace series")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("trace store closed")
)

// Store records sampled values and plays them back.
//
// Implementations must keep each series in tally order, so Series returns
// values in ascending iteration order.
type Store interface {
	// Tally appends a sampled value to the named series.
	Tally(ctx context.Context, series string, iteration int, value float64) error
	// Series returns all tallied values of the named series in iteration
	// order. Returns ErrUnknownSeries if nothing was ever tallied under the
	// name.
	Series(ctx context.Context, series string) ([]float64, error)
	// Names returns the tallied series names in ascending order.
	Names(ctx context.Context) ([]string, error)
	// Close releases backend resources. The store is unusable afterwards.
	Close() error
}
