package trace

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes a tallied series.
type Summary struct {
	Name   string
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	// Q025 and Q975 bound the central 95% interval.
	Q025 float64
	Q975 float64
}

// Summarize computes summary statistics for the named series.
func Summarize(ctx context.Context, store Store, series string) (Summary, error) {
	vals, err := store.Series(ctx, series)
	if err != nil {
		return Summary{}, err
	}

	data := stats.Float64Data(vals)
	s := Summary{Name: series, N: len(vals)}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	// Nearest-rank quantiles: the interpolated Percentile refuses tail
	// ranks on short series, and summaries must work for any trace length.
	if s.Q025, err = data.PercentileNearestRank(2.5); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	if s.Q975, err = data.PercentileNearestRank(97.5); err != nil {
		return Summary{}, fmt.Errorf("summarize %q: %w", series, err)
	}
	return s, nil
}

// SummarizeAll summarizes every tallied series in name order.
func SummarizeAll(ctx context.Context, store Store) ([]Summary, error) {
	names, err := store.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		s, err := Summarize(ctx, store, name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
