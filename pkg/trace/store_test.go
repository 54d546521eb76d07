package trace

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// tallySequence tallies a small two-series run into the store.
func tallySequence(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for i, v := range []float64{1, 2, 3} {
		if err := s.Tally(ctx, "mu", i, v); err != nil {
			t.Fatalf("Tally(mu) error = %v", err)
		}
	}
	if err := s.Tally(ctx, "tau", 0, 0.5); err != nil {
		t.Fatalf("Tally(tau) error = %v", err)
	}
}

// verifyPlayback checks the two-series run reads back in tally order.
func verifyPlayback(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	vals, err := s.Series(ctx, "mu")
	if err != nil {
		t.Fatalf("Series(mu) error = %v", err)
	}
	want := []float64{1, 2, 3}
	if len(vals) != len(want) {
		t.Fatalf("Series(mu) = %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("Series(mu)[%d] = %v, want %v", i, vals[i], want[i])
		}
	}

	names, err := s.Names(ctx)
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if len(names) != 2 || names[0] != "mu" || names[1] != "tau" {
		t.Errorf("Names() = %v, want [mu tau]", names)
	}

	if _, err := s.Series(ctx, "missing"); !errors.Is(err, ErrUnknownSeries) {
		t.Errorf("Series(missing) error = %v, want ErrUnknownSeries", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	tallySequence(t, s)
	verifyPlayback(t, s)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Tally(context.Background(), "mu", 0, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Tally() after close error = %v, want ErrClosed", err)
	}
}

func TestNullStoreDiscards(t *testing.T) {
	s := NewNullStore()
	tallySequence(t, s)
	if _, err := s.Series(context.Background(), "mu"); !errors.Is(err, ErrUnknownSeries) {
		t.Errorf("Series() error = %v, want ErrUnknownSeries", err)
	}
	names, err := s.Names(context.Background())
	if err != nil || len(names) != 0 {
		t.Errorf("Names() = %v, %v, want empty", names, err)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	tallySequence(t, s)
	verifyPlayback(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	tallySequence(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error = %v", err)
	}
	defer reopened.Close()
	verifyPlayback(t, reopened)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "test")
	defer s.Close()

	tallySequence(t, s)
	verifyPlayback(t, s)
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	a := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "run-a")
	defer a.Close()
	b := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "run-b")
	defer b.Close()

	ctx := context.Background()
	if err := a.Tally(ctx, "mu", 0, 1); err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if _, err := b.Series(ctx, "mu"); !errors.Is(err, ErrUnknownSeries) {
		t.Errorf("Series() across prefixes error = %v, want ErrUnknownSeries", err)
	}
}

func TestSummarize(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i, v := range []float64{1, 2, 3, 4, 5} {
		if err := s.Tally(ctx, "mu", i, v); err != nil {
			t.Fatalf("Tally() error = %v", err)
		}
	}

	sum, err := Summarize(ctx, s, "mu")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if sum.N != 5 {
		t.Errorf("N = %d, want 5", sum.N)
	}
	if math.Abs(sum.Mean-3) > 1e-12 {
		t.Errorf("Mean = %v, want 3", sum.Mean)
	}
	if math.Abs(sum.Median-3) > 1e-12 {
		t.Errorf("Median = %v, want 3", sum.Median)
	}
	if sum.Min != 1 || sum.Max != 5 {
		t.Errorf("Min, Max = %v, %v, want 1, 5", sum.Min, sum.Max)
	}

	if _, err := Summarize(ctx, s, "missing"); !errors.Is(err, ErrUnknownSeries) {
		t.Errorf("Summarize(missing) error = %v, want ErrUnknownSeries", err)
	}
}

func TestSummarizeShortSeries(t *testing.T) {
	tests := []struct {
		name               string
		values             []float64
		wantQ025, wantQ975 float64
	}{
		{name: "single value", values: []float64{0.5}, wantQ025: 0.5, wantQ975: 0.5},
		{name: "two values", values: []float64{1, 2}, wantQ025: 1, wantQ975: 2},
		{name: "three values", values: []float64{3, 1, 2}, wantQ025: 1, wantQ975: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			ctx := context.Background()
			for i, v := range tt.values {
				if err := s.Tally(ctx, "mu", i, v); err != nil {
					t.Fatalf("Tally() error = %v", err)
				}
			}

			sum, err := Summarize(ctx, s, "mu")
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}
			if sum.N != len(tt.values) {
				t.Errorf("N = %d, want %d", sum.N, len(tt.values))
			}
			if sum.Q025 != tt.wantQ025 || sum.Q975 != tt.wantQ975 {
				t.Errorf("Q025, Q975 = %v, %v, want %v, %v",
					sum.Q025, sum.Q975, tt.wantQ025, tt.wantQ975)
			}
		})
	}
}

func TestSummarizeAll(t *testing.T) {
	s := NewMemoryStore()
	tallySequence(t, s)

	sums, err := SummarizeAll(context.Background(), s)
	if err != nil {
		t.Fatalf("SummarizeAll() error = %v", err)
	}
	if len(sums) != 2 || sums[0].Name != "mu" || sums[1].Name != "tau" {
		t.Fatalf("SummarizeAll() = %v, want mu then tau", sums)
	}
}
