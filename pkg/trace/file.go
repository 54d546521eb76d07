package trace

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/probkit/probkit/pkg/observability"
)

// FileStore appends each tally as one JSON line to a file, so a crashed run
// keeps everything recorded up to the crash. Series reads replay the whole
// file; playback is expected to happen after sampling, not during.
type FileStore struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	w      *bufio.Writer
	closed bool
}

// fileRecord is the JSONL row format.
type fileRecord struct {
	Series    string  `json:"series"`
	Iteration int     `json:"iteration"`
	Value     float64 `json:"value"`
}

// NewFileStore opens (or creates) a JSONL trace file for appending.
func NewFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileStore{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Tally appends one JSON line to the file.
func (s *FileStore) Tally(ctx context.Context, series string, iteration int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	line, err := json.Marshal(fileRecord{Series: series, Iteration: iteration, Value: value})
	if err != nil {
		return err
	}
	if _, err := s.w.Write(line); err != nil {
		observability.Store().OnStoreError(ctx, "file", err)
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		observability.Store().OnStoreError(ctx, "file", err)
		return err
	}
	observability.Store().OnTally(ctx, "file", series)
	return nil
}

// Series replays the file and returns the named series in tally order.
func (s *FileStore) Series(ctx context.Context, series string) ([]float64, error) {
	recs, err := s.replay()
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, r := range recs {
		if r.Series == series {
			out = append(out, r.Value)
		}
	}
	if out == nil {
		return nil, ErrUnknownSeries
	}
	observability.Store().OnPlayback(ctx, "file", series, len(out))
	return out, nil
}

// Names replays the file and returns the series names in ascending order.
func (s *FileStore) Names(ctx context.Context) ([]string, error) {
	recs, err := s.replay()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, r := range recs {
		seen[r.Series] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Close flushes pending writes and closes the file.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func (s *FileStore) replay() ([]fileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.w.Flush(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("replay trace file: %w", err)
	}
	defer f.Close()

	var recs []fileRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r fileRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("corrupt trace line: %w", err)
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

var _ Store = (*FileStore)(nil)
