package container

import (
	"errors"
	"testing"

	"github.com/probkit/probkit/pkg/graph"
)

func TestMapPartitionAndRefresh(t *testing.T) {
	mu := graph.NewStochastic("mu", 0.0)
	members := map[string]any{
		"mu":    mu,
		"tau":   1.0,
		"label": "prior",
	}

	c, err := NewMapContainer(members)
	if err != nil {
		t.Fatalf("NewMapContainer() error = %v", err)
	}
	if got, want := c.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := c.NumVariable(), 1; got != want {
		t.Errorf("NumVariable() = %d, want %d", got, want)
	}
	if got, want := c.NumConstant(), 2; got != want {
		t.Errorf("NumConstant() = %d, want %d", got, want)
	}

	snap := c.Snapshot()
	if snap["mu"] != 0.0 || snap["tau"] != 1.0 || snap["label"] != "prior" {
		t.Fatalf("Snapshot() = %v, want all members materialized", snap)
	}

	if err := mu.SetValue(5.0); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := c.Snapshot()["mu"]; got != 5.0 {
		t.Errorf("Snapshot()[mu] = %v, want 5.0", got)
	}
	if got := c.Snapshot()["tau"]; got != 1.0 {
		t.Errorf("Snapshot()[tau] = %v, want constant untouched", got)
	}
}

func TestMapSnapshotStableAcrossRefresh(t *testing.T) {
	mu := graph.NewStochastic("mu", 0.0)
	c, err := NewMapContainer(map[string]any{"mu": mu})
	if err != nil {
		t.Fatalf("NewMapContainer() error = %v", err)
	}
	snap := c.Snapshot()
	if err := mu.SetValue(3.0); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	// Refresh rebuilds the same map in place; earlier references see updates.
	if got := snap["mu"]; got != 3.0 {
		t.Errorf("snapshot map not rebuilt in place, snap[mu] = %v", got)
	}
}

func TestMapRefreshMissingKey(t *testing.T) {
	mu := graph.NewStochastic("mu", 0.0)
	members := map[string]any{"mu": mu, "tau": 1.0}
	c, err := NewMapContainer(members)
	if err != nil {
		t.Fatalf("NewMapContainer() error = %v", err)
	}

	delete(members, "tau")
	if err := c.Refresh(); !errors.Is(err, ErrPosition) {
		t.Fatalf("Refresh() error = %v, want ErrPosition after key deletion", err)
	}
	// The failed refresh must not have clobbered the snapshot.
	if got := c.Snapshot()["tau"]; got != 1.0 {
		t.Errorf("Snapshot()[tau] = %v, want previous snapshot intact", got)
	}
}

func TestMapRefreshRereadsConstants(t *testing.T) {
	mu := graph.NewStochastic("mu", 0.0)
	members := map[string]any{"mu": mu, "tau": 1.0}
	c, err := NewMapContainer(members)
	if err != nil {
		t.Fatalf("NewMapContainer() error = %v", err)
	}
	members["tau"] = 2.5
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := c.Snapshot()["tau"]; got != 2.5 {
		t.Errorf("Snapshot()[tau] = %v, want replaced constant to be visible", got)
	}
}

func TestMapWrapsNestedCollections(t *testing.T) {
	inner := graph.NewStochastic("inner", 1)
	members := map[string]any{
		"nested": map[string]any{"v": inner},
		"c":      "const",
	}
	c, err := NewMapContainer(members)
	if err != nil {
		t.Fatalf("NewMapContainer() error = %v", err)
	}
	if got, want := c.NumVariable(), 1; got != want {
		t.Fatalf("NumVariable() = %d, want %d", got, want)
	}
	nested, ok := c.Snapshot()["nested"].(map[string]any)
	if !ok {
		t.Fatalf("Snapshot()[nested] = %T, want map[string]any", c.Snapshot()["nested"])
	}
	if nested["v"] != 1 {
		t.Errorf("nested snapshot = %v, want inner value materialized", nested)
	}
}
