package container

import (
	"fmt"

	"github.com/probkit/probkit/pkg/graph"
)

// SliceContainer is the ordered-sequence container. It partitions a []any
// once at construction and thereafter refreshes a same-length snapshot
// slice, filling value slots from live variable values and re-copying
// constant slots from the source.
type SliceContainer struct {
	src      []any
	valIdx   []int // positions holding variables/containers, ascending
	constIdx []int // positions holding constants, ascending
	scratch  []any // pull buffer reused across refreshes, len == len(valIdx)
	snapshot []any
}

// NewSliceContainer partitions members and builds the initial snapshot from
// the variables' construction-time values. Nested collections among the
// members are wrapped as containers in place. Fails with ErrCycle if any
// contained variable is its own transitive parent; validation runs before
// any value is pulled.
func NewSliceContainer(members []any) (*SliceContainer, error) {
	c := &SliceContainer{src: members}
	for i := range members {
		wrapped, valueBearing, err := wrapMember(members[i])
		if err != nil {
			return nil, err
		}
		if valueBearing {
			members[i] = wrapped
			c.valIdx = append(c.valIdx, i)
		} else {
			c.constIdx = append(c.constIdx, i)
		}
	}
	if err := graph.ValidateAcyclic(c.Variables()...); err != nil {
		return nil, err
	}
	c.scratch = make([]any, len(c.valIdx))
	c.snapshot = make([]any, len(members))
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns KindSlice.
func (c *SliceContainer) Kind() Kind { return KindSlice }

// Len returns the member count.
func (c *SliceContainer) Len() int { return len(c.src) }

// NumVariable returns the number of value-bearing positions.
func (c *SliceContainer) NumVariable() int { return len(c.valIdx) }

// NumConstant returns the number of constant positions.
func (c *SliceContainer) NumConstant() int { return len(c.constIdx) }

// Refresh rebuilds the snapshot in place. Value slots are visited first in
// ascending index order, then constant slots; constants are re-read from the
// source each time, so replacing a constant in the backing slice is visible
// without reconstruction.
func (c *SliceContainer) Refresh() error {
	// Pull phase: gather every live value before touching the snapshot.
	for k, ind := range c.valIdx {
		if ind >= len(c.src) {
			return fmt.Errorf("index %d: %w", ind, ErrPosition)
		}
		v, err := liveValue(c.src[ind])
		if err != nil {
			return err
		}
		c.scratch[k] = v
	}
	for _, ind := range c.constIdx {
		if ind >= len(c.src) {
			return fmt.Errorf("index %d: %w", ind, ErrPosition)
		}
	}

	// Commit phase: cannot fail.
	for k, ind := range c.valIdx {
		c.snapshot[ind] = c.scratch[k]
	}
	for _, ind := range c.constIdx {
		c.snapshot[ind] = c.src[ind]
	}
	return nil
}

// Value returns the snapshot as any. See Snapshot for the typed accessor.
func (c *SliceContainer) Value() any { return c.snapshot }

// Snapshot returns the snapshot slice. It is rebuilt in place by Refresh,
// never reallocated; callers must treat it as read-only.
func (c *SliceContainer) Snapshot() []any { return c.snapshot }

// Variables returns the contained variables, nested containers included.
func (c *SliceContainer) Variables() []graph.Variable {
	var out []graph.Variable
	for _, ind := range c.valIdx {
		out = appendVariables(out, c.src[ind])
	}
	return out
}

var _ Container = (*SliceContainer)(nil)
