package container

import (
	"fmt"
	"slices"

	"github.com/probkit/probkit/pkg/graph"
)

// Array is a dense multi-dimensional collection: a shape descriptor over a
// flat row-major element buffer. Multi-dimensional indexing reduces to
// linear indexing through [Array.Offset], so containers can refresh arrays
// of any rank in one flat loop.
type Array struct {
	shape []int
	elems []any
}

// NewArray creates an array with the given shape from row-major elements.
// The element count must equal the product of the shape dimensions.
func NewArray(shape []int, elems ...any) (*Array, error) {
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("negative dimension %d: %w", dim, ErrShape)
		}
		n *= dim
	}
	if len(elems) != n {
		return nil, fmt.Errorf("%d elements for shape %v (want %d): %w", len(elems), shape, n, ErrShape)
	}
	return &Array{shape: slices.Clone(shape), elems: elems}, nil
}

// Shape returns a copy of the shape descriptor.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Len returns the total element count.
func (a *Array) Len() int { return len(a.elems) }

// Offset maps a multi-dimensional index to its row-major linear position.
// Panics if the index rank or any coordinate is out of range, matching
// slice-index semantics.
func (a *Array) Offset(idx ...int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("array: %d indices for rank %d", len(idx), len(a.shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("array: index %d out of range for dimension %d (size %d)", i, d, a.shape[d]))
		}
		off = off*a.shape[d] + i
	}
	return off
}

// At returns the element at the given multi-dimensional index.
func (a *Array) At(idx ...int) any { return a.elems[a.Offset(idx...)] }

// SetAt replaces the element at the given multi-dimensional index.
func (a *Array) SetAt(v any, idx ...int) { a.elems[a.Offset(idx...)] = v }

// Ravel returns the flat row-major element buffer. The buffer is shared
// with the array, not copied.
func (a *Array) Ravel() []any { return a.elems }

// ArrayContainer is the dense-array container. Both partition and refresh
// operate purely in ravelled coordinates: val and const positions index the
// flat buffers of the source and the snapshot, so dimensionality never
// enters the refresh loop.
type ArrayContainer struct {
	src      *Array
	valIdx   []int // ravelled positions holding variables/containers
	constIdx []int // ravelled positions holding constants
	scratch  []any
	snapshot *Array
}

// NewArrayContainer partitions the array's ravelled elements and builds the
// initial snapshot, an independent array of the same shape.
func NewArrayContainer(a *Array) (*ArrayContainer, error) {
	c := &ArrayContainer{src: a}
	data := a.Ravel()
	for i := range data {
		wrapped, valueBearing, err := wrapMember(data[i])
		if err != nil {
			return nil, err
		}
		if valueBearing {
			data[i] = wrapped
			c.valIdx = append(c.valIdx, i)
		} else {
			c.constIdx = append(c.constIdx, i)
		}
	}
	if err := graph.ValidateAcyclic(c.Variables()...); err != nil {
		return nil, err
	}
	c.scratch = make([]any, len(c.valIdx))
	c.snapshot = &Array{shape: a.Shape(), elems: make([]any, len(data))}
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns KindArray.
func (c *ArrayContainer) Kind() Kind { return KindArray }

// Len returns the total element count.
func (c *ArrayContainer) Len() int { return c.src.Len() }

// NumVariable returns the number of value-bearing positions.
func (c *ArrayContainer) NumVariable() int { return len(c.valIdx) }

// NumConstant returns the number of constant positions.
func (c *ArrayContainer) NumConstant() int { return len(c.constIdx) }

// Refresh rebuilds the snapshot's flat buffer in place: value positions
// from live variable values, constant positions re-read from the source
// buffer. The source buffer length is fixed by the Array type, so positions
// cannot go missing.
func (c *ArrayContainer) Refresh() error {
	srcData := c.src.Ravel()
	for k, ind := range c.valIdx {
		v, err := liveValue(srcData[ind])
		if err != nil {
			return err
		}
		c.scratch[k] = v
	}

	snapData := c.snapshot.Ravel()
	for k, ind := range c.valIdx {
		snapData[ind] = c.scratch[k]
	}
	for _, ind := range c.constIdx {
		snapData[ind] = srcData[ind]
	}
	return nil
}

// Value returns the snapshot as any. See Snapshot for the typed accessor.
func (c *ArrayContainer) Value() any { return c.snapshot }

// Snapshot returns the snapshot array. Its flat buffer is rebuilt in place
// by Refresh; callers must treat it as read-only.
func (c *ArrayContainer) Snapshot() *Array { return c.snapshot }

// Variables returns the contained variables, nested containers included.
func (c *ArrayContainer) Variables() []graph.Variable {
	var out []graph.Variable
	data := c.src.Ravel()
	for _, ind := range c.valIdx {
		out = appendVariables(out, data[ind])
	}
	return out
}

var _ Container = (*ArrayContainer)(nil)
