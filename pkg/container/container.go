package container

import (
	"errors"
	"fmt"

	"github.com/probkit/probkit/pkg/graph"
)

var (
	// ErrShape is returned by [New] when the member collection is not one of
	// the four supported structural shapes, and by [NewArray] when element
	// count and shape disagree.
	ErrShape = errors.New("unsupported container shape")

	// ErrPosition is returned by Refresh when a position recorded at
	// construction no longer exists in the backing collection. This means
	// the backing collection was mutated in place after construction, which
	// violates the usage contract; rebuild the container instead.
	ErrPosition = errors.New("recorded position missing from backing collection")
)

// Kind identifies the structural shape of a container.
type Kind int

const (
	// KindSlice is an ordered sequence container.
	KindSlice Kind = iota
	// KindMap is a keyed mapping container.
	KindMap
	// KindObject is an attribute-bearing object container.
	KindObject
	// KindArray is a dense, shape-aware array container.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Container presents a mix of variables and constants as one composite value
// matching the source collection's shape.
//
// Containers are not safe for concurrent use; each container must be
// confined to one logical owner.
type Container interface {
	// Kind returns the structural shape.
	Kind() Kind
	// Len returns the total member count.
	Len() int
	// NumVariable returns the number of value-bearing positions.
	NumVariable() int
	// NumConstant returns the number of constant positions.
	// NumVariable() + NumConstant() == Len() always holds.
	NumConstant() int
	// Refresh rebuilds the snapshot in place from the members' current
	// values. All live values are pulled before any snapshot write, so a
	// failed refresh leaves the previous snapshot intact and reports the
	// failing variable or position. Refresh is idempotent: with unchanged
	// variable values it reproduces the identical snapshot.
	Refresh() error
	// Value returns the snapshot: the current (possibly stale) composite
	// value. The snapshot is owned by the container; do not mutate it.
	Value() any
	// Variables returns the variables contained at value-bearing positions,
	// including those inside nested containers.
	Variables() []graph.Variable
}

// New wraps a member collection in the container variant matching its shape.
// Returns ErrShape for anything other than []any, map[string]any, *Object,
// or *Array.
func New(members any) (Container, error) {
	switch m := members.(type) {
	case []any:
		return NewSliceContainer(m)
	case map[string]any:
		return NewMapContainer(m)
	case *Object:
		return NewObjectContainer(m)
	case *Array:
		return NewArrayContainer(m)
	}
	return nil, fmt.Errorf("%T: %w", members, ErrShape)
}

// wrapMember classifies a single member. Variables and containers are
// value-bearing; raw nested collections are wrapped into containers (and
// written back into the source in place, so the classification is stable).
// Everything else is a constant.
func wrapMember(m any) (wrapped any, valueBearing bool, err error) {
	switch m.(type) {
	case graph.Variable, Container:
		return m, true, nil
	case []any, map[string]any, *Object, *Array:
		c, err := New(m)
		if err != nil {
			return nil, false, err
		}
		return c, true, nil
	}
	return m, false, nil
}

// liveValue pulls the current value of a value-bearing member. Nested
// containers are refreshed before their snapshot is read.
func liveValue(m any) (any, error) {
	switch v := m.(type) {
	case graph.Variable:
		return v.Value()
	case Container:
		if err := v.Refresh(); err != nil {
			return nil, err
		}
		return v.Value(), nil
	}
	return nil, fmt.Errorf("member %T is not value-bearing", m)
}

// appendVariables collects the variables reachable from a member.
func appendVariables(out []graph.Variable, m any) []graph.Variable {
	switch v := m.(type) {
	case graph.Variable:
		out = append(out, v)
	case Container:
		out = append(out, v.Variables()...)
	}
	return out
}
