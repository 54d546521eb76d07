package container

import (
	"fmt"
	"maps"
	"slices"

	"github.com/probkit/probkit/pkg/graph"
)

// MapContainer is the keyed-mapping container. The scan order is fixed at
// construction (sorted key order for plain maps, declaration order when used
// inside an ObjectContainer) and preserved by every refresh.
type MapContainer struct {
	src       map[string]any
	valKeys   []string
	constKeys []string
	scratch   []any
	snapshot  map[string]any
}

// NewMapContainer partitions members in sorted key order and builds the
// initial snapshot. Nested collections are wrapped as containers in place.
func NewMapContainer(members map[string]any) (*MapContainer, error) {
	return newMapContainer(members, slices.Sorted(maps.Keys(members)))
}

// newMapContainer partitions members in the given key order. The order must
// cover exactly the map's keys.
func newMapContainer(members map[string]any, order []string) (*MapContainer, error) {
	c := &MapContainer{src: members}
	for _, key := range order {
		wrapped, valueBearing, err := wrapMember(members[key])
		if err != nil {
			return nil, err
		}
		if valueBearing {
			members[key] = wrapped
			c.valKeys = append(c.valKeys, key)
		} else {
			c.constKeys = append(c.constKeys, key)
		}
	}
	if err := graph.ValidateAcyclic(c.Variables()...); err != nil {
		return nil, err
	}
	c.scratch = make([]any, len(c.valKeys))
	c.snapshot = make(map[string]any, len(members))
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns KindMap.
func (c *MapContainer) Kind() Kind { return KindMap }

// Len returns the member count.
func (c *MapContainer) Len() int { return len(c.valKeys) + len(c.constKeys) }

// NumVariable returns the number of value-bearing keys.
func (c *MapContainer) NumVariable() int { return len(c.valKeys) }

// NumConstant returns the number of constant keys.
func (c *MapContainer) NumConstant() int { return len(c.constKeys) }

// Refresh rebuilds the snapshot map in place, value keys first, then
// constant keys re-read from the source. A key recorded at construction that
// has since been deleted from the backing map fails with ErrPosition before
// anything is written.
func (c *MapContainer) Refresh() error {
	for k, key := range c.valKeys {
		m, ok := c.src[key]
		if !ok {
			return fmt.Errorf("key %q: %w", key, ErrPosition)
		}
		v, err := liveValue(m)
		if err != nil {
			return err
		}
		c.scratch[k] = v
	}
	for _, key := range c.constKeys {
		if _, ok := c.src[key]; !ok {
			return fmt.Errorf("key %q: %w", key, ErrPosition)
		}
	}

	for k, key := range c.valKeys {
		c.snapshot[key] = c.scratch[k]
	}
	for _, key := range c.constKeys {
		c.snapshot[key] = c.src[key]
	}
	return nil
}

// Value returns the snapshot as any. See Snapshot for the typed accessor.
func (c *MapContainer) Value() any { return c.snapshot }

// Snapshot returns the snapshot map. It is rebuilt in place by Refresh;
// callers must treat it as read-only.
func (c *MapContainer) Snapshot() map[string]any { return c.snapshot }

// Variables returns the contained variables, nested containers included.
func (c *MapContainer) Variables() []graph.Variable {
	var out []graph.Variable
	for _, key := range c.valKeys {
		out = appendVariables(out, c.src[key])
	}
	return out
}

var _ Container = (*MapContainer)(nil)
