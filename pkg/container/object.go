package container

import (
	"slices"

	"github.com/probkit/probkit/pkg/graph"
)

// Object is an ordered attribute collection: the Go stand-in for an
// attribute-bearing value. Attributes keep declaration order, which fixes
// the container scan order.
type Object struct {
	names []string
	attrs map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{attrs: make(map[string]any)}
}

// Set assigns an attribute, appending it to the declaration order if new.
// Returns the object for chaining.
func (o *Object) Set(name string, v any) *Object {
	if _, ok := o.attrs[name]; !ok {
		o.names = append(o.names, name)
	}
	o.attrs[name] = v
	return o
}

// Get returns the attribute value and whether it exists.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

// Names returns the attribute names in declaration order.
func (o *Object) Names() []string { return slices.Clone(o.names) }

// Len returns the attribute count.
func (o *Object) Len() int { return len(o.names) }

// ObjectContainer is the attribute-object container. It delegates
// partitioning and refresh to an inner MapContainer built over the object's
// attribute map in declaration order; the snapshot object's attribute map
// is the inner container's snapshot map, not a copy layered atop it.
type ObjectContainer struct {
	src      *Object
	inner    *MapContainer
	snapshot *Object
}

// NewObjectContainer partitions the object's attributes and builds the
// initial snapshot.
func NewObjectContainer(o *Object) (*ObjectContainer, error) {
	inner, err := newMapContainer(o.attrs, slices.Clone(o.names))
	if err != nil {
		return nil, err
	}
	return &ObjectContainer{
		src:   o,
		inner: inner,
		snapshot: &Object{
			names: slices.Clone(o.names),
			attrs: inner.Snapshot(),
		},
	}, nil
}

// Kind returns KindObject.
func (c *ObjectContainer) Kind() Kind { return KindObject }

// Len returns the attribute count.
func (c *ObjectContainer) Len() int { return c.inner.Len() }

// NumVariable returns the number of value-bearing attributes.
func (c *ObjectContainer) NumVariable() int { return c.inner.NumVariable() }

// NumConstant returns the number of constant attributes.
func (c *ObjectContainer) NumConstant() int { return c.inner.NumConstant() }

// Refresh delegates to the inner map container. The snapshot object shares
// the inner snapshot map, so the refreshed attributes are immediately
// visible on it.
func (c *ObjectContainer) Refresh() error { return c.inner.Refresh() }

// Value returns the snapshot as any. See Snapshot for the typed accessor.
func (c *ObjectContainer) Value() any { return c.snapshot }

// Snapshot returns the snapshot object; callers must treat it as read-only.
func (c *ObjectContainer) Snapshot() *Object { return c.snapshot }

// Variables returns the contained variables, nested containers included.
func (c *ObjectContainer) Variables() []graph.Variable { return c.inner.Variables() }

var _ Container = (*ObjectContainer)(nil)
