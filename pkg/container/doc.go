// Package container assembles mixed collections of variables and constants
// into composite values that always match the shape of the source
// collection.
//
// A container scans its members exactly once at construction, partitioning
// positions into value-bearing slots (variables and nested containers) and
// constant slots. Every later [Container.Refresh] revisits only the recorded
// positions: value slots are filled from each variable's live value, constant
// slots are re-copied from the backing collection. Refresh cost is
// O(n_val + n_nonval); nothing proportional to member size is recomputed.
//
// Four structural shapes are supported:
//
//   - []any               → [SliceContainer]
//   - map[string]any      → [MapContainer]
//   - *Object             → [ObjectContainer] (ordered attribute collection)
//   - *Array              → [ArrayContainer]  (dense, shape-aware, refreshed
//     in ravelled row-major coordinates)
//
// Nested collections found inside a container are wrapped as nested
// containers and treated as value-bearing slots.
//
// The partition assumes the set of variables occupying a container does not
// change after construction; only their values change. If membership
// changes, build a new container. The snapshot returned by [Container.Value]
// is owned by the container: callers get read access and must not mutate it.
package container
