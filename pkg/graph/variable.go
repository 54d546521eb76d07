package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Parents maps role names (e.g. "mu", "tau") to a parent, which is either a
// [Variable] or a plain constant value.
type Parents map[string]any

// Variable is the capability contract shared by stochastic and deterministic
// nodes: something with an identity and a live value. Containers use it to
// classify members, samplers use it to pull values.
type Variable interface {
	// ID returns the unique identity handle of this variable.
	ID() uuid.UUID
	// Name returns the model-level name. Names key variables within a Graph.
	Name() string
	// Value returns the current value, recomputing first if stale.
	Value() (any, error)
	// IsStochastic reports whether the variable's value is assigned rather
	// than computed.
	IsStochastic() bool
	// IsObserved reports whether the value is fixed by data.
	IsObserved() bool
	// Parents returns a copy of the role → parent mapping. Mutating the
	// returned map does not rebind edges; use SetParent on the concrete type.
	Parents() Parents
	// Children returns the variables that depend on this one.
	Children() []Variable
}

// node carries the bookkeeping shared by Stochastic and Deterministic.
type node struct {
	id       uuid.UUID
	name     string
	parents  Parents
	children map[Variable]struct{}
}

func newNode(name string, parents Parents) node {
	if parents == nil {
		parents = Parents{}
	}
	return node{
		id:       uuid.New(),
		name:     name,
		parents:  parents,
		children: make(map[Variable]struct{}),
	}
}

func (n *node) ID() uuid.UUID    { return n.id }
func (n *node) Name() string     { return n.name }
func (n *node) Parents() Parents { return maps.Clone(n.parents) }

func (n *node) Children() []Variable {
	out := make([]Variable, 0, len(n.children))
	for c := range n.children {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Variable) int {
		if a.Name() < b.Name() {
			return -1
		}
		if a.Name() > b.Name() {
			return 1
		}
		return 0
	})
	return out
}

// roles returns the parent role names in ascending order. All parent
// iteration goes through this so that recompute argument assembly and cycle
// walks are deterministic.
func (n *node) roles() []string {
	return slices.Sorted(maps.Keys(n.parents))
}

// registerWithParents adds child to the children set of every Variable parent.
func registerWithParents(parents Parents, child Variable) {
	for _, p := range parents {
		addChild(p, child)
	}
}

func addChild(parent any, child Variable) {
	switch p := parent.(type) {
	case *Stochastic:
		p.children[child] = struct{}{}
	case *Deterministic:
		p.children[child] = struct{}{}
	}
}

func removeChild(parent any, child Variable) {
	switch p := parent.(type) {
	case *Stochastic:
		delete(p.children, child)
	case *Deterministic:
		delete(p.children, child)
	}
}

// rebindParent swaps the parent bound to role, maintaining child
// back-references. The child is only removed from the old parent's children
// set if no other role still references that parent.
func (n *node) rebindParent(role string, parent any, self Variable) {
	if old, ok := n.parents[role].(Variable); ok {
		onlyReference := true
		for r, p := range n.parents {
			if pv, ok := p.(Variable); ok && r != role && pv == old {
				onlyReference = false
				break
			}
		}
		if onlyReference {
			removeChild(old, self)
		}
	}
	n.parents[role] = parent
	addChild(parent, self)
}

// invalidateChildren marks every transitive deterministic descendant stale.
func (n *node) invalidateChildren() {
	for c := range n.children {
		if d, ok := c.(*Deterministic); ok {
			d.invalidate()
		}
	}
}

// resolveParents pulls live values for every Variable parent and passes
// constants through, producing the argument map handed to compute and
// log-probability functions. Roles are visited in ascending order.
func resolveParents(n *node) (map[string]any, error) {
	args := make(map[string]any, len(n.parents))
	for _, role := range n.roles() {
		switch p := n.parents[role].(type) {
		case Variable:
			v, err := p.Value()
			if err != nil {
				return nil, err
			}
			args[role] = v
		default:
			args[role] = p
		}
	}
	return args, nil
}

// LogProbFunc evaluates the log-probability of value given the resolved
// parent arguments.
type LogProbFunc func(value any, args map[string]any) (float64, error)

// =============================================================================
// Stochastic
// =============================================================================

// Stochastic is a variable whose value is not determined by its parents: it
// is set by sampling or assignment, and participates in a likelihood through
// its bound log-probability function.
type Stochastic struct {
	node
	observed bool
	logp     LogProbFunc
	value    any
	last     any
}

// StochasticOption configures a Stochastic at construction.
type StochasticOption func(*Stochastic)

// WithParents binds the role → parent mapping used by the log-probability
// function. Parents may be Variables or constants.
func WithParents(parents Parents) StochasticOption {
	return func(s *Stochastic) { s.parents = parents }
}

// WithLogProb binds the log-probability function evaluated by LogP.
func WithLogProb(fn LogProbFunc) StochasticOption {
	return func(s *Stochastic) { s.logp = fn }
}

// Observed marks the variable's value as fixed by data; SetValue will be
// rejected.
func Observed() StochasticOption {
	return func(s *Stochastic) { s.observed = true }
}

// NewStochastic creates a stochastic variable with an initial value.
func NewStochastic(name string, value any, opts ...StochasticOption) *Stochastic {
	s := &Stochastic{
		node:  newNode(name, nil),
		value: value,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parents == nil {
		s.parents = Parents{}
	}
	registerWithParents(s.parents, s)
	return s
}

// Value returns the current value. It never fails for a stochastic; the
// error return exists to satisfy the Variable contract.
func (s *Stochastic) Value() (any, error) { return s.value, nil }

// IsStochastic reports true.
func (s *Stochastic) IsStochastic() bool { return true }

// IsObserved reports whether the value is fixed by data.
func (s *Stochastic) IsObserved() bool { return s.observed }

// SetValue stores v and marks every transitive deterministic descendant
// stale. Returns ErrObserved if the variable is observed. The previous value
// is retained and available via LastValue.
func (s *Stochastic) SetValue(v any) error {
	if s.observed {
		return fmt.Errorf("%s: %w", s.name, ErrObserved)
	}
	s.last = s.value
	s.value = v
	s.invalidateChildren()
	return nil
}

// LastValue returns the value held before the most recent SetValue. Useful
// for rejecting Metropolis-Hastings jumps.
func (s *Stochastic) LastValue() any { return s.last }

// Revert restores the value held before the most recent SetValue and
// re-invalidates descendants. Reverting an observed variable is a no-op.
func (s *Stochastic) Revert() {
	if s.observed {
		return
	}
	s.value, s.last = s.last, s.value
	s.invalidateChildren()
}

// SetParent rebinds the parent for role, keeping child back-references
// consistent. Cycle validation happens at Graph/container construction, not
// here.
func (s *Stochastic) SetParent(role string, parent any) {
	s.rebindParent(role, parent, s)
}

// LogP evaluates the bound log-probability of the current value given the
// parents' current values. Returns ErrNoLogProb if none was bound.
func (s *Stochastic) LogP() (float64, error) {
	if s.logp == nil {
		return 0, fmt.Errorf("%s: %w", s.name, ErrNoLogProb)
	}
	args, err := resolveParents(&s.node)
	if err != nil {
		return 0, err
	}
	return s.logp(s.value, args)
}

// HasLogProb reports whether a log-probability function is bound.
func (s *Stochastic) HasLogProb() bool { return s.logp != nil }

// =============================================================================
// Deterministic
// =============================================================================

// ComputeFunc computes a deterministic variable's value from its resolved
// parent arguments. It must be pure: deterministic and free of side effects
// on graph state.
type ComputeFunc func(args map[string]any) (any, error)

// Deterministic is a variable whose value is a pure function of its parents'
// values. The value is cached; it is recomputed on the next pull after any
// transitive stochastic ancestor changes.
type Deterministic struct {
	node
	fn     ComputeFunc
	cached any
	fresh  bool
}

// NewDeterministic creates a deterministic variable computed by fn over
// parents. The value stays stale until the first pull.
func NewDeterministic(name string, parents Parents, fn ComputeFunc) *Deterministic {
	d := &Deterministic{
		node: newNode(name, parents),
		fn:   fn,
	}
	registerWithParents(d.parents, d)
	return d
}

// Value returns the cached value, recomputing first if stale. On failure the
// previous cached value is retained un-mutated and a *ComputationError
// identifying this variable is returned.
func (d *Deterministic) Value() (any, error) {
	if d.fresh {
		return d.cached, nil
	}
	args, err := resolveParents(&d.node)
	if err != nil {
		return nil, err
	}
	v, err := d.fn(args)
	if err != nil {
		return nil, &ComputationError{Variable: d.name, Err: err}
	}
	d.cached = v
	d.fresh = true
	return v, nil
}

// IsStochastic reports false.
func (d *Deterministic) IsStochastic() bool { return false }

// IsObserved reports false; only stochastic variables carry observations.
func (d *Deterministic) IsObserved() bool { return false }

// Fresh reports whether the cached value reflects the parents' current
// values. Staleness is permitted only while no value pull has been requested.
func (d *Deterministic) Fresh() bool { return d.fresh }

// SetParent rebinds the parent for role and marks this variable and its
// transitive descendants stale. Cycle validation happens at Graph/container
// construction, not here.
func (d *Deterministic) SetParent(role string, parent any) {
	d.rebindParent(role, parent, d)
	d.fresh = false
	d.invalidateChildren()
}

// invalidate marks the cache stale and propagates downstream. Propagation
// stops early at nodes that are already stale.
func (d *Deterministic) invalidate() {
	if !d.fresh {
		return
	}
	d.fresh = false
	d.invalidateChildren()
}

var (
	_ Variable = (*Stochastic)(nil)
	_ Variable = (*Deterministic)(nil)
)
