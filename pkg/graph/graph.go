package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Graph is a registry of variables keyed by name. Construction validates
// that the registered variables form an acyclic dependency structure; a
// cyclic model is rejected, never partially built.
//
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes map[string]Variable
}

// New creates a graph over the given variables and, recursively, their
// Variable parents. Returns ErrCycle (wrapped with the offending variable's
// name) if any variable is its own transitive parent.
func New(vars ...Variable) (*Graph, error) {
	g := &Graph{nodes: make(map[string]Variable)}
	for _, v := range vars {
		if err := g.Add(v); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Add registers a variable and, recursively, its Variable parents. Adding
// the same variable twice is a no-op; a different variable under an already
// registered name returns ErrDuplicateName. Add does not run cycle
// detection; call Validate after the last Add.
func (g *Graph) Add(v Variable) error {
	name := v.Name()
	if name == "" {
		return ErrEmptyName
	}
	if existing, ok := g.nodes[name]; ok {
		if existing == v {
			return nil
		}
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	g.nodes[name] = v
	for _, p := range v.Parents() {
		if pv, ok := p.(Variable); ok {
			if err := g.Add(pv); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks that the registered variables are acyclic.
func (g *Graph) Validate() error {
	return ValidateAcyclic(g.Variables()...)
}

// Variable returns the variable registered under name, and whether it exists.
func (g *Graph) Variable(name string) (Variable, bool) {
	v, ok := g.nodes[name]
	return v, ok
}

// Variables returns all registered variables sorted by name.
func (g *Graph) Variables() []Variable {
	names := slices.Sorted(maps.Keys(g.nodes))
	out := make([]Variable, len(names))
	for i, n := range names {
		out[i] = g.nodes[n]
	}
	return out
}

// Stochastics returns the unobserved stochastic variables sorted by name.
func (g *Graph) Stochastics() []*Stochastic {
	var out []*Stochastic
	for _, v := range g.Variables() {
		if s, ok := v.(*Stochastic); ok && !s.IsObserved() {
			out = append(out, s)
		}
	}
	return out
}

// Observed returns the observed stochastic variables sorted by name.
func (g *Graph) Observed() []*Stochastic {
	var out []*Stochastic
	for _, v := range g.Variables() {
		if s, ok := v.(*Stochastic); ok && s.IsObserved() {
			out = append(out, s)
		}
	}
	return out
}

// Deterministics returns the deterministic variables sorted by name.
func (g *Graph) Deterministics() []*Deterministic {
	var out []*Deterministic
	for _, v := range g.Variables() {
		if d, ok := v.(*Deterministic); ok {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered variables.
func (g *Graph) Len() int { return len(g.nodes) }

// ValidateAcyclic walks parent edges from each of the given variables and
// returns ErrCycle, wrapped with the name of a variable on the cycle, if any
// variable is reachable from itself. Detection runs in O(V+E) using
// depth-first search with white/gray/black coloring; no value computation is
// attempted.
func ValidateAcyclic(vars ...Variable) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Variable]int)

	var visit func(v Variable) error
	visit = func(v Variable) error {
		color[v] = gray
		parents := v.Parents()
		for _, role := range slices.Sorted(maps.Keys(parents)) {
			pv, ok := parents[role].(Variable)
			if !ok {
				continue
			}
			switch color[pv] {
			case white:
				if err := visit(pv); err != nil {
					return err
				}
			case gray:
				return fmt.Errorf("%q is its own transitive parent: %w", pv.Name(), ErrCycle)
			}
		}
		color[v] = black
		return nil
	}

	for _, v := range vars {
		if color[v] == white {
			if err := visit(v); err != nil {
				return err
			}
		}
	}
	return nil
}
