// Package model assembles named variables, containers, and constants into a
// validated probabilistic model: the unit samplers and stores operate on.
package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/probkit/probkit/pkg/container"
	"github.com/probkit/probkit/pkg/graph"
)

// ErrNoStochastics is returned by New when the member set contains no
// unobserved stochastic variable, leaving nothing to sample.
var ErrNoStochastics = errors.New("model has no unobserved stochastic variables")

// Model is a validated collection of named members. Variables (top-level or
// reached through containers and parent edges) are registered in a dependency
// graph; raw collections are wrapped into containers; everything else is kept
// as a named constant.
type Model struct {
	graph      *graph.Graph
	members    map[string]any
	containers map[string]container.Container
	constants  map[string]any
}

// New builds a model from named members. Raw collections ([]any,
// map[string]any, *container.Object, *container.Array) are wrapped into
// containers; variables referenced as parents are registered even when not
// named as members. Returns ErrCycle for cyclic dependency structures and
// ErrNoStochastics when nothing is left to sample.
func New(members map[string]any) (*Model, error) {
	m := &Model{
		members:    members,
		containers: make(map[string]container.Container),
		constants:  make(map[string]any),
	}

	var vars []graph.Variable
	for _, name := range slices.Sorted(maps.Keys(members)) {
		switch v := members[name].(type) {
		case graph.Variable:
			vars = append(vars, v)
		case container.Container:
			m.containers[name] = v
			vars = append(vars, v.Variables()...)
		case []any, map[string]any, *container.Object, *container.Array:
			c, err := container.New(v)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", name, err)
			}
			m.members[name] = c
			m.containers[name] = c
			vars = append(vars, c.Variables()...)
		default:
			m.constants[name] = v
		}
	}

	g, err := graph.New(vars...)
	if err != nil {
		return nil, err
	}
	m.graph = g

	if len(g.Stochastics()) == 0 {
		return nil, ErrNoStochastics
	}
	return m, nil
}

// Graph returns the model's dependency graph.
func (m *Model) Graph() *graph.Graph { return m.graph }

// Member returns the member registered under name and whether it exists.
// Raw collections appear as the container they were wrapped into.
func (m *Model) Member(name string) (any, bool) {
	v, ok := m.members[name]
	return v, ok
}

// Names returns the member names in ascending order.
func (m *Model) Names() []string {
	return slices.Sorted(maps.Keys(m.members))
}

// Containers returns the container members keyed by member name.
func (m *Model) Containers() map[string]container.Container {
	return maps.Clone(m.containers)
}

// Constants returns the plain constant members keyed by member name.
func (m *Model) Constants() map[string]any {
	return maps.Clone(m.constants)
}

// Stochastics returns the unobserved stochastic variables sorted by name.
func (m *Model) Stochastics() []*graph.Stochastic { return m.graph.Stochastics() }

// Observed returns the observed stochastic variables sorted by name.
func (m *Model) Observed() []*graph.Stochastic { return m.graph.Observed() }

// Deterministics returns the deterministic variables sorted by name.
func (m *Model) Deterministics() []*graph.Deterministic { return m.graph.Deterministics() }

// LogP returns the joint log probability: the sum of the bound
// log-probability of every stochastic variable, observed included.
// Stochastics without a bound log-probability contribute nothing.
func (m *Model) LogP() (float64, error) {
	total := 0.0
	for _, v := range m.graph.Variables() {
		s, ok := v.(*graph.Stochastic)
		if !ok || !s.HasLogProb() {
			continue
		}
		lp, err := s.LogP()
		if err != nil {
			return 0, fmt.Errorf("log probability of %q: %w", s.Name(), err)
		}
		total += lp
	}
	return total, nil
}

// Refresh refreshes every container member, pulling current variable values
// into the container snapshots.
func (m *Model) Refresh() error {
	for _, name := range slices.Sorted(maps.Keys(m.containers)) {
		if err := m.containers[name].Refresh(); err != nil {
			return fmt.Errorf("container %q: %w", name, err)
		}
	}
	return nil
}
