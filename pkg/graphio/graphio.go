// Package graphio serializes model dependency graphs to JSON for API
// responses, storage, and external tooling. Serialization is one-way:
// compute functions and log-probability closures cannot be rebuilt from
// data, so there is no reader.
package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/probkit/probkit/pkg/graph"
)

// Node kinds.
const (
	KindStochastic    = "stochastic"
	KindDeterministic = "deterministic"
)

// Graph is the canonical serialization format for model dependency graphs.
// Nodes and edges are sorted for deterministic output.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node describes one variable.
type Node struct {
	Name     string `json:"name" bson:"name"`
	Kind     string `json:"kind" bson:"kind"`
	Observed bool   `json:"observed,omitempty" bson:"observed,omitempty"`
	// Value is the variable's current value, if it could be pulled.
	Value any `json:"value,omitempty" bson:"value,omitempty"`
}

// Edge is a directed parent → child dependency labeled with the parent's
// role on the child.
type Edge struct {
	Parent string `json:"parent" bson:"parent"`
	Child  string `json:"child" bson:"child"`
	Role   string `json:"role" bson:"role"`
}

// FromGraph converts a dependency graph to its serialization form. Variables
// whose value cannot currently be computed serialize with a null value.
func FromGraph(g *graph.Graph) Graph {
	var out Graph
	for _, v := range g.Variables() {
		kind := KindDeterministic
		if v.IsStochastic() {
			kind = KindStochastic
		}
		n := Node{
			Name:     v.Name(),
			Kind:     kind,
			Observed: v.IsObserved(),
		}
		if val, err := v.Value(); err == nil {
			n.Value = val
		}
		out.Nodes = append(out.Nodes, n)

		parents := v.Parents()
		for _, role := range slices.Sorted(maps.Keys(parents)) {
			pv, ok := parents[role].(graph.Variable)
			if !ok {
				continue
			}
			out.Edges = append(out.Edges, Edge{
				Parent: pv.Name(),
				Child:  v.Name(),
				Role:   role,
			})
		}
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.Child, b.Child); c != 0 {
			return c
		}
		return strings.Compare(a.Role, b.Role)
	})
	return out
}

// Marshal converts a dependency graph to indented JSON bytes.
func Marshal(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a dependency graph as JSON to an io.Writer.
func Write(g *graph.Graph, w io.Writer) error {
	return writeTo(g, w)
}

// WriteFile writes a dependency graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

func writeTo(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
