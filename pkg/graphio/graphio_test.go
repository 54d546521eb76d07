package graphio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/probkit/probkit/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	mu := graph.NewStochastic("mu", 1.0)
	y := graph.NewStochastic("y", 2.0,
		graph.WithParents(graph.Parents{"mu": mu, "tau": 4.0}),
		graph.Observed(),
	)
	d := graph.NewDeterministic("scaled", graph.Parents{"x": mu}, func(args map[string]any) (any, error) {
		return args["x"].(float64) * 10, nil
	})
	g, err := graph.New(mu, y, d)
	if err != nil {
		t.Fatalf("graph.New() error = %v", err)
	}
	return g
}

func TestFromGraph(t *testing.T) {
	out := FromGraph(testGraph(t))

	if len(out.Nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(out.Nodes))
	}
	// Nodes come out in name order.
	names := []string{out.Nodes[0].Name, out.Nodes[1].Name, out.Nodes[2].Name}
	if names[0] != "mu" || names[1] != "scaled" || names[2] != "y" {
		t.Errorf("node order = %v, want [mu scaled y]", names)
	}

	byName := make(map[string]Node)
	for _, n := range out.Nodes {
		byName[n.Name] = n
	}
	if byName["mu"].Kind != KindStochastic || byName["mu"].Observed {
		t.Errorf("mu = %+v, want unobserved stochastic", byName["mu"])
	}
	if !byName["y"].Observed {
		t.Errorf("y = %+v, want observed", byName["y"])
	}
	if byName["scaled"].Kind != KindDeterministic {
		t.Errorf("scaled = %+v, want deterministic", byName["scaled"])
	}
	if byName["scaled"].Value != 10.0 {
		t.Errorf("scaled value = %v, want 10", byName["scaled"].Value)
	}

	// Only Variable parents become edges; constants are skipped.
	if len(out.Edges) != 2 {
		t.Fatalf("edges = %v, want mu→scaled and mu→y", out.Edges)
	}
	if out.Edges[0] != (Edge{Parent: "mu", Child: "scaled", Role: "x"}) {
		t.Errorf("edge[0] = %+v", out.Edges[0])
	}
	if out.Edges[1] != (Edge{Parent: "mu", Child: "y", Role: "mu"}) {
		t.Errorf("edge[1] = %+v", out.Edges[1])
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	g := testGraph(t)
	a, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(a) != string(b) {
		t.Error("repeated Marshal() produced different bytes")
	}

	var decoded Graph
	if err := json.Unmarshal(a, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != 3 {
		t.Errorf("decoded node count = %d, want 3", len(decoded.Nodes))
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteFile(testGraph(t), path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded Graph
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if len(decoded.Edges) != 2 {
		t.Errorf("decoded edge count = %d, want 2", len(decoded.Edges))
	}
}
