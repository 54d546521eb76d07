// Package dot renders model dependency graphs as Graphviz DOT and SVG.
// Stochastic variables draw as ellipses (filled when observed), deterministic
// variables as boxes; edges carry the parent's role as a label.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/probkit/probkit/pkg/graph"
	"github.com/probkit/probkit/pkg/graphio"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes current variable values in node labels.
	Detailed bool
	// RankDir sets the layout direction. Defaults to "TB".
	RankDir string
}

// ToDOT converts a dependency graph to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	if opts.RankDir == "" {
		opts.RankDir = "TB"
	}

	ser := graphio.FromGraph(g)

	var buf bytes.Buffer
	buf.WriteString("digraph model {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.15,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range ser.Nodes {
		attrs := nodeAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range ser.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Parent, e.Child, e.Role)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graphio.Node, detailed bool) []string {
	label := n.Name
	if detailed && n.Value != nil {
		label = fmt.Sprintf("%s\n%v", n.Name, n.Value)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	switch {
	case n.Kind == graphio.KindDeterministic:
		attrs = append(attrs, "shape=box", "style=rounded")
	case n.Observed:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgrey")
	default:
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
