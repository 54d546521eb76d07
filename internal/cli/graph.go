package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/probkit/probkit/pkg/graphio"
	"github.com/probkit/probkit/pkg/render/dot"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file path; stdout when empty
	format   string // "json", "dot", or "svg"
	detailed bool   // include variable values in DOT labels
}

// graphCommand creates the graph command for exporting dependency graphs.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:       "graph [model]",
		Short:     "Export a model's dependency graph",
		Long:      `Export the dependency graph of a bundled model as JSON, Graphviz DOT, or rendered SVG.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: ModelNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "disasters"
			if len(args) == 1 {
				name = args[0]
			}
			return c.runGraph(name, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, dot, svg (default from extension, else json)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include variable values in DOT labels")

	return cmd
}

func (c *CLI) runGraph(name string, opts *graphOpts) error {
	bm, err := BuildModel(name)
	if err != nil {
		return err
	}
	g := bm.Model.Graph()

	format := opts.format
	if format == "" {
		format = formatFromExt(opts.output)
	}

	var data []byte
	switch format {
	case "json":
		if data, err = graphio.Marshal(g); err != nil {
			return err
		}
	case "dot":
		data = []byte(dot.ToDOT(g, dot.Options{Detailed: opts.detailed}))
	case "svg":
		if data, err = dot.RenderSVG(dot.ToDOT(g, dot.Options{Detailed: opts.detailed})); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (json, dot, svg)", format)
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("exported %s graph", name)
	printFile(opts.output)
	return nil
}

// formatFromExt infers the output format from a file extension.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return "dot"
	case ".svg":
		return "svg"
	default:
		return "json"
	}
}
