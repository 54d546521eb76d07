package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probkit/probkit/pkg/trace"
)

// traceCommand creates the trace command for summarizing recorded trace files.
func (c *CLI) traceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <file> [series]",
		Short: "Summarize a recorded trace file",
		Long: `Read a JSONL trace file written by 'sample --trace file' and print summary
statistics, either for every series or for one named series.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trace.NewFileStore(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if len(args) == 2 {
				sum, err := trace.Summarize(ctx, store, args[1])
				if err != nil {
					return err
				}
				printKeyValue("series", sum.Name)
				printKeyValue("n", fmt.Sprintf("%d", sum.N))
				printKeyValue("mean", fmt.Sprintf("%.4f", sum.Mean))
				printKeyValue("median", fmt.Sprintf("%.4f", sum.Median))
				printKeyValue("sd", fmt.Sprintf("%.4f", sum.StdDev))
				printKeyValue("min", fmt.Sprintf("%.4f", sum.Min))
				printKeyValue("max", fmt.Sprintf("%.4f", sum.Max))
				printKeyValue("2.5%", fmt.Sprintf("%.4f", sum.Q025))
				printKeyValue("97.5%", fmt.Sprintf("%.4f", sum.Q975))
				return nil
			}
			return c.printSummaries(ctx, store)
		},
	}
	return cmd
}
