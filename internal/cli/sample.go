package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/probkit/probkit/pkg/sampler"
	"github.com/probkit/probkit/pkg/trace"
)

// sampleOpts holds the command-line flags for the sample command.
type sampleOpts struct {
	config     string  // optional TOML config path
	iterations int     // chain length override
	burn       int     // burn-in override
	thin       int     // thinning override
	seed       int64   // RNG seed override
	scale      float64 // proposal scale override
	backend    string  // trace backend override
	output     string  // trace file path for the file backend
	tui        bool    // show the live progress TUI
}

// sampleCommand creates the sample command for running a Metropolis chain.
func (c *CLI) sampleCommand() *cobra.Command {
	var opts sampleOpts

	cmd := &cobra.Command{
		Use:   "sample [model]",
		Short: "Run a Metropolis chain over a bundled model",
		Long: `Run a random-walk Metropolis chain over one of the bundled models and
record the chain into the configured trace store. Flags override the
config file; the config file overrides the defaults.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: ModelNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "disasters"
			if len(args) == 1 {
				name = args[0]
			}
			return c.runSample(cmd.Context(), name, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "TOML run configuration file")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 0, "chain length (overrides config)")
	cmd.Flags().IntVar(&opts.burn, "burn", -1, "burn-in iterations (overrides config)")
	cmd.Flags().IntVar(&opts.thin, "thin", 0, "keep every thin-th state (overrides config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", -1, "RNG seed (overrides config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "proposal scale (overrides config)")
	cmd.Flags().StringVar(&opts.backend, "trace", "", "trace backend: memory, none, file, redis, mongo")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "trace file path (file backend)")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live progress display")

	return cmd
}

func (c *CLI) runSample(ctx context.Context, name string, opts *sampleOpts) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	bm, err := BuildModel(name)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Trace)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx = withLogger(ctx, c.Logger)

	runOpts := sampler.Options{
		Iterations: cfg.Run.Iterations,
		Burn:       cfg.Run.Burn,
		Thin:       cfg.Run.Thin,
		Seed:       cfg.Run.Seed,
		Scale:      cfg.Run.Scale,
		Proposals:  bm.Proposals,
		Logger:     c.Logger,
	}

	c.Logger.Debug("sampling", "model", name, "backend", cfg.Trace.Backend)

	var res sampler.Result
	if opts.tui {
		res, err = c.runSampleTUI(ctx, name, bm, store, runOpts)
	} else {
		res, err = c.runSampleSpinner(ctx, name, bm, store, runOpts)
	}
	if err != nil {
		return err
	}

	printSuccess("sampled %s: %d iterations, acceptance %.3f",
		name, res.Iterations, res.Acceptance())
	if opts.output != "" {
		printFile(opts.output)
	}
	return c.printSummaries(ctx, store)
}

// resolveConfig layers flag overrides over the config file over the defaults.
func resolveConfig(opts *sampleOpts) (Config, error) {
	cfg := DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = LoadConfig(opts.config); err != nil {
			return Config{}, err
		}
	}
	if opts.iterations > 0 {
		cfg.Run.Iterations = opts.iterations
	}
	if opts.burn >= 0 {
		cfg.Run.Burn = opts.burn
	}
	if opts.thin > 0 {
		cfg.Run.Thin = opts.thin
	}
	if opts.seed >= 0 {
		cfg.Run.Seed = opts.seed
	}
	if opts.scale > 0 {
		cfg.Run.Scale = opts.scale
	}
	if opts.backend != "" {
		cfg.Trace.Backend = opts.backend
	}
	if opts.output != "" {
		cfg.Trace.Backend = "file"
		cfg.Trace.Path = opts.output
	}
	return cfg, nil
}

// runSampleSpinner runs the chain behind a spinner.
func (c *CLI) runSampleSpinner(ctx context.Context, name string, bm *BuiltinModel, store trace.Store, runOpts sampler.Options) (sampler.Result, error) {
	sp := newSpinnerWithContext(ctx, fmt.Sprintf("sampling %s (%d iterations)", name, runOpts.Iterations))
	sp.Start()

	p := newProgress(c.Logger)
	res, err := sampler.New(bm.Model, store).Run(ctx, runOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			sp.Stop()
			return res, err
		}
		sp.StopWithError(fmt.Sprintf("sampling failed: %v", err))
		return res, err
	}
	sp.Stop()
	p.done(fmt.Sprintf("Tallied %d states", res.Tallied))
	return res, nil
}

// runSampleTUI runs the chain behind a live bubbletea progress display.
func (c *CLI) runSampleTUI(ctx context.Context, name string, bm *BuiltinModel, store trace.Store, runOpts sampler.Options) (sampler.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(NewChainProgressModel(
		fmt.Sprintf("sampling %s", name), runOpts.Iterations, cancel,
	))

	runOpts.Progress = func(iteration int) {
		prog.Send(chainProgressMsg{Iteration: iteration})
	}

	var res sampler.Result
	var runErr error
	go func() {
		res, runErr = sampler.New(bm.Model, store).Run(runCtx, runOpts)
		prog.Send(chainDoneMsg{Err: runErr})
	}()

	if _, err := prog.Run(); err != nil {
		cancel()
		return res, fmt.Errorf("progress display: %w", err)
	}
	return res, runErr
}

// printSummaries renders per-series summary statistics.
func (c *CLI) printSummaries(ctx context.Context, store trace.Store) error {
	sums, err := trace.SummarizeAll(ctx, store)
	if err != nil {
		if errors.Is(err, trace.ErrUnknownSeries) {
			return nil
		}
		return err
	}
	if len(sums) == 0 {
		return nil
	}
	loggerFromContext(ctx).Debug("summarizing", "series", len(sums))

	fmt.Println()
	fmt.Println(StyleTitle.Render("posterior summary"))
	header := fmt.Sprintf("%-14s %8s %10s %10s %10s %10s", "series", "n", "mean", "sd", "2.5%", "97.5%")
	fmt.Println(StyleDim.Render(header))
	for _, s := range sums {
		row := fmt.Sprintf("%-14s %8d %10.4f %10.4f %10.4f %10.4f",
			s.Name, s.N, s.Mean, s.StdDev, s.Q025, s.Q975)
		fmt.Println(strings.TrimRight(row, " "))
	}
	return nil
}
