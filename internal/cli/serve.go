package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/probkit/probkit/internal/web"
	"github.com/probkit/probkit/pkg/trace"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	traceFile string // optional JSONL trace file served alongside the model
}

// serveCommand creates the serve command for the inspection API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [model]",
		Short: "Serve the read-only inspection API",
		Long: `Serve the model's dependency graph, variable values, and recorded trace
series over HTTP. The API is read-only; run 'sample' first to record a
trace worth inspecting.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: ModelNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "disasters"
			if len(args) == 1 {
				name = args[0]
			}
			return c.runServe(cmd.Context(), name, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.traceFile, "trace-file", "", "JSONL trace file to serve")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, name string, opts *serveOpts) error {
	bm, err := BuildModel(name)
	if err != nil {
		return err
	}

	var store trace.Store
	if opts.traceFile != "" {
		if store, err = trace.NewFileStore(opts.traceFile); err != nil {
			return err
		}
		defer store.Close()
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           web.NewServer(bm.Model, store, c.Logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving inspection API", "addr", opts.addr, "model", name)
		errCh <- srv.ListenAndServe()
	}()

	printInfo("inspection API on %s", opts.addr)
	printDetail("GET /api/graph")
	printDetail("GET /api/variables")
	printDetail("GET /api/trace/{name}/summary")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
