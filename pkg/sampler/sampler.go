// Package sampler runs random-walk Metropolis chains over a model, tallying
// accepted states into a trace store.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/probkit/probkit/pkg/graph"
	"github.com/probkit/probkit/pkg/model"
	"github.com/probkit/probkit/pkg/observability"
	"github.com/probkit/probkit/pkg/trace"
)

// ErrNotSampleable is returned when a stochastic variable's value is not a
// float64 and no custom proposal was registered for it.
var ErrNotSampleable = errors.New("variable value is not sampleable")

// Proposal generates a candidate value from the current one.
type Proposal func(rng *rand.Rand, current any) (any, error)

// Options configures a Metropolis run.
type Options struct {
	// Iterations is the total chain length, burn-in included.
	Iterations int
	// Burn is the number of initial iterations discarded before tallying.
	Burn int
	// Thin keeps every Thin-th post-burn state. 1 keeps everything.
	Thin int
	// Seed drives the proposal RNG. Runs with equal seeds are identical.
	Seed int64
	// Scale is the standard deviation of the default Gaussian random walk.
	Scale float64
	// Proposals overrides the default random walk per variable name.
	Proposals map[string]Proposal
	// Logger receives per-run progress. Defaults to a discard logger.
	Logger *log.Logger
	// Progress, when non-nil, is called after every iteration with the
	// 1-based iteration count. Drives TUI progress displays.
	Progress func(iteration int)

	validated bool
}

// ValidateAndSetDefaults checks required fields and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", o.Iterations)
	}
	if o.Burn < 0 || o.Burn >= o.Iterations {
		return fmt.Errorf("burn %d outside [0, %d)", o.Burn, o.Iterations)
	}
	if o.Thin == 0 {
		o.Thin = 1
	}
	if o.Thin < 0 {
		return fmt.Errorf("thin must be positive, got %d", o.Thin)
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive, got %v", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result summarizes a completed run.
type Result struct {
	// Iterations actually completed.
	Iterations int
	// Tallied is the number of states recorded per series.
	Tallied int
	// Accepted counts accepted jumps across all variables and iterations.
	Accepted int
	// Proposed counts proposed jumps. Acceptance() = Accepted/Proposed.
	Proposed int
	// FinalLogP is the joint log probability of the final state.
	FinalLogP float64
	// Elapsed is the wall-clock run duration.
	Elapsed time.Duration
}

// Acceptance returns the fraction of proposed jumps that were accepted.
func (r Result) Acceptance() float64 {
	if r.Proposed == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Proposed)
}

// Metropolis runs a random-walk Metropolis chain over the model's unobserved
// stochastic variables, one variable at a time in name order. Post-burn,
// post-thin states are tallied into store: one series per unobserved
// stochastic and one per deterministic, float64 values only. Variables
// holding other types still take part in the chain but are skipped from
// tallying; each skip is reported on the run logger at debug level.
type Metropolis struct {
	model *model.Model
	store trace.Store
}

// New creates a Metropolis sampler writing to store. A nil store records
// nothing (trace.NullStore).
func New(m *model.Model, store trace.Store) *Metropolis {
	if store == nil {
		store = trace.NewNullStore()
	}
	return &Metropolis{model: m, store: store}
}

// Run executes the chain. The context is checked every iteration; a
// cancelled run returns the context error with everything tallied so far
// still in the store.
func (s *Metropolis) Run(ctx context.Context, opts Options) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, fmt.Errorf("invalid options: %w", err)
	}

	stochastics := s.model.Stochastics()
	rng := rand.New(rand.NewSource(opts.Seed))
	start := time.Now()

	observability.Sampler().OnRunStart(ctx, len(stochastics), opts.Iterations)
	opts.Logger.Info("starting chain",
		"variables", len(stochastics),
		"iterations", opts.Iterations,
		"burn", opts.Burn,
		"thin", opts.Thin)

	var res Result
	logP, err := s.model.LogP()
	if err != nil {
		return Result{}, fmt.Errorf("initial state: %w", err)
	}

	for i := 0; i < opts.Iterations; i++ {
		select {
		case <-ctx.Done():
			res.Elapsed = time.Since(start)
			observability.Sampler().OnRunComplete(ctx, res.Accepted, res.Elapsed, ctx.Err())
			return res, ctx.Err()
		default:
		}

		for _, v := range stochastics {
			logP, err = s.step(rng, &opts, v, logP, &res)
			if err != nil {
				res.Elapsed = time.Since(start)
				observability.Sampler().OnRunComplete(ctx, res.Accepted, res.Elapsed, err)
				return res, err
			}
		}

		res.Iterations = i + 1
		observability.Sampler().OnIteration(ctx, i, logP)
		if opts.Progress != nil {
			opts.Progress(i + 1)
		}

		if i >= opts.Burn && (i-opts.Burn)%opts.Thin == 0 {
			if err := s.tally(ctx, &opts, res.Tallied); err != nil {
				res.Elapsed = time.Since(start)
				observability.Sampler().OnRunComplete(ctx, res.Accepted, res.Elapsed, err)
				return res, err
			}
			res.Tallied++
		}
	}

	res.FinalLogP = logP
	res.Elapsed = time.Since(start)
	observability.Sampler().OnRunComplete(ctx, res.Accepted, res.Elapsed, nil)
	opts.Logger.Info("chain finished",
		"iterations", res.Iterations,
		"tallied", res.Tallied,
		"acceptance", fmt.Sprintf("%.3f", res.Acceptance()),
		"duration", res.Elapsed)
	return res, nil
}

// step proposes one jump for v and accepts or reverts it, returning the
// joint log probability of the resulting state.
func (s *Metropolis) step(rng *rand.Rand, opts *Options, v *graph.Stochastic, logP float64, res *Result) (float64, error) {
	candidate, err := s.propose(rng, opts, v)
	if err != nil {
		return 0, err
	}

	if err := v.SetValue(candidate); err != nil {
		return 0, fmt.Errorf("propose %q: %w", v.Name(), err)
	}
	res.Proposed++

	candLogP, err := s.model.LogP()
	if err != nil {
		// An out-of-support proposal is a rejection, not a failure.
		v.Revert()
		return logP, nil
	}

	if math.Log(rng.Float64()) < candLogP-logP {
		res.Accepted++
		return candLogP, nil
	}
	v.Revert()
	return logP, nil
}

func (s *Metropolis) propose(rng *rand.Rand, opts *Options, v *graph.Stochastic) (any, error) {
	if p, ok := opts.Proposals[v.Name()]; ok {
		return p(rng, currentValue(v))
	}
	cur, ok := currentValue(v).(float64)
	if !ok {
		return nil, fmt.Errorf("%q (%T): %w", v.Name(), currentValue(v), ErrNotSampleable)
	}
	return cur + rng.NormFloat64()*opts.Scale, nil
}

func currentValue(v *graph.Stochastic) any {
	val, _ := v.Value()
	return val
}

// tally records the current state: every unobserved stochastic and every
// deterministic whose value is a float64.
func (s *Metropolis) tally(ctx context.Context, opts *Options, iteration int) error {
	for _, v := range s.model.Stochastics() {
		val, _ := v.Value()
		f, ok := val.(float64)
		if !ok {
			opts.Logger.Debug("skipping non-numeric series",
				"variable", v.Name(), "type", fmt.Sprintf("%T", val))
			continue
		}
		if err := s.store.Tally(ctx, v.Name(), iteration, f); err != nil {
			return fmt.Errorf("tally %q: %w", v.Name(), err)
		}
	}
	for _, d := range s.model.Deterministics() {
		val, err := d.Value()
		if err != nil {
			return fmt.Errorf("tally %q: %w", d.Name(), err)
		}
		f, ok := val.(float64)
		if !ok {
			opts.Logger.Debug("skipping non-numeric series",
				"variable", d.Name(), "type", fmt.Sprintf("%T", val))
			continue
		}
		if err := s.store.Tally(ctx, d.Name(), iteration, f); err != nil {
			return fmt.Errorf("tally %q: %w", d.Name(), err)
		}
	}
	return nil
}

// RandomWalk returns a Gaussian random-walk proposal with the given standard
// deviation, for use in Options.Proposals.
func RandomWalk(scale float64) Proposal {
	return func(rng *rand.Rand, current any) (any, error) {
		cur, ok := current.(float64)
		if !ok {
			return nil, fmt.Errorf("random walk over %T: %w", current, ErrNotSampleable)
		}
		return cur + rng.NormFloat64()*scale, nil
	}
}

// IntegerWalk returns a proposal that steps a float64-encoded integer up or
// down by up to width, clamped to [lower, upper]. Suited to discrete
// parameters like changepoints.
func IntegerWalk(width, lower, upper int) Proposal {
	return func(rng *rand.Rand, current any) (any, error) {
		cur, ok := current.(float64)
		if !ok {
			return nil, fmt.Errorf("integer walk over %T: %w", current, ErrNotSampleable)
		}
		step := rng.Intn(2*width+1) - width
		next := int(cur) + step
		if next < lower {
			next = lower
		}
		if next > upper {
			next = upper
		}
		return float64(next), nil
	}
}
