package cli

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"sample", "graph", "trace", "serve", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	opts := &sampleOpts{
		iterations: 100,
		burn:       10,
		thin:       2,
		seed:       5,
		scale:      0.3,
		backend:    "none",
	}
	cfg, err := resolveConfig(opts)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Run.Iterations != 100 || cfg.Run.Burn != 10 || cfg.Run.Thin != 2 {
		t.Errorf("run config = %+v", cfg.Run)
	}
	if cfg.Run.Seed != 5 || cfg.Run.Scale != 0.3 {
		t.Errorf("run config = %+v", cfg.Run)
	}
	if cfg.Trace.Backend != "none" {
		t.Errorf("trace backend = %q, want none", cfg.Trace.Backend)
	}
}

func TestResolveConfigOutputImpliesFileBackend(t *testing.T) {
	cfg, err := resolveConfig(&sampleOpts{burn: -1, output: "chain.jsonl"})
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Trace.Backend != "file" || cfg.Trace.Path != "chain.jsonl" {
		t.Errorf("trace config = %+v, want file backend with path", cfg.Trace)
	}
}
