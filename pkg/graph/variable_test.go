package graph

import (
	"errors"
	"fmt"
	"testing"
)

// sumFn adds all float64 arguments.
func sumFn(args map[string]any) (any, error) {
	total := 0.0
	for _, v := range args {
		total += v.(float64)
	}
	return total, nil
}

func TestStochasticSetValue(t *testing.T) {
	s := NewStochastic("x", 1.0)

	if err := s.SetValue(2.0); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	v, _ := s.Value()
	if v != 2.0 {
		t.Errorf("value = %v, want 2.0", v)
	}
	if s.LastValue() != 1.0 {
		t.Errorf("last value = %v, want 1.0", s.LastValue())
	}

	s.Revert()
	v, _ = s.Value()
	if v != 1.0 {
		t.Errorf("value after revert = %v, want 1.0", v)
	}
}

func TestObservedRejectsAssignment(t *testing.T) {
	s := NewStochastic("y", 5.0, Observed())

	err := s.SetValue(6.0)
	if !errors.Is(err, ErrObserved) {
		t.Fatalf("SetValue error = %v, want ErrObserved", err)
	}
	v, _ := s.Value()
	if v != 5.0 {
		t.Errorf("value = %v, want 5.0 (unchanged)", v)
	}
}

func TestDeterministicRecompute(t *testing.T) {
	a := NewStochastic("a", 1.0)
	b := NewStochastic("b", 2.0)
	d := NewDeterministic("sum", Parents{"a": a, "b": b}, sumFn)

	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 3.0 {
		t.Errorf("value = %v, want 3.0", v)
	}
	if !d.Fresh() {
		t.Error("expected fresh after pull")
	}

	// Mutating a parent marks the child stale; the next pull recomputes.
	if err := a.SetValue(10.0); err != nil {
		t.Fatal(err)
	}
	if d.Fresh() {
		t.Error("expected stale after parent mutation")
	}
	v, err = d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 12.0 {
		t.Errorf("value = %v, want 12.0", v)
	}
}

func TestStalenessPropagatesTransitively(t *testing.T) {
	a := NewStochastic("a", 1.0)
	double := NewDeterministic("double", Parents{"x": a}, func(args map[string]any) (any, error) {
		return args["x"].(float64) * 2, nil
	})
	quad := NewDeterministic("quad", Parents{"x": double}, func(args map[string]any) (any, error) {
		return args["x"].(float64) * 2, nil
	})

	v, err := quad.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != 4.0 {
		t.Errorf("quad = %v, want 4.0", v)
	}

	if err := a.SetValue(3.0); err != nil {
		t.Fatal(err)
	}
	if double.Fresh() || quad.Fresh() {
		t.Error("expected both descendants stale")
	}
	v, err = quad.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != 12.0 {
		t.Errorf("quad = %v, want 12.0", v)
	}
}

func TestComputationErrorKeepsCache(t *testing.T) {
	a := NewStochastic("a", 1.0)
	fail := false
	d := NewDeterministic("d", Parents{"x": a}, func(args map[string]any) (any, error) {
		if fail {
			return nil, fmt.Errorf("boom")
		}
		return args["x"], nil
	})

	if _, err := d.Value(); err != nil {
		t.Fatal(err)
	}

	fail = true
	if err := a.SetValue(2.0); err != nil {
		t.Fatal(err)
	}
	_, err := d.Value()
	var cerr *ComputationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *ComputationError", err)
	}
	if cerr.Variable != "d" {
		t.Errorf("failing variable = %q, want %q", cerr.Variable, "d")
	}

	// The previous cached value must survive the failure.
	fail = false
	a.Revert()
	v, err := d.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1.0 {
		t.Errorf("value = %v, want 1.0", v)
	}
}

func TestLogP(t *testing.T) {
	mu := NewStochastic("mu", 3.0)
	x := NewStochastic("x", 2.0,
		WithParents(Parents{"mu": mu, "tau": 1.0}),
		WithLogProb(func(value any, args map[string]any) (float64, error) {
			diff := value.(float64) - args["mu"].(float64)
			return -diff * diff / 2, nil
		}),
	)

	lp, err := x.LogP()
	if err != nil {
		t.Fatalf("LogP: %v", err)
	}
	if lp != -0.5 {
		t.Errorf("logp = %v, want -0.5", lp)
	}

	bare := NewStochastic("bare", 0.0)
	if _, err := bare.LogP(); !errors.Is(err, ErrNoLogProb) {
		t.Errorf("error = %v, want ErrNoLogProb", err)
	}
}

func TestChildRegistration(t *testing.T) {
	a := NewStochastic("a", 1.0)
	d := NewDeterministic("d", Parents{"x": a}, sumFn)

	children := a.Children()
	if len(children) != 1 || children[0].Name() != "d" {
		t.Fatalf("children = %v, want [d]", children)
	}

	// Rebinding the only role referencing a removes the back-reference.
	b := NewStochastic("b", 2.0)
	d.SetParent("x", b)
	if len(a.Children()) != 0 {
		t.Errorf("a still has children after rebind: %v", a.Children())
	}
	if len(b.Children()) != 1 {
		t.Errorf("b has no child after rebind")
	}
}

func TestSetParentKeepsSharedReference(t *testing.T) {
	a := NewStochastic("a", 1.0)
	d := NewDeterministic("d", Parents{"x": a, "y": a}, sumFn)

	b := NewStochastic("b", 2.0)
	d.SetParent("x", b)

	// a is still bound via role y, so the back-reference must survive.
	if len(a.Children()) != 1 {
		t.Errorf("a lost its child despite remaining bound via y")
	}
}
