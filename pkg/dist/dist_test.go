package dist

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestUniformLogP(t *testing.T) {
	tests := []struct {
		name         string
		x, lo, hi    float64
		want         float64
		wantSupport  bool
	}{
		{name: "Inside", x: 0.5, lo: 0, hi: 2, want: -math.Log(2)},
		{name: "AtBound", x: 2, lo: 0, hi: 2, want: -math.Log(2)},
		{name: "Below", x: -1, lo: 0, hi: 2, wantSupport: true},
		{name: "Above", x: 3, lo: 0, hi: 2, wantSupport: true},
		{name: "EmptyInterval", x: 0, lo: 1, hi: 1, wantSupport: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UniformLogP(tt.x, tt.lo, tt.hi)
			if tt.wantSupport {
				if !errors.Is(err, ErrSupport) {
					t.Fatalf("UniformLogP() error = %v, want ErrSupport", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UniformLogP() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("UniformLogP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalLogP(t *testing.T) {
	// Standard normal at x=0: -0.5*log(2*pi).
	got, err := NormalLogP(0, 0, 1)
	if err != nil {
		t.Fatalf("NormalLogP() error = %v", err)
	}
	want := -0.5 * math.Log(2*math.Pi)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("NormalLogP(0,0,1) = %v, want %v", got, want)
	}
	if _, err := NormalLogP(0, 0, -1); !errors.Is(err, ErrSupport) {
		t.Errorf("NormalLogP(tau<0) error = %v, want ErrSupport", err)
	}
}

func TestExponentialLogP(t *testing.T) {
	got, err := ExponentialLogP(2, 3)
	if err != nil {
		t.Fatalf("ExponentialLogP() error = %v", err)
	}
	want := math.Log(3) - 6
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ExponentialLogP(2,3) = %v, want %v", got, want)
	}
	if _, err := ExponentialLogP(-1, 3); !errors.Is(err, ErrSupport) {
		t.Errorf("ExponentialLogP(x<0) error = %v, want ErrSupport", err)
	}
}

func TestPoissonLogP(t *testing.T) {
	// P(k=2 | mu=3) = 9 e^-3 / 2.
	got, err := PoissonLogP(2, 3)
	if err != nil {
		t.Fatalf("PoissonLogP() error = %v", err)
	}
	want := math.Log(9.0 / 2.0 * math.Exp(-3))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PoissonLogP(2,3) = %v, want %v", got, want)
	}
	if _, err := PoissonLogP(1.5, 3); !errors.Is(err, ErrSupport) {
		t.Errorf("PoissonLogP(non-integer) error = %v, want ErrSupport", err)
	}
	if _, err := PoissonLogP(2, 0); !errors.Is(err, ErrSupport) {
		t.Errorf("PoissonLogP(mu=0) error = %v, want ErrSupport", err)
	}
}

func TestDiscreteUniformLogP(t *testing.T) {
	got, err := DiscreteUniformLogP(3, 0, 9)
	if err != nil {
		t.Fatalf("DiscreteUniformLogP() error = %v", err)
	}
	if want := -math.Log(10); math.Abs(got-want) > 1e-12 {
		t.Errorf("DiscreteUniformLogP(3,0,9) = %v, want %v", got, want)
	}
	if _, err := DiscreteUniformLogP(10, 0, 9); !errors.Is(err, ErrSupport) {
		t.Errorf("DiscreteUniformLogP(out of range) error = %v, want ErrSupport", err)
	}
}

func TestDrawsStayInSupport(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if v := UniformDraw(rng, -2, 5); v < -2 || v > 5 {
			t.Fatalf("UniformDraw() = %v outside [-2, 5]", v)
		}
		if v := ExponentialDraw(rng, 2); v < 0 {
			t.Fatalf("ExponentialDraw() = %v, want non-negative", v)
		}
		if v := PoissonDraw(rng, 4); v < 0 || v != math.Trunc(v) {
			t.Fatalf("PoissonDraw() = %v, want non-negative integer", v)
		}
		if v := DiscreteUniformDraw(rng, 3, 7); v < 3 || v > 7 || v != math.Trunc(v) {
			t.Fatalf("DiscreteUniformDraw() = %v outside 3..7", v)
		}
	}
}

func TestDrawsDeterministicWithSeed(t *testing.T) {
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		if x, y := NormalDraw(a, 0, 1), NormalDraw(b, 0, 1); x != y {
			t.Fatalf("seeded draws diverged: %v != %v", x, y)
		}
	}
}
