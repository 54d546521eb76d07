// Package dist provides log-density functions and random draws for the
// handful of distributions the bundled models use. Log densities follow the
// precision (tau) parameterization for the normal, matching the rest of the
// model layer.
package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrSupport is returned when a value or parameter lies outside a
// distribution's support.
var ErrSupport = errors.New("value outside distribution support")

// UniformLogP returns the log density of x under Uniform(lower, upper).
func UniformLogP(x, lower, upper float64) (float64, error) {
	if upper <= lower {
		return 0, fmt.Errorf("uniform bounds [%v, %v]: %w", lower, upper, ErrSupport)
	}
	if x < lower || x > upper {
		return 0, fmt.Errorf("uniform value %v outside [%v, %v]: %w", x, lower, upper, ErrSupport)
	}
	return -math.Log(upper - lower), nil
}

// UniformDraw samples from Uniform(lower, upper).
func UniformDraw(rng *rand.Rand, lower, upper float64) float64 {
	return lower + rng.Float64()*(upper-lower)
}

// NormalLogP returns the log density of x under Normal(mu, tau), with tau the
// precision (inverse variance).
func NormalLogP(x, mu, tau float64) (float64, error) {
	if tau <= 0 {
		return 0, fmt.Errorf("normal precision %v: %w", tau, ErrSupport)
	}
	d := x - mu
	return 0.5*math.Log(tau) - 0.5*math.Log(2*math.Pi) - 0.5*tau*d*d, nil
}

// NormalDraw samples from Normal(mu, tau), with tau the precision.
func NormalDraw(rng *rand.Rand, mu, tau float64) float64 {
	return mu + rng.NormFloat64()/math.Sqrt(tau)
}

// ExponentialLogP returns the log density of x under Exponential(rate).
func ExponentialLogP(x, rate float64) (float64, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("exponential rate %v: %w", rate, ErrSupport)
	}
	if x < 0 {
		return 0, fmt.Errorf("exponential value %v: %w", x, ErrSupport)
	}
	return math.Log(rate) - rate*x, nil
}

// ExponentialDraw samples from Exponential(rate).
func ExponentialDraw(rng *rand.Rand, rate float64) float64 {
	return rng.ExpFloat64() / rate
}

// PoissonLogP returns the log mass of k under Poisson(mu).
func PoissonLogP(k float64, mu float64) (float64, error) {
	if mu <= 0 {
		return 0, fmt.Errorf("poisson mean %v: %w", mu, ErrSupport)
	}
	if k < 0 || k != math.Trunc(k) {
		return 0, fmt.Errorf("poisson count %v: %w", k, ErrSupport)
	}
	lg, _ := math.Lgamma(k + 1)
	return k*math.Log(mu) - mu - lg, nil
}

// PoissonDraw samples from Poisson(mu) by inversion from the CDF. Adequate
// for the moderate means the bundled models use.
func PoissonDraw(rng *rand.Rand, mu float64) float64 {
	u := rng.Float64()
	p := math.Exp(-mu)
	cdf := p
	k := 0.0
	for u > cdf && k < 1e6 {
		k++
		p *= mu / k
		cdf += p
	}
	return k
}

// DiscreteUniformLogP returns the log mass of k under a uniform distribution
// over the integers lower..upper inclusive.
func DiscreteUniformLogP(k float64, lower, upper int) (float64, error) {
	if upper < lower {
		return 0, fmt.Errorf("discrete uniform bounds [%d, %d]: %w", lower, upper, ErrSupport)
	}
	if k != math.Trunc(k) || k < float64(lower) || k > float64(upper) {
		return 0, fmt.Errorf("discrete uniform value %v outside [%d, %d]: %w", k, lower, upper, ErrSupport)
	}
	return -math.Log(float64(upper - lower + 1)), nil
}

// DiscreteUniformDraw samples an integer uniformly from lower..upper inclusive.
func DiscreteUniformDraw(rng *rand.Rand, lower, upper int) float64 {
	return float64(lower + rng.Intn(upper-lower+1))
}
