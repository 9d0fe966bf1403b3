package posterior

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"gwsiren/domain/core"
)

// normTolerance is the acceptable deviation of the normalized density's
// integral from 1.
const normTolerance = 1e-6

// H0Posterior holds grid-aligned unnormalized and normalized densities for
// one event, or for a multiplicative combination of events. The normalized
// density integrates to 1 over the grid by the trapezoid rule.
type H0Posterior struct {
	Grid         H0Grid
	Unnormalized []float64
	Density      []float64
}

// New normalizes an unnormalized density row into a posterior. An all-zero
// (or non-finite) row yields ErrDegeneratePosterior rather than a division
// by zero: the caller reports and excludes the event.
func New(grid H0Grid, unnormalized []float64) (H0Posterior, error) {
	if grid.Len() < 2 {
		return H0Posterior{}, core.ErrEmptyGrid
	}
	if len(unnormalized) != grid.Len() {
		return H0Posterior{}, core.NewValidationError("density", "length does not match the grid")
	}
	clean := make([]float64, len(unnormalized))
	for i, v := range unnormalized {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		clean[i] = v
	}
	norm := integrate.Trapezoidal(grid.Values, clean)
	if norm <= 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return H0Posterior{}, core.ErrDegeneratePosterior
	}
	density := make([]float64, len(clean))
	for i, v := range clean {
		density[i] = v / norm
	}
	return H0Posterior{Grid: grid, Unnormalized: clean, Density: density}, nil
}

// FromDensity rebuilds a posterior from an already-normalized density, as
// read back from a per-event record. The density is renormalized to absorb
// serialization rounding.
func FromDensity(grid H0Grid, density []float64) (H0Posterior, error) {
	return New(grid, density)
}

// Integral returns the trapezoid integral of the normalized density. Within
// tolerance of 1 for any posterior built by New.
func (p H0Posterior) Integral() float64 {
	return integrate.Trapezoidal(p.Grid.Values, p.Density)
}

// Mode returns the grid point with the highest density.
func (p H0Posterior) Mode() float64 {
	best := 0
	for i, v := range p.Density {
		if v > p.Density[best] {
			best = i
		}
	}
	return p.Grid.Values[best]
}

// CDFAt returns the cumulative probability below h0, clamped to [0,1].
// Values off the grid clamp to the nearest bound.
func (p H0Posterior) CDFAt(h0 float64) float64 {
	xs := p.Grid.Values
	if h0 <= xs[0] {
		return 0
	}
	if h0 >= xs[len(xs)-1] {
		return 1
	}
	cum := 0.0
	for i := 1; i < len(xs); i++ {
		if xs[i] < h0 {
			cum += 0.5 * (p.Density[i] + p.Density[i-1]) * (xs[i] - xs[i-1])
			continue
		}
		// Partial trapezoid up to h0 inside [xs[i-1], xs[i]].
		frac := (h0 - xs[i-1]) / (xs[i] - xs[i-1])
		dAtH0 := p.Density[i-1] + frac*(p.Density[i]-p.Density[i-1])
		cum += 0.5 * (p.Density[i-1] + dAtH0) * (h0 - xs[i-1])
		break
	}
	if cum < 0 {
		return 0
	}
	if cum > 1 {
		return 1
	}
	return cum
}

// Quantile returns the H0 value below which probability q lies.
func (p H0Posterior) Quantile(q float64) float64 {
	xs := p.Grid.Values
	if q <= 0 {
		return xs[0]
	}
	if q >= 1 {
		return xs[len(xs)-1]
	}
	cum := 0.0
	for i := 1; i < len(xs); i++ {
		seg := 0.5 * (p.Density[i] + p.Density[i-1]) * (xs[i] - xs[i-1])
		if cum+seg < q {
			cum += seg
			continue
		}
		// Linear-in-x inversion inside the segment.
		if seg <= 0 {
			return xs[i]
		}
		frac := (q - cum) / seg
		return xs[i-1] + frac*(xs[i]-xs[i-1])
	}
	return xs[len(xs)-1]
}

// CredibleWidth returns the width of the central credible interval holding
// probability mass level (e.g. 0.68).
func (p H0Posterior) CredibleWidth(level float64) float64 {
	lo := p.Quantile(0.5 * (1 - level))
	hi := p.Quantile(0.5 * (1 + level))
	return hi - lo
}

// WellNormalized reports whether the density integrates to 1 within
// tolerance.
func (p H0Posterior) WellNormalized() bool {
	return math.Abs(p.Integral()-1) <= normTolerance
}
