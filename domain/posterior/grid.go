package posterior

import (
	"gwsiren/domain/core"
)

// H0Grid is an ordered sequence of candidate H0 values with fixed bounds and
// resolution. Built once per analysis run and shared read-only across all
// events in a batch.
type H0Grid struct {
	Values []float64
}

// NewH0Grid builds a uniform grid of n points on [min, max].
func NewH0Grid(min, max float64, n int) (H0Grid, error) {
	if min <= 0 {
		return H0Grid{}, core.NewValidationError("H0 grid min", "must be positive")
	}
	if max <= min {
		return H0Grid{}, core.NewValidationError("H0 grid max", "must exceed min")
	}
	if n < 2 {
		return H0Grid{}, core.NewValidationError("H0 grid resolution", "needs at least 2 points")
	}
	values := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range values {
		values[i] = min + float64(i)*step
	}
	return H0Grid{Values: values}, nil
}

// Len returns the number of grid points.
func (g H0Grid) Len() int { return len(g.Values) }

// Min returns the lower bound.
func (g H0Grid) Min() float64 { return g.Values[0] }

// Max returns the upper bound.
func (g H0Grid) Max() float64 { return g.Values[len(g.Values)-1] }

// Equal reports whether two grids share bounds and resolution. Posteriors
// may only be combined across equal grids.
func (g H0Grid) Equal(other H0Grid) bool {
	if len(g.Values) != len(other.Values) {
		return false
	}
	for i, v := range g.Values {
		if v != other.Values[i] {
			return false
		}
	}
	return true
}
