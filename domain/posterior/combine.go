package posterior

import (
	"math"

	"gwsiren/domain/core"
)

// Combine multiplies normalized per-event densities pointwise across a
// shared grid and renormalizes once. Accumulation happens in log space:
// products of thousands of densities below 1 underflow in linear space long
// before the combination stops being informative. Events are conditionally
// independent given H0 by construction, so the product is the joint
// population likelihood up to the single final normalization.
//
// Returns ErrGridMismatch if the posteriors disagree on the grid and
// ErrNormalizationUnderflow if every grid point underflows even in log
// space (the combination is then meaningless and must not be silently
// returned as zero).
func Combine(posteriors []H0Posterior) (H0Posterior, error) {
	if len(posteriors) == 0 {
		return H0Posterior{}, core.ErrEmptyGrid
	}
	grid := posteriors[0].Grid
	for _, p := range posteriors[1:] {
		if !grid.Equal(p.Grid) {
			return H0Posterior{}, core.ErrGridMismatch
		}
	}

	logSum := make([]float64, grid.Len())
	for _, p := range posteriors {
		for i, d := range p.Density {
			if d <= 0 {
				logSum[i] = math.Inf(-1)
			} else if !math.IsInf(logSum[i], -1) {
				logSum[i] += math.Log(d)
			}
		}
	}

	maxLog := math.Inf(-1)
	for _, l := range logSum {
		if l > maxLog {
			maxLog = l
		}
	}
	if math.IsInf(maxLog, -1) {
		return H0Posterior{}, core.ErrNormalizationUnderflow
	}

	unnorm := make([]float64, grid.Len())
	for i, l := range logSum {
		unnorm[i] = math.Exp(l - maxLog)
	}
	combined, err := New(grid, unnorm)
	if err != nil {
		// The max-shifted row peaked at exactly 1, so a failure here means
		// the grid spacing itself is degenerate.
		return H0Posterior{}, core.ErrNormalizationUnderflow
	}
	return combined, nil
}

// RunningCombine returns the combined posterior after each successive event:
// element k is the combination of posteriors[0..k]. Used by the convergence
// diagnostic, which tracks the shrinking credible width as events accumulate.
func RunningCombine(posteriors []H0Posterior) ([]H0Posterior, error) {
	if len(posteriors) == 0 {
		return nil, core.ErrEmptyGrid
	}
	grid := posteriors[0].Grid
	out := make([]H0Posterior, 0, len(posteriors))
	logSum := make([]float64, grid.Len())

	for _, p := range posteriors {
		if !grid.Equal(p.Grid) {
			return nil, core.ErrGridMismatch
		}
		for i, d := range p.Density {
			if d <= 0 {
				logSum[i] = math.Inf(-1)
			} else if !math.IsInf(logSum[i], -1) {
				logSum[i] += math.Log(d)
			}
		}
		maxLog := math.Inf(-1)
		for _, l := range logSum {
			if l > maxLog {
				maxLog = l
			}
		}
		if math.IsInf(maxLog, -1) {
			return nil, core.ErrNormalizationUnderflow
		}
		unnorm := make([]float64, grid.Len())
		for i, l := range logSum {
			unnorm[i] = math.Exp(l - maxLog)
		}
		combined, err := New(grid, unnorm)
		if err != nil {
			return nil, core.ErrNormalizationUnderflow
		}
		out = append(out, combined)
	}
	return out, nil
}
