package inference

import (
	"gwsiren/domain/gwevent"
	"gwsiren/domain/posterior"
)

// Prior is a (possibly unnormalized) prior density over H0. The grid
// normalization absorbs any constant factor.
type Prior func(h0 float64) float64

// UniformPrior is the default: flat over the grid.
func UniformPrior(float64) float64 { return 1 }

// PosteriorEngine turns per-event likelihood rows into normalized
// H0 posteriors.
type PosteriorEngine struct {
	like  *LikelihoodEngine
	prior Prior
}

// NewPosteriorEngine builds a posterior engine. A nil prior means uniform.
func NewPosteriorEngine(like *LikelihoodEngine, prior Prior) *PosteriorEngine {
	if prior == nil {
		prior = UniformPrior
	}
	return &PosteriorEngine{like: like, prior: prior}
}

// Compute evaluates the likelihood over the grid, applies the prior, and
// normalizes by trapezoidal integration. An all-zero row surfaces as
// ErrDegeneratePosterior from the posterior constructor; the caller reports
// and excludes the event rather than combining a silent zero.
func (p *PosteriorEngine) Compute(ev gwevent.Event, grid posterior.H0Grid) (posterior.H0Posterior, error) {
	row := p.like.Evaluate(ev, grid)
	for i, h0 := range grid.Values {
		row[i] *= p.prior(h0)
	}
	return posterior.New(grid, row)
}
