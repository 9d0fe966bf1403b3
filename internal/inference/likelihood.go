package inference

import (
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"gwsiren/domain/catalog"
	"gwsiren/domain/cosmology"
	"gwsiren/domain/gwevent"
	"gwsiren/domain/posterior"
	"gwsiren/domain/selection"
	"gwsiren/ports"
)

// windowSigmas sets how far the galaxy search window extends around the
// observed distance, in units of the observed-distance uncertainty.
const windowSigmas = 5.0

// LikelihoodConfig tunes the marginal-likelihood construction.
type LikelihoodConfig struct {
	Policy Policy
	// OmitMissing drops the uncatalogued-mass component, reproducing the
	// biased completeness treatment.
	OmitMissing bool
}

// LikelihoodEngine computes the per-event marginal likelihood over catalog
// galaxies: for each candidate H0, a weighted sum of the measurement-noise
// density at each consistent galaxy's predicted distance, divided by the
// policy's normalization term. Shared read-only across workers; the beta
// cache is the only guarded state.
type LikelihoodEngine struct {
	pop   ports.HostPopulation
	sel   selection.Function
	scale *cosmology.DistanceScale
	cfg   LikelihoodConfig

	mu       sync.Mutex
	betaGrid posterior.H0Grid
	betas    []float64
}

// NewLikelihoodEngine builds an engine over immutable shared inputs.
func NewLikelihoodEngine(pop ports.HostPopulation, sel selection.Function, scale *cosmology.DistanceScale, cfg LikelihoodConfig) *LikelihoodEngine {
	return &LikelihoodEngine{pop: pop, sel: sel, scale: scale, cfg: cfg}
}

// Evaluate returns the unnormalized likelihood row for one event across the
// grid. An event with no consistent galaxies yields an all-zero row; the
// posterior step decides whether that is degenerate.
func (e *LikelihoodEngine) Evaluate(ev gwevent.Event, grid posterior.H0Grid) []float64 {
	neighbors := e.neighbors(ev, grid)
	row := make([]float64, grid.Len())
	if len(neighbors) == 0 {
		return row
	}

	var betas []float64
	if e.cfg.Policy != PolicyNoSelection {
		betas = e.betasFor(grid)
	}

	for j, h0 := range grid.Values {
		num := 0.0
		for _, m := range neighbors {
			mu := e.scale.LuminosityDistance(m.Galaxy.Z, h0)
			sigma := ev.SigmaFrac * mu
			if sigma <= 0 {
				continue
			}
			num += m.Weight * distuv.Normal{Mu: mu, Sigma: sigma}.Prob(ev.ObservedDistance)
		}
		if betas != nil {
			if betas[j] <= 0 {
				row[j] = 0
				continue
			}
			num /= betas[j]
		}
		row[j] = num
	}
	return row
}

// neighbors resolves the event's galaxy subset once per event: members of
// the population consistent with the observed sky position and with the
// distance window anywhere on the grid.
func (e *LikelihoodEngine) neighbors(ev gwevent.Event, grid posterior.H0Grid) []catalog.Weighted {
	sigmaObs := ev.SigmaFrac * ev.ObservedDistance
	dMin := ev.ObservedDistance - windowSigmas*sigmaObs
	if dMin < 0 {
		dMin = 0
	}
	dMax := ev.ObservedDistance + windowSigmas*sigmaObs
	window := catalog.Window{
		ZMin: e.scale.RedshiftAt(dMin, grid.Min()),
		ZMax: e.scale.RedshiftAt(dMax, grid.Max()),
	}

	members := e.pop.GalaxiesNear(ev.Localization.Center, ev.Localization.Radius, window)
	if e.cfg.OmitMissing {
		kept := members[:0:0]
		for _, m := range members {
			if !m.Missing {
				kept = append(kept, m)
			}
		}
		members = kept
	}
	if e.cfg.Policy == PolicyDoubleCount {
		members = renormalize(members)
	}
	return members
}

// renormalize rescales weights to sum to 1 over the subset. This is the
// double-counting treatment: each event behaves as if its neighborhood were
// the whole population.
func renormalize(members []catalog.Weighted) []catalog.Weighted {
	total := 0.0
	for _, m := range members {
		total += m.Weight
	}
	if total <= 0 {
		return members
	}
	out := make([]catalog.Weighted, len(members))
	for i, m := range members {
		m.Weight /= total
		out[i] = m
	}
	return out
}

// betasFor returns the expected detection fraction at every grid point,
// computed once per grid and reused across all events in the batch.
func (e *LikelihoodEngine) betasFor(grid posterior.H0Grid) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.betas != nil && e.betaGrid.Equal(grid) {
		return e.betas
	}
	betas := make([]float64, grid.Len())
	for j, h0 := range grid.Values {
		betas[j] = selection.ExpectedDetectionFraction(e.sel, e.pop, e.scale, h0)
	}
	e.betaGrid = grid
	e.betas = betas
	return betas
}
