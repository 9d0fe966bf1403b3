package simulate

import (
	"math/rand"

	"gwsiren/domain/core"
	"gwsiren/domain/cosmology"
	"gwsiren/domain/gwevent"
	"gwsiren/domain/selection"
	"gwsiren/ports"

	"gwsiren/domain/catalog"
)

// DefaultMaxRetries bounds the accept/reject loop. Rejection sampling against
// the detection probability has no termination guarantee for extreme
// parameter choices, so the cap turns a hang into a countable failure.
const DefaultMaxRetries = 10000

// GeneratorConfig fixes the injection parameters for a batch.
type GeneratorConfig struct {
	InjectionH0        float64 // true H0 events are generated under
	SigmaFrac          float64 // fractional distance measurement uncertainty
	LocalizationRadius float64 // sky-localization radius, radians
	MaxRetries         int
}

// Generator draws simulated detected GW events from a host population
// through a selection function. Stateless apart from its immutable inputs;
// safe to share across workers, each worker supplying its own RNG stream.
type Generator struct {
	pop   ports.HostPopulation
	sel   selection.Function
	scale *cosmology.DistanceScale
	cfg   GeneratorConfig
}

// NewGenerator validates the configuration and builds a generator.
func NewGenerator(pop ports.HostPopulation, sel selection.Function, scale *cosmology.DistanceScale, cfg GeneratorConfig) (*Generator, error) {
	if cfg.InjectionH0 <= 0 {
		return nil, core.NewValidationError("injection H0", "must be positive")
	}
	if cfg.SigmaFrac <= 0 {
		return nil, core.NewValidationError("sigma", "must be positive")
	}
	if cfg.LocalizationRadius <= 0 {
		return nil, core.NewValidationError("localization radius", "must be positive")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Generator{pop: pop, sel: sel, scale: scale, cfg: cfg}, nil
}

// Generate draws one detected event: sample a host, compute its true
// luminosity distance at the injection H0, perturb it with Gaussian noise,
// draw a localization region, and accept with the detection probability at
// the true distance. Returns ErrGenerationFailure once the retry cap is
// exceeded; the caller skips and counts the event, it never aborts a batch.
func (g *Generator) Generate(rng *rand.Rand) (gwevent.Event, error) {
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		host, err := g.pop.SampleHost(rng)
		if err != nil {
			return gwevent.Event{}, err
		}

		trueDist := g.scale.LuminosityDistance(host.Z, g.cfg.InjectionH0)
		if trueDist <= 0 {
			continue
		}
		sigma := g.cfg.SigmaFrac * trueDist
		obsDist := trueDist + sigma*rng.NormFloat64()
		if obsDist <= 0 {
			// Unphysical draw; counts as a rejected trial.
			continue
		}

		if rng.Float64() >= g.sel.DetectionProbability(trueDist) {
			continue
		}

		ev := gwevent.Event{
			ID:               core.EventID(core.NewID()),
			TrueH0:           g.cfg.InjectionH0,
			Host:             host,
			TrueDistance:     trueDist,
			ObservedDistance: obsDist,
			SigmaFrac:        g.cfg.SigmaFrac,
			SigmaDistance:    sigma,
			Localization:     g.localize(host.Direction, rng),
		}
		if err := ev.Validate(); err != nil {
			return gwevent.Event{}, err
		}
		return ev, nil
	}
	return gwevent.Event{}, core.NewGenerationError(g.cfg.MaxRetries)
}

// localize draws a circular localization region around the true position,
// with the center scattered so the host is not always dead-center.
func (g *Generator) localize(truth catalog.SkyDirection, rng *rand.Rand) gwevent.Localization {
	jitter := g.cfg.LocalizationRadius / 3
	return gwevent.Localization{
		Center: catalog.SkyDirection{
			RA:  truth.RA + jitter*rng.NormFloat64(),
			Dec: truth.Dec + jitter*rng.NormFloat64(),
		},
		Radius: g.cfg.LocalizationRadius,
	}
}
