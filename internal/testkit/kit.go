// Package testkit provides deterministic fixtures shared across test suites:
// a small fiducial cosmology, populations, engines wired with default
// parameters, and an in-memory record store.
package testkit

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gwsiren/domain/catalog"
	"gwsiren/domain/cosmology"
	"gwsiren/domain/posterior"
	"gwsiren/domain/selection"
	"gwsiren/internal/inference"
	"gwsiren/internal/simulate"
	"gwsiren/ports"
)

// Fixture parameters: the reference scenario used throughout the tests.
const (
	OmegaM      = 0.25
	ZHorizon    = 0.15
	InjectionH0 = 70.0
	SigmaFrac   = 0.1
	Threshold   = 400.0 // Mpc
	Width       = 0.1
	Radius      = 0.05 // localization, radians
	Seed        = 42
)

// Kit bundles the fixtures most tests need.
type Kit struct {
	Scale      *cosmology.DistanceScale
	Population *catalog.SyntheticUniformCatalog
	Selection  selection.Function
	Grid       posterior.H0Grid
}

// NewKit builds the reference fixture. Panics on construction errors: the
// parameters are constants, so a failure is a programming error, not a
// runtime condition tests should handle.
func NewKit() *Kit {
	scale, err := cosmology.NewDistanceScale(OmegaM, ZHorizon)
	if err != nil {
		panic(err)
	}
	pop, err := catalog.NewSyntheticUniformCatalog(OmegaM, ZHorizon)
	if err != nil {
		panic(err)
	}
	sel, err := selection.New(selection.FormSigmoid, Threshold, Width)
	if err != nil {
		panic(err)
	}
	grid, err := posterior.NewH0Grid(50, 100, 200)
	if err != nil {
		panic(err)
	}
	return &Kit{Scale: scale, Population: pop, Selection: sel, Grid: grid}
}

// Rand returns a seeded generator.
func Rand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Generator builds the reference event generator.
func (k *Kit) Generator() *simulate.Generator {
	gen, err := simulate.NewGenerator(k.Population, k.Selection, k.Scale, simulate.GeneratorConfig{
		InjectionH0:        InjectionH0,
		SigmaFrac:          SigmaFrac,
		LocalizationRadius: Radius,
	})
	if err != nil {
		panic(err)
	}
	return gen
}

// PosteriorEngine builds the reference inference chain under the given
// policy, with a uniform prior.
func (k *Kit) PosteriorEngine(policy inference.Policy) *inference.PosteriorEngine {
	like := inference.NewLikelihoodEngine(k.Population, k.Selection, k.Scale, inference.LikelihoodConfig{
		Policy: policy,
	})
	return inference.NewPosteriorEngine(like, nil)
}

// Galaxies draws n synthetic catalog members below the horizon with
// luminosities spread over an order of magnitude.
func Galaxies(n int, rng *rand.Rand) []catalog.Galaxy {
	out := make([]catalog.Galaxy, n)
	for i := range out {
		out[i] = catalog.Galaxy{
			Z: 0.01 + (ZHorizon-0.02)*rng.Float64(),
			Direction: catalog.SkyDirection{
				RA:  2 * math.Pi * rng.Float64(),
				Dec: math.Asin(2*rng.Float64() - 1),
			},
			Luminosity:   math.Pow(10, rng.Float64()),
			Completeness: 1,
		}
	}
	return out
}

// InMemoryStore is a ports.RecordStore for tests.
type InMemoryStore struct {
	mu      sync.Mutex
	records []ports.EventRecord
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

var _ ports.RecordStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Save(_ context.Context, rec ports.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]ports.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.EventRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *InMemoryStore) Close() error { return nil }
