package catalog

import (
	"math/rand"
	"sort"

	"gwsiren/domain/core"
)

// LineOfSightCatalog is a finite galaxy sample from a sky patch. Selection
// weights are proportional to luminosity, subject to a hosting rate cut at
// zRate, and scaled by per-galaxy completeness. The aggregate weight lost to
// completeness < 1 is carried by a background uniform-in-comoving-volume
// component so the full hosting population still sums to unit weight.
type LineOfSightCatalog struct {
	members    []Weighted
	cum        []float64
	catalogued float64 // total catalogued weight; 1 - catalogued is missing mass
	background *SyntheticUniformCatalog
	missing    []Weighted // background support scaled by the missing mass
	support    []Weighted
	zRate      float64
}

// NewLineOfSightCatalog normalizes the sample into a hosting population.
// The background population supplies the uncatalogued probability mass; it
// must reach at least the rate cut in redshift.
func NewLineOfSightCatalog(galaxies []Galaxy, zRate float64, background *SyntheticUniformCatalog) (*LineOfSightCatalog, error) {
	if zRate <= 0 {
		return nil, core.NewValidationError("zRate", "must be positive")
	}
	if background == nil {
		return nil, core.NewValidationError("background", "background population is required")
	}
	if background.RedshiftHorizon() < zRate {
		return nil, core.NewValidationError("background", "horizon below the rate cut")
	}

	total := 0.0
	for _, g := range galaxies {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if g.Z <= zRate {
			total += g.Luminosity
		}
	}
	if total <= 0 {
		return nil, core.ErrEmptyPopulation
	}

	cat := &LineOfSightCatalog{background: background, zRate: zRate}
	for _, g := range galaxies {
		if g.Z > zRate {
			continue
		}
		w := g.Luminosity * g.Completeness / total
		if w <= 0 {
			continue
		}
		cat.members = append(cat.members, Weighted{Galaxy: g, Weight: w})
		cat.catalogued += w
	}

	cat.cum = make([]float64, len(cat.members))
	running := 0.0
	for i, m := range cat.members {
		running += m.Weight
		cat.cum[i] = running
	}

	if missing := 1 - cat.catalogued; missing > 1e-12 {
		cat.missing = background.scaled(missing)
	}
	cat.support = make([]Weighted, 0, len(cat.members)+len(cat.missing))
	cat.support = append(cat.support, cat.members...)
	cat.support = append(cat.support, cat.missing...)
	return cat, nil
}

// RedshiftHorizon returns the hosting rate cut.
func (c *LineOfSightCatalog) RedshiftHorizon() float64 { return c.zRate }

// Size returns the number of catalogued members with nonzero weight.
func (c *LineOfSightCatalog) Size() int { return len(c.members) }

// CataloguedWeight returns the total weight held by catalogued galaxies.
// The remainder, 1 - CataloguedWeight, is the uncatalogued mass.
func (c *LineOfSightCatalog) CataloguedWeight() float64 { return c.catalogued }

// Support returns the full weighted hosting population: catalogued members
// followed by the background nodes carrying the missing mass.
func (c *LineOfSightCatalog) Support() []Weighted { return c.support }

// SampleHost draws a host proportional to selection weight. With probability
// equal to the missing mass the host is an uncatalogued background galaxy.
func (c *LineOfSightCatalog) SampleHost(rng *rand.Rand) (Galaxy, error) {
	u := rng.Float64()
	if u < c.catalogued {
		i := sort.SearchFloat64s(c.cum, u)
		if i >= len(c.members) {
			i = len(c.members) - 1
		}
		return c.members[i].Galaxy, nil
	}
	if c.background == nil {
		return Galaxy{}, core.ErrEmptyPopulation
	}
	g, err := c.background.SampleHost(rng)
	if err != nil {
		return Galaxy{}, err
	}
	// Restrict the background draw to the hosting rate cut.
	for g.Z > c.zRate {
		g, err = c.background.SampleHost(rng)
		if err != nil {
			return Galaxy{}, err
		}
	}
	return g, nil
}

// GalaxiesNear returns the weighted members consistent with the observed sky
// position and redshift window: catalogued galaxies within the localization
// radius, plus the windowed background nodes for the missing mass. Weights
// keep their global normalization; no per-event renormalization happens here.
func (c *LineOfSightCatalog) GalaxiesNear(dir SkyDirection, radius float64, window Window) []Weighted {
	out := make([]Weighted, 0, len(c.members))
	for _, m := range c.members {
		if !window.Contains(m.Galaxy.Z) {
			continue
		}
		if m.Galaxy.Direction.AngularSeparation(dir) > radius {
			continue
		}
		out = append(out, m)
	}
	for _, m := range c.missing {
		if window.Contains(m.Galaxy.Z) && m.Galaxy.Z <= c.zRate {
			out = append(out, m)
		}
	}
	return out
}
