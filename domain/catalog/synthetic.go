package catalog

import (
	"math"
	"math/rand"
	"sort"

	"gwsiren/domain/core"
	"gwsiren/domain/cosmology"
)

// syntheticNodes is the default quadrature resolution for the smooth
// population density.
const syntheticNodes = 2048

// SyntheticUniformCatalog is a galaxy population uniform in comoving volume
// up to a redshift horizon. No galaxies are stored; the population is the
// smooth density p(z) proportional to dV_c/dz, discretized onto quadrature
// nodes so sums over nodes approximate integrals over the density. Because
// the node weights are normalized, the H0 scaling of dV_c/dz cancels and a
// single fiducial evaluation serves every candidate H0.
type SyntheticUniformCatalog struct {
	nodes   []Weighted
	cum     []float64 // cumulative node weights for inverse-CDF host draws
	horizon float64
}

// NewSyntheticUniformCatalog discretizes the comoving-volume density up to
// the given redshift horizon.
func NewSyntheticUniformCatalog(omegaM, horizon float64) (*SyntheticUniformCatalog, error) {
	return newSyntheticUniformCatalog(omegaM, horizon, syntheticNodes)
}

func newSyntheticUniformCatalog(omegaM, horizon float64, n int) (*SyntheticUniformCatalog, error) {
	if horizon <= 0 {
		return nil, core.NewValidationError("horizon", "must be positive")
	}
	if n < 2 {
		return nil, core.NewValidationError("nodes", "must be at least 2")
	}
	cosmo, err := cosmology.New(cosmology.FiducialH0, omegaM)
	if err != nil {
		return nil, err
	}

	zs := make([]float64, n)
	dens := make([]float64, n)
	step := horizon / float64(n-1)
	for i := range zs {
		zs[i] = float64(i) * step
		dens[i] = cosmo.DifferentialComovingVolume(zs[i])
	}

	// Trapezoid masses centered on each node.
	masses := make([]float64, n)
	total := 0.0
	for i := range masses {
		switch i {
		case 0:
			masses[i] = 0.5 * dens[i] * step
		case n - 1:
			masses[i] = 0.5 * dens[i] * step
		default:
			masses[i] = dens[i] * step
		}
		total += masses[i]
	}
	if total <= 0 {
		return nil, core.ErrEmptyPopulation
	}

	cat := &SyntheticUniformCatalog{
		nodes:   make([]Weighted, n),
		cum:     make([]float64, n),
		horizon: horizon,
	}
	running := 0.0
	for i := range masses {
		w := masses[i] / total
		cat.nodes[i] = Weighted{
			Galaxy: Galaxy{Z: zs[i], Luminosity: 1, Completeness: 1},
			Weight: w,
		}
		running += w
		cat.cum[i] = running
	}
	return cat, nil
}

// RedshiftHorizon returns the maximum hosting redshift.
func (c *SyntheticUniformCatalog) RedshiftHorizon() float64 { return c.horizon }

// Support returns the full quadrature support with normalized weights.
func (c *SyntheticUniformCatalog) Support() []Weighted { return c.nodes }

// SampleHost draws a host redshift proportional to the comoving-volume
// density and an isotropic sky direction.
func (c *SyntheticUniformCatalog) SampleHost(rng *rand.Rand) (Galaxy, error) {
	u := rng.Float64()
	i := sort.SearchFloat64s(c.cum, u)
	if i >= len(c.nodes) {
		i = len(c.nodes) - 1
	}
	g := c.nodes[i].Galaxy
	g.Direction = randomDirection(rng)
	if g.Z <= 0 {
		// Node at z=0 carries half a trapezoid of mass; nudge onto the grid.
		g.Z = c.nodes[1].Galaxy.Z
	}
	return g, nil
}

// GalaxiesNear returns the quadrature nodes inside the redshift window. The
// population is isotropic, so the direction and localization radius do not
// constrain it; the windowed nodes realize the analytic volume integral of
// the smooth density.
func (c *SyntheticUniformCatalog) GalaxiesNear(_ SkyDirection, _ float64, window Window) []Weighted {
	out := make([]Weighted, 0, len(c.nodes)/4)
	for _, n := range c.nodes {
		if window.Contains(n.Galaxy.Z) {
			out = append(out, n)
		}
	}
	return out
}

// scaled returns a copy of the support with weights multiplied by f and
// nodes marked as uncatalogued mass. Used by the line-of-sight catalog to
// represent completeness < 1.
func (c *SyntheticUniformCatalog) scaled(f float64) []Weighted {
	out := make([]Weighted, len(c.nodes))
	for i, n := range c.nodes {
		n.Weight *= f
		n.Missing = true
		out[i] = n
	}
	return out
}

func randomDirection(rng *rand.Rand) SkyDirection {
	return SkyDirection{
		RA:  2 * math.Pi * rng.Float64(),
		Dec: math.Asin(2*rng.Float64() - 1),
	}
}
