package ports

import (
	"math/rand"

	"gwsiren/domain/catalog"
)

// HostPopulation is a galaxy population able to host GW events. All methods
// are read-only over immutable data; implementations must be safe to share
// across concurrent workers without locking.
type HostPopulation interface {
	// SampleHost draws a host galaxy proportional to its selection weight.
	SampleHost(rng *rand.Rand) (catalog.Galaxy, error)

	// GalaxiesNear returns the weighted members consistent with an observed
	// sky position (within the localization radius, radians) and redshift
	// window. Weights keep their population-wide normalization.
	GalaxiesNear(dir catalog.SkyDirection, radius float64, window catalog.Window) []catalog.Weighted

	// Support returns the full weighted hosting population, used for
	// selection-effect normalization. Weights sum to 1.
	Support() []catalog.Weighted

	// RedshiftHorizon returns the maximum hosting redshift.
	RedshiftHorizon() float64
}
