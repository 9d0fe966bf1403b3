package catalog

import (
	"math"

	"gwsiren/domain/core"
)

// Galaxy is a single catalog member. Immutable once constructed; events hold
// references and never mutate it.
type Galaxy struct {
	Z            float64      // comoving redshift
	Direction    SkyDirection // radians
	Luminosity   float64      // selection-weight proxy, arbitrary units
	Completeness float64      // catalog completeness at this location, [0,1]
}

// Validate checks the galaxy fields.
func (g Galaxy) Validate() error {
	if g.Z <= 0 {
		return core.NewValidationError("z", "must be positive")
	}
	if g.Luminosity < 0 {
		return core.NewValidationError("luminosity", "must be non-negative")
	}
	if g.Completeness < 0 || g.Completeness > 1 {
		return core.ErrInvalidCompleteness
	}
	return nil
}

// Weighted pairs a galaxy with its normalized selection weight. Weights are
// normalized once over the full hosting population, before any event uses
// them; a galaxy contributes the same weight to every event's likelihood.
type Weighted struct {
	Galaxy Galaxy
	Weight float64
	// Missing marks quadrature nodes standing in for galaxies absent from
	// the catalog (completeness < 1). The correct likelihood integrates
	// these; the biased comparison mode drops them.
	Missing bool
}

// Window is the redshift image of an observed-distance window: the range of
// host redshifts consistent with the measured distance anywhere on the H0
// grid under analysis.
type Window struct {
	ZMin float64
	ZMax float64
}

// Contains reports whether z falls inside the window.
func (w Window) Contains(z float64) bool {
	return z >= w.ZMin && z <= w.ZMax
}

// SkyDirection is a position on the celestial sphere, in radians.
type SkyDirection struct {
	RA  float64
	Dec float64
}

// AngularSeparation returns the great-circle separation to other, in radians.
func (d SkyDirection) AngularSeparation(other SkyDirection) float64 {
	sinDec := math.Sin(d.Dec) * math.Sin(other.Dec)
	cosDec := math.Cos(d.Dec) * math.Cos(other.Dec) * math.Cos(d.RA-other.RA)
	arg := sinDec + cosDec
	if arg > 1 {
		arg = 1
	} else if arg < -1 {
		arg = -1
	}
	return math.Acos(arg)
}
