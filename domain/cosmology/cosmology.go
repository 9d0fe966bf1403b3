package cosmology

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"gwsiren/domain/core"
)

// SpeedOfLight is c in km/s, so distances come out in Mpc when H0 is
// expressed in km/s/Mpc.
const SpeedOfLight = 299792.458

// Fiducial parameters matching the generative model used throughout.
const (
	FiducialH0     = 70.0
	FiducialOmegaM = 0.25
)

// quadNodes is the Gauss-Legendre order used for distance integrals.
const quadNodes = 40

// FlatLambdaCDM is a flat Lambda-CDM cosmology. Immutable; safe to share.
type FlatLambdaCDM struct {
	H0     float64 // km/s/Mpc
	OmegaM float64
}

// New returns a flat Lambda-CDM cosmology with the given parameters.
func New(h0, omegaM float64) (FlatLambdaCDM, error) {
	if h0 <= 0 {
		return FlatLambdaCDM{}, core.NewValidationError("H0", "must be positive")
	}
	if omegaM < 0 || omegaM > 1 {
		return FlatLambdaCDM{}, core.NewValidationError("OmegaM", "must be in [0,1]")
	}
	return FlatLambdaCDM{H0: h0, OmegaM: omegaM}, nil
}

// E returns the dimensionless Hubble parameter E(z) = H(z)/H0.
func (c FlatLambdaCDM) E(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(c.OmegaM*zp1*zp1*zp1 + (1 - c.OmegaM))
}

// ComovingDistance returns the line-of-sight comoving distance to z, in Mpc.
func (c FlatLambdaCDM) ComovingDistance(z float64) float64 {
	if z <= 0 {
		return 0
	}
	integrand := func(zz float64) float64 { return 1 / c.E(zz) }
	return SpeedOfLight / c.H0 * quad.Fixed(integrand, 0, z, quadNodes, nil, 0)
}

// LuminosityDistance returns the luminosity distance to z, in Mpc.
// Flat geometry: d_L = (1+z) * d_C.
func (c FlatLambdaCDM) LuminosityDistance(z float64) float64 {
	return (1 + z) * c.ComovingDistance(z)
}

// DifferentialComovingVolume returns dV_c/dz per steradian at z, in Mpc^3.
func (c FlatLambdaCDM) DifferentialComovingVolume(z float64) float64 {
	dc := c.ComovingDistance(z)
	return SpeedOfLight / c.H0 * dc * dc / c.E(z)
}
