package cosmology

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"gwsiren/domain/core"
)

// DistanceScale precomputes d_L(z) * H0 on a log-spaced redshift grid.
// In flat Lambda-CDM at fixed Omega_m the product d_L * H0 does not depend
// on H0, so a single table evaluated at the fiducial cosmology serves every
// candidate H0 on the analysis grid. The likelihood loop turns a quadrature
// per galaxy per H0 into one table lookup.
type DistanceScale struct {
	omegaM float64
	zMin   float64
	zMax   float64
	zs     []float64
	dlh0   []float64 // d_L(z) * H0, units Mpc * km/s/Mpc
	fwd    interp.PiecewiseLinear
	inv    interp.PiecewiseLinear
}

// defaultTableSize is the number of redshift nodes in the table.
const defaultTableSize = 4096

// zFloor keeps the log-spaced grid away from z = 0 where d_L vanishes.
const zFloor = 1e-4

// NewDistanceScale builds a distance table up to redshift zMax.
func NewDistanceScale(omegaM, zMax float64) (*DistanceScale, error) {
	return newDistanceScale(omegaM, zMax, defaultTableSize)
}

func newDistanceScale(omegaM, zMax float64, n int) (*DistanceScale, error) {
	if zMax <= zFloor {
		return nil, core.NewValidationError("zMax", "must exceed the table floor")
	}
	if n < 2 {
		return nil, core.NewValidationError("table size", "must be at least 2")
	}
	cosmo, err := New(FiducialH0, omegaM)
	if err != nil {
		return nil, err
	}

	s := &DistanceScale{
		omegaM: omegaM,
		zMin:   zFloor,
		zMax:   zMax,
		zs:     make([]float64, n),
		dlh0:   make([]float64, n),
	}
	logMin, logMax := math.Log(zFloor), math.Log(zMax)
	step := (logMax - logMin) / float64(n-1)
	for i := range s.zs {
		z := math.Exp(logMin + float64(i)*step)
		s.zs[i] = z
		s.dlh0[i] = cosmo.LuminosityDistance(z) * FiducialH0
	}
	// Guard against rounding on the last node so Predict covers zMax exactly.
	s.zs[n-1] = zMax

	if err := s.fwd.Fit(s.zs, s.dlh0); err != nil {
		return nil, err
	}
	if err := s.inv.Fit(s.dlh0, s.zs); err != nil {
		return nil, err
	}
	return s, nil
}

// OmegaM returns the matter density the table was built with.
func (s *DistanceScale) OmegaM() float64 { return s.omegaM }

// Horizon returns the maximum tabulated redshift.
func (s *DistanceScale) Horizon() float64 { return s.zMax }

// LuminosityDistance returns d_L(z) in Mpc for a candidate H0.
func (s *DistanceScale) LuminosityDistance(z, h0 float64) float64 {
	if z <= 0 || h0 <= 0 {
		return 0
	}
	return s.fwd.Predict(clamp(z, s.zMin, s.zMax)) / h0
}

// RedshiftAt inverts the table: the redshift whose luminosity distance is
// dl Mpc under the candidate H0. Results are clamped to the tabulated range.
func (s *DistanceScale) RedshiftAt(dl, h0 float64) float64 {
	if dl <= 0 || h0 <= 0 {
		return s.zMin
	}
	return s.inv.Predict(clamp(dl*h0, s.dlh0[0], s.dlh0[len(s.dlh0)-1]))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
