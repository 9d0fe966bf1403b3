package gwevent

import (
	"gwsiren/domain/catalog"
	"gwsiren/domain/core"
)

// Localization is a circular sky-localization region around the observed
// position, radius in radians.
type Localization struct {
	Center catalog.SkyDirection
	Radius float64
}

// Event is one simulated detected GW standard siren. Created once by the
// generator and immutable afterwards. True quantities are retained alongside
// the observables so calibration can score posteriors against ground truth.
type Event struct {
	ID     core.EventID
	TrueH0 float64 // injection H0 the event was generated under

	Host         catalog.Galaxy // true host; reference only, never mutated
	TrueDistance float64        // d_L(host.Z, TrueH0), Mpc

	ObservedDistance float64 // true distance plus Gaussian measurement noise, Mpc
	SigmaFrac        float64 // fractional distance uncertainty
	SigmaDistance    float64 // SigmaFrac * TrueDistance, Mpc

	Localization Localization
}

// Validate checks internal consistency of a generated event.
func (e Event) Validate() error {
	if e.TrueH0 <= 0 {
		return core.NewValidationError("true H0", "must be positive")
	}
	if e.TrueDistance <= 0 {
		return core.NewValidationError("true distance", "must be positive")
	}
	if e.ObservedDistance <= 0 {
		return core.NewValidationError("observed distance", "must be positive")
	}
	if e.SigmaFrac <= 0 {
		return core.NewValidationError("sigma", "must be positive")
	}
	if e.Localization.Radius <= 0 {
		return core.NewValidationError("localization radius", "must be positive")
	}
	return e.Host.Validate()
}
