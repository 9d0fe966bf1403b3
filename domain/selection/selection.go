package selection

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"gwsiren/domain/catalog"
	"gwsiren/domain/core"
	"gwsiren/domain/cosmology"
)

// Form identifies the functional form of the detection probability. The form
// is fixed at configuration time for a whole batch; there is no runtime
// switching mid-run.
type Form int

const (
	// FormSigmoid is a smooth normal-CDF falloff around the threshold,
	// modelling realistic detector sensitivity.
	FormSigmoid Form = iota
	// FormHeaviside is a hard step at the threshold. Intentionally
	// unrealistic; kept to reproduce biased historical analyses.
	FormHeaviside
)

// String returns the configuration name of the form.
func (f Form) String() string {
	switch f {
	case FormSigmoid:
		return "sigmoid"
	case FormHeaviside:
		return "heaviside"
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// ParseForm maps a configuration string to a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "sigmoid":
		return FormSigmoid, nil
	case "heaviside":
		return FormHeaviside, nil
	}
	return 0, core.NewValidationError("selection form", fmt.Sprintf("unknown form %q", s))
}

// Function maps a true luminosity distance to a detection probability.
// Stateless and immutable; safe to share across concurrent workers.
type Function struct {
	Form      Form
	Threshold float64 // detection horizon, Mpc
	Width     float64 // fractional smoothing scale (sigmoid only)
}

// New validates and builds a selection function.
func New(form Form, threshold, width float64) (Function, error) {
	if threshold <= 0 {
		return Function{}, core.NewValidationError("threshold", "must be positive")
	}
	if form == FormSigmoid && width <= 0 {
		return Function{}, core.NewValidationError("width", "sigmoid form needs a positive smoothing scale")
	}
	return Function{Form: form, Threshold: threshold, Width: width}, nil
}

var unitNormal = distuv.Normal{Mu: 0, Sigma: 1}

// DetectionProbability returns P(detected | true distance d), in [0,1] and
// non-increasing in d. The sigmoid form is the probability that a distance
// measurement with fractional width Width scatters below the threshold.
func (f Function) DetectionProbability(d float64) float64 {
	if d <= 0 {
		return 1
	}
	switch f.Form {
	case FormHeaviside:
		if d > f.Threshold {
			return 0
		}
		return 1
	default:
		return unitNormal.CDF((f.Threshold - d) / (f.Width * d))
	}
}

// Population is the part of a galaxy population the selection normalization
// needs: the full weighted hosting support.
type Population interface {
	Support() []catalog.Weighted
}

// ExpectedDetectionFraction returns the population-averaged detection
// probability at a candidate H0: sum over the hosting support of weight
// times P(detected | d_L(z, H0)). Dividing a likelihood by this term is
// what removes Malmquist-type selection bias; omitting it reproduces the
// documented biased analyses.
func ExpectedDetectionFraction(f Function, pop Population, scale *cosmology.DistanceScale, h0 float64) float64 {
	beta := 0.0
	for _, w := range pop.Support() {
		beta += w.Weight * f.DetectionProbability(scale.LuminosityDistance(w.Galaxy.Z, h0))
	}
	return beta
}
