package selection

import (
	"math"
	"testing"

	"gwsiren/domain/catalog"
	"gwsiren/domain/cosmology"
)

func TestParseFormRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		expected Form
		hasError bool
	}{
		{"sigmoid", FormSigmoid, false},
		{"heaviside", FormHeaviside, false},
		{"step", 0, true},
		{"", 0, true},
	}
	for _, test := range tests {
		form, err := ParseForm(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for %q", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", test.input, err)
			continue
		}
		if form != test.expected {
			t.Errorf("Expected %v for %q, got %v", test.expected, test.input, form)
		}
		if form.String() != test.input {
			t.Errorf("Round trip of %q gave %q", test.input, form.String())
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(FormSigmoid, 0, 0.1); err == nil {
		t.Error("Expected error for non-positive threshold")
	}
	if _, err := New(FormSigmoid, 400, 0); err == nil {
		t.Error("Expected error for sigmoid without width")
	}
	if _, err := New(FormHeaviside, 400, 0); err != nil {
		t.Errorf("Heaviside needs no width: %v", err)
	}
}

// TestDetectionProbabilityBounds tests that the probability stays in [0,1]
// and never increases with distance.
func TestDetectionProbabilityBounds(t *testing.T) {
	forms := []Function{
		{Form: FormSigmoid, Threshold: 400, Width: 0.1},
		{Form: FormHeaviside, Threshold: 400},
	}
	for _, f := range forms {
		prev := 2.0
		for d := 0.0; d <= 1200; d += 10 {
			p := f.DetectionProbability(d)
			if p < 0 || p > 1 {
				t.Fatalf("%s: P(det|%g) = %g outside [0,1]", f.Form, d, p)
			}
			if p > prev {
				t.Fatalf("%s: P(det) increased from %g to %g at d=%g", f.Form, prev, p, d)
			}
			prev = p
		}
	}
}

func TestHeavisideStep(t *testing.T) {
	f := Function{Form: FormHeaviside, Threshold: 400}
	if p := f.DetectionProbability(399); p != 1 {
		t.Errorf("Expected P=1 below the threshold, got %g", p)
	}
	if p := f.DetectionProbability(400); p != 1 {
		t.Errorf("Expected P=1 at the threshold, got %g", p)
	}
	if p := f.DetectionProbability(401); p != 0 {
		t.Errorf("Expected P=0 beyond the threshold, got %g", p)
	}
}

func TestSigmoidAtThreshold(t *testing.T) {
	f := Function{Form: FormSigmoid, Threshold: 400, Width: 0.1}
	if p := f.DetectionProbability(400); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("Expected P=0.5 at the threshold, got %g", p)
	}
}

// TestExpectedDetectionFraction tests the population-averaged detection
// probability: bounded, and growing with H0 since larger H0 pulls every
// host closer.
func TestExpectedDetectionFraction(t *testing.T) {
	scale, err := cosmology.NewDistanceScale(0.25, 0.15)
	if err != nil {
		t.Fatalf("NewDistanceScale failed: %v", err)
	}
	pop, err := catalog.NewSyntheticUniformCatalog(0.25, 0.15)
	if err != nil {
		t.Fatalf("NewSyntheticUniformCatalog failed: %v", err)
	}
	f := Function{Form: FormSigmoid, Threshold: 400, Width: 0.1}

	prev := -1.0
	for _, h0 := range []float64{50, 70, 100} {
		beta := ExpectedDetectionFraction(f, pop, scale, h0)
		if beta <= 0 || beta > 1 {
			t.Fatalf("beta(%g) = %g outside (0,1]", h0, beta)
		}
		if beta < prev {
			t.Fatalf("Expected beta to grow with H0, got %g after %g", beta, prev)
		}
		prev = beta
	}
}
