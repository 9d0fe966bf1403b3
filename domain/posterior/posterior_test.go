package posterior

import (
	"math"
	"testing"

	"gwsiren/domain/core"
)

func mustGrid(t *testing.T) H0Grid {
	t.Helper()
	grid, err := NewH0Grid(50, 100, 200)
	if err != nil {
		t.Fatalf("NewH0Grid failed: %v", err)
	}
	return grid
}

// gaussianRow evaluates an unnormalized normal density over the grid.
func gaussianRow(grid H0Grid, mu, sigma float64) []float64 {
	row := make([]float64, grid.Len())
	for i, h0 := range grid.Values {
		d := (h0 - mu) / sigma
		row[i] = math.Exp(-0.5 * d * d)
	}
	return row
}

func TestNewH0GridValidation(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		n        int
	}{
		{"non-positive min", 0, 100, 10},
		{"max below min", 100, 50, 10},
		{"single point", 50, 100, 1},
	}
	for _, test := range tests {
		if _, err := NewH0Grid(test.min, test.max, test.n); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	grid := mustGrid(t)
	p, err := New(grid, gaussianRow(grid, 70, 5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !p.WellNormalized() {
		t.Errorf("Expected unit integral, got %g", p.Integral())
	}
	if mode := p.Mode(); math.Abs(mode-70) > 0.5 {
		t.Errorf("Expected mode near 70, got %g", mode)
	}
}

func TestNewDegenerateRow(t *testing.T) {
	grid := mustGrid(t)
	_, err := New(grid, make([]float64, grid.Len()))
	if !core.IsDegeneratePosterior(err) {
		t.Errorf("Expected ErrDegeneratePosterior, got %v", err)
	}
}

// TestNewCleansNonFinite tests that NaN, Inf and negative entries are
// zeroed rather than poisoning the normalization.
func TestNewCleansNonFinite(t *testing.T) {
	grid := mustGrid(t)
	row := gaussianRow(grid, 70, 5)
	row[0] = math.NaN()
	row[1] = math.Inf(1)
	row[2] = -1
	p, err := New(grid, row)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if p.Density[i] != 0 {
			t.Errorf("Expected cleaned density at %d, got %g", i, p.Density[i])
		}
	}
	if !p.WellNormalized() {
		t.Errorf("Expected unit integral after cleaning, got %g", p.Integral())
	}
}

func TestCDFQuantileConsistency(t *testing.T) {
	grid := mustGrid(t)
	p, err := New(grid, gaussianRow(grid, 70, 5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, q := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
		h0 := p.Quantile(q)
		back := p.CDFAt(h0)
		if math.Abs(back-q) > 1e-3 {
			t.Errorf("CDF(Quantile(%g)) = %g", q, back)
		}
	}
	if p.CDFAt(grid.Min()) != 0 {
		t.Error("Expected CDF=0 at the lower bound")
	}
	if p.CDFAt(grid.Max()) != 1 {
		t.Error("Expected CDF=1 at the upper bound")
	}
}

func TestCredibleWidthTracksSigma(t *testing.T) {
	grid := mustGrid(t)
	narrow, err := New(grid, gaussianRow(grid, 70, 2))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	wide, err := New(grid, gaussianRow(grid, 70, 6))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	wn := narrow.CredibleWidth(0.68)
	ww := wide.CredibleWidth(0.68)
	if wn <= 0 || ww <= 0 {
		t.Fatalf("Expected positive widths, got %g and %g", wn, ww)
	}
	if wn >= ww {
		t.Errorf("Expected the narrow posterior to be narrower: %g vs %g", wn, ww)
	}
	// A 68% interval of a Gaussian spans about 2 sigma.
	if math.Abs(wn-4) > 0.5 {
		t.Errorf("Expected width near 4 for sigma=2, got %g", wn)
	}
}

func TestFromDensityRebuilds(t *testing.T) {
	grid := mustGrid(t)
	p, err := New(grid, gaussianRow(grid, 65, 4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rebuilt, err := FromDensity(grid, p.Density)
	if err != nil {
		t.Fatalf("FromDensity failed: %v", err)
	}
	for i := range p.Density {
		if math.Abs(rebuilt.Density[i]-p.Density[i]) > 1e-12 {
			t.Fatalf("Density diverged at %d: %g vs %g", i, rebuilt.Density[i], p.Density[i])
		}
	}
}
