package catalog

import (
	"math"
	"math/rand"
	"testing"
)

func losFixture(t *testing.T, galaxies []Galaxy) *LineOfSightCatalog {
	t.Helper()
	background, err := NewSyntheticUniformCatalog(0.25, 0.15)
	if err != nil {
		t.Fatalf("Background population failed: %v", err)
	}
	cat, err := NewLineOfSightCatalog(galaxies, 0.15, background)
	if err != nil {
		t.Fatalf("NewLineOfSightCatalog failed: %v", err)
	}
	return cat
}

func TestLineOfSightFullCompleteness(t *testing.T) {
	cat := losFixture(t, []Galaxy{
		{Z: 0.05, Luminosity: 1, Completeness: 1},
		{Z: 0.08, Luminosity: 3, Completeness: 1},
	})
	if cat.Size() != 2 {
		t.Fatalf("Expected 2 members, got %d", cat.Size())
	}
	if math.Abs(cat.CataloguedWeight()-1) > 1e-12 {
		t.Errorf("Expected full catalogued weight, got %g", cat.CataloguedWeight())
	}
	// Luminosity weighting: the brighter galaxy carries 3x the weight.
	support := cat.Support()
	if math.Abs(support[1].Weight/support[0].Weight-3) > 1e-9 {
		t.Errorf("Expected 3:1 weight ratio, got %g:%g", support[1].Weight, support[0].Weight)
	}
}

// TestLineOfSightMissingMass tests that weight lost to completeness < 1 is
// carried by flagged background nodes and the total stays normalized.
func TestLineOfSightMissingMass(t *testing.T) {
	cat := losFixture(t, []Galaxy{
		{Z: 0.05, Luminosity: 1, Completeness: 0.5},
		{Z: 0.08, Luminosity: 1, Completeness: 0.5},
	})
	if math.Abs(cat.CataloguedWeight()-0.5) > 1e-12 {
		t.Errorf("Expected catalogued weight 0.5, got %g", cat.CataloguedWeight())
	}
	total := 0.0
	missing := 0.0
	for _, m := range cat.Support() {
		total += m.Weight
		if m.Missing {
			missing += m.Weight
		}
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("Expected total weight 1, got %.12f", total)
	}
	if math.Abs(missing-0.5) > 1e-9 {
		t.Errorf("Expected missing mass 0.5, got %g", missing)
	}
}

// TestLineOfSightRateCut tests that galaxies beyond the hosting rate cut
// carry no weight.
func TestLineOfSightRateCut(t *testing.T) {
	cat := losFixture(t, []Galaxy{
		{Z: 0.05, Luminosity: 1, Completeness: 1},
		{Z: 0.3, Luminosity: 100, Completeness: 1}, // beyond the cut
	})
	if cat.Size() != 1 {
		t.Fatalf("Expected 1 member after the rate cut, got %d", cat.Size())
	}
	for _, m := range cat.Support() {
		if m.Galaxy.Z > cat.RedshiftHorizon() {
			t.Errorf("Support includes z=%g beyond the cut", m.Galaxy.Z)
		}
	}
}

func TestLineOfSightSampleHostRespectsCut(t *testing.T) {
	cat := losFixture(t, []Galaxy{
		{Z: 0.05, Luminosity: 1, Completeness: 0.2},
	})
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		g, err := cat.SampleHost(rng)
		if err != nil {
			t.Fatalf("SampleHost failed: %v", err)
		}
		if g.Z <= 0 || g.Z > cat.RedshiftHorizon() {
			t.Fatalf("Host redshift %g outside (0, %g]", g.Z, cat.RedshiftHorizon())
		}
	}
}

// TestLineOfSightGalaxiesNearDirection tests the sky filter: only members
// within the localization radius survive, while missing-mass nodes pass on
// redshift alone.
func TestLineOfSightGalaxiesNearDirection(t *testing.T) {
	near := Galaxy{Z: 0.05, Direction: SkyDirection{RA: 1.00, Dec: 0.5}, Luminosity: 1, Completeness: 0.9}
	far := Galaxy{Z: 0.05, Direction: SkyDirection{RA: 2.50, Dec: -0.5}, Luminosity: 1, Completeness: 0.9}
	cat := losFixture(t, []Galaxy{near, far})

	window := Window{ZMin: 0.01, ZMax: 0.1}
	members := cat.GalaxiesNear(SkyDirection{RA: 1.01, Dec: 0.5}, 0.05, window)

	catalogued := 0
	sawMissing := false
	for _, m := range members {
		if m.Missing {
			sawMissing = true
			continue
		}
		catalogued++
		if m.Galaxy.Direction != near.Direction {
			t.Errorf("Unexpected member at %+v", m.Galaxy.Direction)
		}
	}
	if catalogued != 1 {
		t.Errorf("Expected exactly the nearby galaxy, got %d members", catalogued)
	}
	if !sawMissing {
		t.Error("Expected missing-mass nodes inside the window")
	}
}

func TestLineOfSightValidation(t *testing.T) {
	background, err := NewSyntheticUniformCatalog(0.25, 0.15)
	if err != nil {
		t.Fatalf("Background population failed: %v", err)
	}
	galaxies := []Galaxy{{Z: 0.05, Luminosity: 1, Completeness: 1}}

	if _, err := NewLineOfSightCatalog(galaxies, 0, background); err == nil {
		t.Error("Expected error for non-positive rate cut")
	}
	if _, err := NewLineOfSightCatalog(galaxies, 0.15, nil); err == nil {
		t.Error("Expected error for missing background")
	}
	if _, err := NewLineOfSightCatalog(galaxies, 0.5, background); err == nil {
		t.Error("Expected error when the background horizon is below the cut")
	}
	if _, err := NewLineOfSightCatalog(nil, 0.15, background); err == nil {
		t.Error("Expected error for an empty catalog")
	}
	bad := []Galaxy{{Z: 0.05, Luminosity: 1, Completeness: 1.5}}
	if _, err := NewLineOfSightCatalog(bad, 0.15, background); err == nil {
		t.Error("Expected error for completeness above 1")
	}
}
