package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gwsiren/domain/calibration"
	"gwsiren/ports"
)

func writeCatalogWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"z", "ra", "dec", "luminosity", "completeness"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCatalogReaderRoundTrip(t *testing.T) {
	path := writeCatalogWorkbook(t, [][]interface{}{
		{0.05, 1.2, 0.3, 2.5, 1.0},
		{0.1, 4.0, -0.8, 0.7, 0.85},
	})

	galaxies, err := NewCatalogReader(path, "").Read()
	require.NoError(t, err)
	require.Len(t, galaxies, 2)

	assert.InDelta(t, 0.05, galaxies[0].Z, 1e-12)
	assert.InDelta(t, 1.2, galaxies[0].Direction.RA, 1e-12)
	assert.InDelta(t, 0.3, galaxies[0].Direction.Dec, 1e-12)
	assert.InDelta(t, 2.5, galaxies[0].Luminosity, 1e-12)
	assert.InDelta(t, 0.85, galaxies[1].Completeness, 1e-12)
}

func TestCatalogReaderMissingFile(t *testing.T) {
	_, err := NewCatalogReader(filepath.Join(t.TempDir(), "absent.xlsx"), "").Read()
	assert.Error(t, err)
}

func TestCatalogReaderMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"z", "ra", "dec", "luminosity"} // no completeness
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{0.05, 1.2, 0.3, 2.5}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := NewCatalogReader(path, "").Read()
	assert.Error(t, err)
}

func TestCatalogReaderRejectsBadRows(t *testing.T) {
	path := writeCatalogWorkbook(t, [][]interface{}{
		{0.05, 1.2, 0.3, 2.5, 1.5}, // completeness above 1
	})
	_, err := NewCatalogReader(path, "").Read()
	assert.Error(t, err)
}

func TestReportWriterSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	report := ports.CalibrationReport{
		Summary:    calibration.Summary{Count: 3, Mean: 0.51, Median: 0.48, KS: 0.12},
		KSCritical: 0.78,
		Curve: calibration.PPCurve{
			Nominal:   []float64{0.2, 0.5, 0.9},
			Empirical: []float64{1.0 / 3, 2.0 / 3, 1},
		},
		Convergence: []calibration.ConvergencePoint{
			{K: 1, Width68: 10, Mode: 71},
			{K: 2, Width68: 7, Mode: 70},
		},
		Skipped: 1,
	}

	require.NoError(t, NewReportWriter(path).WriteCalibrationReport(context.Background(), report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range []string{"Summary", "Percentiles", "Convergence"} {
		idx, err := f.GetSheetIndex(sheet)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0, "missing sheet %s", sheet)
	}

	count, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	nominal, err := f.GetCellValue("Percentiles", "A2")
	require.NoError(t, err)
	assert.Equal(t, "0.2", nominal)

	width, err := f.GetCellValue("Convergence", "B3")
	require.NoError(t, err)
	assert.Equal(t, "7", width)
}
