// Package excel reads galaxy catalogs from and writes calibration reports
// to xlsx workbooks.
package excel

import (
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gwsiren/domain/catalog"
	"gwsiren/internal/errors"
)

// CatalogReader loads galaxy catalogs from an xlsx sheet. The sheet needs a
// header row naming the columns z, ra, dec, luminosity and completeness;
// extra columns are ignored.
type CatalogReader struct {
	path  string
	sheet string
}

// NewCatalogReader creates a reader for the given workbook. An empty sheet
// name defaults to Sheet1.
func NewCatalogReader(path, sheet string) *CatalogReader {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &CatalogReader{path: path, sheet: sheet}
}

// Read loads and validates every galaxy row.
func (r *CatalogReader) Read() ([]catalog.Galaxy, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, errors.CatalogInvalid("catalog file not found: " + r.path)
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", r.sheet)
	}
	if len(rows) < 2 {
		return nil, errors.CatalogInvalid("catalog sheet must have a header row and at least one galaxy")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	galaxies := make([]catalog.Galaxy, 0, len(rows)-1)
	for i, row := range rows[1:] {
		g, err := parseGalaxy(row, cols)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog row %d", i+2)
		}
		galaxies = append(galaxies, g)
	}
	return galaxies, nil
}

// columnIndex maps each required column name to its position in the header.
type columnIndex struct {
	z, ra, dec, luminosity, completeness int
}

func headerIndex(header []string) (columnIndex, error) {
	idx := columnIndex{z: -1, ra: -1, dec: -1, luminosity: -1, completeness: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "z":
			idx.z = i
		case "ra":
			idx.ra = i
		case "dec":
			idx.dec = i
		case "luminosity":
			idx.luminosity = i
		case "completeness":
			idx.completeness = i
		}
	}
	for name, pos := range map[string]int{
		"z": idx.z, "ra": idx.ra, "dec": idx.dec,
		"luminosity": idx.luminosity, "completeness": idx.completeness,
	} {
		if pos < 0 {
			return columnIndex{}, errors.CatalogInvalid("catalog sheet is missing column " + name)
		}
	}
	return idx, nil
}

func parseGalaxy(row []string, cols columnIndex) (catalog.Galaxy, error) {
	z, err := cellFloat(row, cols.z)
	if err != nil {
		return catalog.Galaxy{}, errors.Wrap(err, "z")
	}
	ra, err := cellFloat(row, cols.ra)
	if err != nil {
		return catalog.Galaxy{}, errors.Wrap(err, "ra")
	}
	dec, err := cellFloat(row, cols.dec)
	if err != nil {
		return catalog.Galaxy{}, errors.Wrap(err, "dec")
	}
	lum, err := cellFloat(row, cols.luminosity)
	if err != nil {
		return catalog.Galaxy{}, errors.Wrap(err, "luminosity")
	}
	comp, err := cellFloat(row, cols.completeness)
	if err != nil {
		return catalog.Galaxy{}, errors.Wrap(err, "completeness")
	}

	g := catalog.Galaxy{
		Z:            z,
		Direction:    catalog.SkyDirection{RA: ra, Dec: dec},
		Luminosity:   lum,
		Completeness: comp,
	}
	if err := g.Validate(); err != nil {
		return catalog.Galaxy{}, err
	}
	return g, nil
}

func cellFloat(row []string, i int) (float64, error) {
	if i >= len(row) {
		return 0, errors.CatalogInvalid("missing value")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0, errors.CatalogInvalid("not a number: " + row[i])
	}
	return v, nil
}
