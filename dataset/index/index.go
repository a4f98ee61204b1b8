// Package index reads and writes the dataset index table, the labels.xlsx
// spreadsheet that sits at the dataset root.
//
// The first sheet holds a header row (filepath, letter, distance) followed by
// one row per sample. Paths are relative to the dataset root and always use
// forward slashes.
package index

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// DefaultFileName is the index file name under the dataset root.
const DefaultFileName = "labels.xlsx"

// SheetName is the sheet the index is written to.
const SheetName = "Sheet1"

// Column names of the header row, in order.
const (
	ColumnPath     = "filepath"
	ColumnLetter   = "letter"
	ColumnDistance = "distance"
)

// Header returns the header row.
func Header() []string {
	return []string{ColumnPath, ColumnLetter, ColumnDistance}
}

// Record is one row of the index.
type Record struct {
	Path     string // relative to the dataset root, "/" separated
	Letter   dataset.Letter
	Distance float64
}

// Write stores records at path as a single-sheet workbook, header first and
// rows in the given order. An existing file is replaced.
func Write(path string, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return errors.NewPersistenceError("write index", path, err)
	}

	header := Header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := sw.SetRow("A1", row); err != nil {
		return errors.NewPersistenceError("write index", path, err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewPersistenceError("write index", path, err)
		}
		if err := sw.SetRow(cell, []interface{}{filepath.ToSlash(rec.Path), rec.Letter.String(), rec.Distance}); err != nil {
			return errors.NewPersistenceError("write index", path, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.NewPersistenceError("write index", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewPersistenceError("write index", path, err)
	}
	return nil
}

// Read parses the index at path. The header row is skipped. A row with a
// missing field, an unknown letter or an unparsable distance fails the whole
// read with an IndexRowError; rows are never skipped.
func Read(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewPersistenceError("open index", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyIndex, "%s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewPersistenceError("read index", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyIndex, "%s", path)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(i+2, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseRow converts one sheet row. rowNum is the 1-based sheet row.
func parseRow(rowNum int, row []string) (Record, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	p := field(0)
	if p == "" {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnPath, "missing")
	}

	tok := field(1)
	if tok == "" {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnLetter, "missing")
	}
	letter, err := dataset.ParseLetter(tok)
	if err != nil {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnLetter, "not a letter in A-Z: "+strconv.Quote(tok))
	}

	raw := field(2)
	if raw == "" {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnDistance, "missing")
	}
	dist, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnDistance, "not a number: "+strconv.Quote(raw))
	}
	if math.IsNaN(dist) || math.IsInf(dist, 0) || dist <= 0 {
		return Record{}, errors.NewIndexRowError(rowNum, ColumnDistance, "must be a finite positive number")
	}

	return Record{Path: filepath.ToSlash(p), Letter: letter, Distance: dist}, nil
}
