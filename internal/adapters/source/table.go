package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// columnAliases maps alternative header names to the canonical one.
var columnAliases = map[string]string{
	"lat": "latitude",
	"lon": "longitude",
	"lng": "longitude",
}

// table is a header-indexed view over a tabular file.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
}

// readTable loads a .csv or .xlsx file. The first row is the header.
func readTable(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{Path: path, Err: ErrSourceNotFound}
		}
		return nil, &SourceError{Path: path, Err: err}
	}

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = readSheet(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, formatError(path, "", "unsupported extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, formatError(path, "", "missing header row")
	}

	t := &table{path: path, columns: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}
	t.rows = records[1:]
	return t, nil
}

func normalizeHeader(h string) string {
	name := strings.ToLower(strings.TrimSpace(h))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, formatError(path, "", "open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, formatError(path, "", "workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, formatError(path, sheets[0], "read rows: %v", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, formatError(path, "", "parse csv: %v", err)
	}
	return records, nil
}

// require checks that every named column is present.
func (t *table) require(names ...string) error {
	for _, n := range names {
		if _, ok := t.columns[n]; !ok {
			return formatError(t.path, n, "missing column")
		}
	}
	return nil
}

func (t *table) has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// cell returns the trimmed value of column name in row, or "" when the row
// is shorter than the header.
func (t *table) cell(row []string, name string) string {
	return strings.TrimSpace(t.rawCell(row, name))
}

// rawCell returns the value of column name in row exactly as stored.
// Natural-key columns are read this way so they join byte for byte with
// the athlete export.
func (t *table) rawCell(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// rowLabel names a data row by its spreadsheet line number.
func rowLabel(i int, column string) string {
	return fmt.Sprintf("row %d: %s", i+2, column)
}
