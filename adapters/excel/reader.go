// Package excel reads per-subject monitoring workbooks. A valid workbook
// carries four fixed-named sheets: "Suivi" (free-text follow-up notes),
// "Data", "Gaz du sang" and "NFS". The last three hold the measurements and
// are reconciled onto the canonical time grid; their cell layouts are fixed
// by the workbook template and are not discovered dynamically.
package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/internal"
)

const (
	sheetInformation = "Suivi"
	sheetMonitoring  = "Data"
	sheetBloodGas    = "Gaz du sang"
	sheetHemogram    = "NFS"
)

var requiredSheets = []string{sheetInformation, sheetMonitoring, sheetBloodGas, sheetHemogram}

// Reader reads one subject's monitoring workbook.
type Reader struct {
	file    *excelize.File
	path    string
	subject string
	logger  *internal.Logger
}

// OpenWorkbook opens a workbook and validates its structure.
func OpenWorkbook(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewInvalidWorkbookError(fmt.Sprintf("cannot open %s: %v", path, err))
	}

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	for _, name := range requiredSheets {
		if !sheets[name] {
			f.Close()
			return nil, core.NewInvalidWorkbookError(fmt.Sprintf("%s: compulsory sheet %q is missing", path, name))
		}
	}

	base := filepath.Base(path)
	subject := strings.TrimSuffix(base, filepath.Ext(base))

	return &Reader{
		file:    f,
		path:    path,
		subject: subject,
		logger:  internal.DefaultLogger,
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Path returns the workbook's filename.
func (r *Reader) Path() string { return r.path }

// Subject returns the subject identifier derived from the filename.
func (r *Reader) Subject() string { return r.subject }

// Information stringifies the follow-up sheet. The content is consumed
// verbatim as a display string, never parsed structurally.
func (r *Reader) Information() (string, error) {
	var lines []string
	for row := 1; row <= informationLastRow; row++ {
		key, err := r.cell(sheetInformation, 1, row)
		if err != nil {
			return "", err
		}
		value, err := r.cell(sheetInformation, 2, row)
		if err != nil {
			return "", err
		}
		lines = append(lines, key+": "+value)
	}
	return strings.Join(lines, "\n"), nil
}

// ReadTable merges the three measurement sheets into the subject's canonical
// table. Property namespaces must be disjoint across sheets.
func (r *Reader) ReadTable() (*dataset.Table, error) {
	table := dataset.NewTable(r.subject)

	for _, extract := range []func() ([]column, error){
		r.extractMonitoring,
		r.extractBloodGas,
		r.extractHemogram,
	} {
		columns, err := extract()
		if err != nil {
			return nil, err
		}
		for _, col := range columns {
			if err := table.AddColumn(col.name, col.values); err != nil {
				return nil, fmt.Errorf("%s: %w", r.path, err)
			}
		}
	}

	return table, nil
}

// cell reads one cell as a trimmed string.
func (r *Reader) cell(sheet string, col, row int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	value, err := r.file.GetCellValue(sheet, name)
	if err != nil {
		return "", core.NewInvalidWorkbookError(fmt.Sprintf("%s: cannot read %s!%s: %v", r.path, sheet, name, err))
	}
	return strings.TrimSpace(value), nil
}

// numericCell reads one cell as a float64, mapping empty or non-numeric
// content to the missing marker.
func (r *Reader) numericCell(sheet string, col, row int) (float64, error) {
	raw, err := r.cell(sheet, col, row)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return dataset.Missing(), nil
	}
	value, ok := parseNumber(raw)
	if !ok {
		r.logger.Debug("%s: non-numeric cell in %s (col %d, row %d): %q", r.subject, sheet, col, row, raw)
		return dataset.Missing(), nil
	}
	return value, nil
}
