package excel

import (
	"strconv"
	"strings"

	"vitalstat/domain/dataset"
	"vitalstat/domain/timegrid"
)

// Fixed cell layout of the workbook template. Rows and columns are 1-based
// Excel coordinates.
const (
	informationLastRow = 13

	// "Data": properties on header row 6, columns C..U; values C7:U18 with
	// one row per canonical time.
	monitoringHeaderRow = 6
	monitoringFirstCol  = 3
	monitoringLastCol   = 21
	monitoringFirstRow  = 7

	// "Gaz du sang": properties on header column A, rows 6..30; values
	// B6:M30 with one column per canonical time (transposed layout).
	bloodGasHeaderCol = 1
	bloodGasFirstRow  = 6
	bloodGasLastRow   = 30
	bloodGasFirstCol  = 2

	// "NFS": properties on header column C, rows 3..16; values D3:M16. The
	// sheet samples five of the twelve canonical times; the raw column
	// offsets below pair with hemogramCanonicalIndexes.
	hemogramHeaderCol = 3
	hemogramFirstRow  = 3
	hemogramLastRow   = 16
	hemogramFirstCol  = 4
)

// The hemogram sampling schedule is a fixed lookup, not inferred from
// headers: raw column offset hemogramRawOffsets[i] holds the sample for
// canonical index hemogramCanonicalIndexes[i].
var (
	hemogramRawOffsets       = []int{0, 2, 4, 6, 8}
	hemogramCanonicalIndexes = []int{0, 1, 5, 8, 11}
)

// column is one extracted property with its values over the canonical grid.
type column struct {
	name   string
	values []float64
}

// extractMonitoring reads the dense-grid sheet: a contiguous block with one
// row per canonical time, already in canonical order.
func (r *Reader) extractMonitoring() ([]column, error) {
	var columns []column
	for c := monitoringFirstCol; c <= monitoringLastCol; c++ {
		name, err := r.cell(sheetMonitoring, c, monitoringHeaderRow)
		if err != nil {
			return nil, err
		}
		if name == "" {
			r.logger.Warn("%s: empty property header in %s at column %d, skipped", r.subject, sheetMonitoring, c)
			continue
		}
		values := make([]float64, timegrid.Length)
		for i := 0; i < timegrid.Length; i++ {
			v, err := r.numericCell(sheetMonitoring, c, monitoringFirstRow+i)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		columns = append(columns, column{name: name, values: values})
	}
	return columns, nil
}

// extractBloodGas reads the transposed dense-grid sheet: same semantics as
// the monitoring sheet but with time laid out along columns, one property
// per row.
func (r *Reader) extractBloodGas() ([]column, error) {
	var columns []column
	for row := bloodGasFirstRow; row <= bloodGasLastRow; row++ {
		name, err := r.cell(sheetBloodGas, bloodGasHeaderCol, row)
		if err != nil {
			return nil, err
		}
		if name == "" {
			r.logger.Warn("%s: empty property header in %s at row %d, skipped", r.subject, sheetBloodGas, row)
			continue
		}
		values := make([]float64, timegrid.Length)
		for i := 0; i < timegrid.Length; i++ {
			v, err := r.numericCell(sheetBloodGas, bloodGasFirstCol+i, row)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		columns = append(columns, column{name: name, values: values})
	}
	return columns, nil
}

// extractHemogram reads the sparse-sampled sheet: each property row carries
// five samples which land on their canonical indexes; every other canonical
// position is an explicit missing marker.
func (r *Reader) extractHemogram() ([]column, error) {
	var columns []column
	for row := hemogramFirstRow; row <= hemogramLastRow; row++ {
		name, err := r.cell(sheetHemogram, hemogramHeaderCol, row)
		if err != nil {
			return nil, err
		}
		if name == "" {
			r.logger.Warn("%s: empty property header in %s at row %d, skipped", r.subject, sheetHemogram, row)
			continue
		}
		values := make([]float64, timegrid.Length)
		for i := range values {
			values[i] = dataset.Missing()
		}
		for i, offset := range hemogramRawOffsets {
			v, err := r.numericCell(sheetHemogram, hemogramFirstCol+offset, row)
			if err != nil {
				return nil, err
			}
			values[hemogramCanonicalIndexes[i]] = v
		}
		columns = append(columns, column{name: name, values: values})
	}
	return columns, nil
}

// parseNumber parses a cell's display value, tolerating a comma decimal
// separator left over from manual entry.
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, " ", "")
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ",", "."), 64); err == nil {
		return v, true
	}
	return 0, false
}
