// Package testkit builds real monitoring workbooks for tests, matching the
// fixed template layout the extractors expect.
package testkit

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Missing returns the marker testkit leaves as an empty cell.
func Missing() float64 { return math.NaN() }

// Series pads values with missing markers to the 12-slot canonical grid.
func Series(values ...float64) []float64 {
	out := make([]float64, 12)
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Workbook describes one fixture workbook. Value slices hold one row per
// property: 12 canonical values for the dense sheets, 5 raw samples for the
// sparse hemogram sheet. NaN values are written as empty cells.
type Workbook struct {
	MonitoringProps []string
	Monitoring      [][]float64
	BloodGasProps   []string
	BloodGas        [][]float64
	HemogramProps   []string
	Hemogram        [][]float64
	OmitSheets      []string
}

// Write materializes the fixture at path.
func (w Workbook) Write(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	omitted := make(map[string]bool)
	for _, name := range w.OmitSheets {
		omitted[name] = true
	}

	if !omitted["Suivi"] {
		if _, err := f.NewSheet("Suivi"); err != nil {
			return err
		}
		for row := 1; row <= 13; row++ {
			f.SetCellValue("Suivi", fmt.Sprintf("A%d", row), fmt.Sprintf("field %d", row))
			f.SetCellValue("Suivi", fmt.Sprintf("B%d", row), fmt.Sprintf("value %d", row))
		}
	}

	if !omitted["Data"] {
		if _, err := f.NewSheet("Data"); err != nil {
			return err
		}
		// Header row 6 from column C, one column per property, values C7:U18.
		for p, name := range w.MonitoringProps {
			col := 3 + p
			setCell(f, "Data", col, 6, name)
			for i, v := range valuesFor(w.Monitoring, p, 12) {
				setNumeric(f, "Data", col, 7+i, v)
			}
		}
	}

	if !omitted["Gaz du sang"] {
		if _, err := f.NewSheet("Gaz du sang"); err != nil {
			return err
		}
		// Header column A from row 6, one row per property, values B6:M30.
		for p, name := range w.BloodGasProps {
			row := 6 + p
			setCell(f, "Gaz du sang", 1, row, name)
			for i, v := range valuesFor(w.BloodGas, p, 12) {
				setNumeric(f, "Gaz du sang", 2+i, row, v)
			}
		}
	}

	if !omitted["NFS"] {
		if _, err := f.NewSheet("NFS"); err != nil {
			return err
		}
		// Header column C from row 3; five raw samples per property at
		// column offsets 0, 2, 4, 6, 8 from column D.
		offsets := []int{0, 2, 4, 6, 8}
		for p, name := range w.HemogramProps {
			row := 3 + p
			setCell(f, "NFS", 3, row, name)
			for i, v := range valuesFor(w.Hemogram, p, 5) {
				setNumeric(f, "NFS", 4+offsets[i], row, v)
			}
		}
	}

	f.DeleteSheet("Sheet1")
	return f.SaveAs(path)
}

func valuesFor(rows [][]float64, p, n int) []float64 {
	if p < len(rows) {
		return rows[p]
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, value)
}

func setNumeric(f *excelize.File, sheet string, col, row int, value float64) {
	if math.IsNaN(value) {
		return
	}
	setCell(f, sheet, col, row, value)
}
