// Package exporter serializes statistical results into report workbooks.
// It is a consumer of the core's tables: one sheet per property, the global
// effect table first, pairwise blocks after it. Undefined p-values are
// written as the literal string "nan".
package exporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/internal"
	"vitalstat/internal/errors"
	"vitalstat/internal/groups"
)

// Exporter writes report workbooks for a group registry.
type Exporter struct {
	groups *groups.Registry
	logger *internal.Logger
}

// New creates an exporter over a group registry.
func New(g *groups.Registry) *Exporter {
	return &Exporter{groups: g, logger: internal.DefaultLogger}
}

// ExportGroupEffects writes one sheet per property holding the per-time
// global group effect table followed by the per-time pairwise matrices.
// Each property is an independent computation; cancellation is honored
// between properties.
func (e *Exporter) ExportGroupEffects(ctx context.Context, path string, properties []string) error {
	run := core.NewRunID()
	e.logger.Info("export %s: group effects for %d properties to %s", run, len(properties), path)

	return e.writeReport(ctx, path, properties, func(f *excelize.File, sheet, property string) error {
		global, err := e.groups.EvaluateGlobalGroupEffect(property)
		if err != nil {
			return err
		}

		// Header: time | n per group | p-value
		setCell(f, sheet, 1, 1, "time")
		for j, name := range global.Groups {
			setCell(f, sheet, 2+j, 1, "n "+name)
		}
		setCell(f, sheet, 2+len(global.Groups), 1, "p-value")

		for i, label := range global.Times {
			row := i + 2
			setCell(f, sheet, 1, row, label)
			for j := range global.Groups {
				setCell(f, sheet, 2+j, row, global.Sizes[i][j])
			}
			setNumber(f, sheet, 2+len(global.Groups), row, global.PValues[i])
		}

		pairwise, err := e.groups.EvaluatePairwiseGroupEffect(property)
		if err != nil {
			return err
		}

		row := len(global.Times) + 4
		for i, label := range pairwise.Times {
			setCell(f, sheet, 1, row, fmt.Sprintf("t = %s", label))
			row = writeMatrix(f, sheet, row+1, pairwise.Matrices[i]) + 2
		}
		return nil
	})
}

// ExportTimeEffects writes one sheet per property holding each selected
// group's repeated-measures p-value and its posthoc matrix over the group's
// eligible times.
func (e *Exporter) ExportTimeEffects(ctx context.Context, path string, properties []string) error {
	run := core.NewRunID()
	e.logger.Info("export %s: time effects for %d properties to %s", run, len(properties), path)

	return e.writeReport(ctx, path, properties, func(f *excelize.File, sheet, property string) error {
		global, err := e.groups.EvaluateGlobalTimeEffect(property)
		if err != nil {
			return err
		}

		setCell(f, sheet, 1, 1, "group")
		setCell(f, sheet, 2, 1, "p-value")
		for i, name := range global.Groups {
			setCell(f, sheet, 1, i+2, name)
			setNumber(f, sheet, 2, i+2, global.PValues[i])
		}

		pairwise, err := e.groups.EvaluatePairwiseTimeEffect(property)
		if err != nil {
			// Global p-values were still written; the posthoc block is
			// simply absent for this property.
			e.logger.Error("pairwise time effect not exported for %q: %v", property, err)
			return nil
		}

		row := len(global.Groups) + 4
		for i, name := range pairwise.Groups {
			setCell(f, sheet, 1, row, name)
			row = writeMatrix(f, sheet, row+1, pairwise.Matrices[i]) + 2
		}
		return nil
	})
}

// ExportDescriptiveStatistics writes one sheet per property holding each
// selected group's reduced statistics table. A nil statistics selection
// exports every registered reducer.
func (e *Exporter) ExportDescriptiveStatistics(ctx context.Context, path string, properties []string, statistics []string) error {
	run := core.NewRunID()
	e.logger.Info("export %s: descriptive statistics for %d properties to %s", run, len(properties), path)

	return e.writeReport(ctx, path, properties, func(f *excelize.File, sheet, property string) error {
		row := 1
		wrote := false
		for _, name := range e.groups.Names() {
			g, _ := e.groups.Get(name)
			if !g.Selected {
				continue
			}
			reduced, err := g.Pool.ReducedStatistics(property, statistics)
			if err != nil {
				e.logger.Error("descriptive statistics: group %q skipped for %q: %v", name, property, err)
				continue
			}
			wrote = true

			setCell(f, sheet, 1, row, name)
			row++
			setCell(f, sheet, 1, row, "time")
			for j, stat := range reduced.Statistics {
				setCell(f, sheet, 2+j, row, stat)
			}
			row++
			for i, label := range reduced.Times {
				setCell(f, sheet, 1, row, label)
				for j := range reduced.Statistics {
					setNumber(f, sheet, 2+j, row, reduced.Values[i][j])
				}
				row++
			}
			row += 2
		}
		if !wrote {
			return core.NewInvalidPoolDataError("no group produced descriptive statistics")
		}
		return nil
	})
}

// writeReport drives the per-property sheets of one report workbook. A
// property whose computation fails is logged and its sheet dropped; the
// report is still written for the others.
func (e *Exporter) writeReport(ctx context.Context, path string, properties []string, write func(f *excelize.File, sheet, property string) error) error {
	if len(properties) == 0 {
		return errors.InvalidInput("no properties to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	wrote := 0
	for _, property := range properties {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "export cancelled")
		}
		sheet := sheetName(property)
		if _, err := f.NewSheet(sheet); err != nil {
			e.logger.Error("property %q skipped: cannot create sheet: %v", property, err)
			continue
		}
		if err := write(f, sheet, property); err != nil {
			e.logger.Error("property %q skipped: %v", property, err)
			f.DeleteSheet(sheet)
			continue
		}
		wrote++
	}

	if wrote == 0 {
		return errors.ExportFailed("no property could be exported")
	}

	// Drop the default sheet excelize creates.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "cannot save report %s", path)
	}
	e.logger.Info("report written: %s (%d properties)", path, wrote)
	return nil
}

// writeMatrix writes a labeled p-value matrix starting at startRow and
// returns the last row used.
func writeMatrix(f *excelize.File, sheet string, startRow int, m dataset.PValueMatrix) int {
	for j, label := range m.Labels {
		setCell(f, sheet, 2+j, startRow, label)
	}
	row := startRow
	for i, label := range m.Labels {
		row = startRow + 1 + i
		setCell(f, sheet, 1, row, label)
		for j := range m.Labels {
			setNumber(f, sheet, 2+j, row, m.Values[i][j])
		}
	}
	return row
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	f.SetCellValue(sheet, cell, value)
}

// setNumber writes a float, spelling NaN as the string "nan".
func setNumber(f *excelize.File, sheet string, col, row int, value float64) {
	if dataset.IsMissing(value) {
		setCell(f, sheet, col, row, "nan")
		return
	}
	setCell(f, sheet, col, row, value)
}

// sheetName maps a property to a legal sheet name: the characters Excel
// forbids are replaced and the result truncated to 31 runes.
func sheetName(property string) string {
	replacer := strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "-", "*", "-", "[", "(", "]", ")")
	name := replacer.Replace(property)
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	if name == "" {
		name = "property"
	}
	return name
}
