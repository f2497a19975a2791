package exporter

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vitalstat/domain/dataset"
	"vitalstat/internal/errors"
	"vitalstat/internal/groups"
	"vitalstat/internal/pool"
	"vitalstat/internal/registry"
)

func fixtureGroups(t *testing.T) *groups.Registry {
	t.Helper()
	subjects := registry.New()
	add := func(subject string, values ...float64) {
		table := dataset.NewTable(subject)
		padded := make([]float64, 12)
		for i := range padded {
			if i < len(values) {
				padded[i] = values[i]
			} else {
				padded[i] = math.NaN()
			}
		}
		require.NoError(t, table.AddColumn("FC", padded))
		subjects.Add(table)
	}
	add("a", 1, 2, 3)
	add("b", 2, 3, 4)
	add("c", 3, 4, 5)
	add("d", 4, 5, 6)
	add("e", 5, 6, 7)
	add("f", 6, 7, 8)

	low := pool.New(subjects)
	low.Add("a")
	low.Add("b")
	low.Add("c")
	high := pool.New(subjects)
	high.Add("d")
	high.Add("e")
	high.Add("f")

	reg := groups.New()
	reg.Add("low", low)
	reg.Add("high", high)
	return reg
}

func TestExportGroupEffects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "group-effects.xlsx")
	e := New(fixtureGroups(t))
	require.NoError(t, e.ExportGroupEffects(context.Background(), path, []string{"FC"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), "FC")
	assert.NotContains(t, f.GetSheetList(), "Sheet1")

	get := func(cell string) string {
		v, err := f.GetCellValue("FC", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "time", get("A1"))
	assert.Equal(t, "n low", get("B1"))
	assert.Equal(t, "n high", get("C1"))
	assert.Equal(t, "p-value", get("D1"))

	assert.Equal(t, "T-30", get("A2"))
	assert.Equal(t, "3", get("B2"))
	assert.Equal(t, "3", get("C2"))
	assert.NotEqual(t, "nan", get("D2"))

	// T20 onward has no observation, so the p-value degrades to "nan".
	assert.Equal(t, "nan", get("D5"))

	// The pairwise block for the first time starts below the global table.
	assert.Equal(t, "t = T-30", get("A16"))
}

func TestExportTimeEffects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time-effects.xlsx")
	e := New(fixtureGroups(t))
	require.NoError(t, e.ExportTimeEffects(context.Background(), path, []string{"FC"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("FC", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "group", get("A1"))
	assert.Equal(t, "p-value", get("B1"))
	assert.Equal(t, "low", get("A2"))
	assert.Equal(t, "high", get("A3"))
	assert.NotEmpty(t, get("B2"))
}

func TestExportDescriptiveStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "describe.xlsx")
	e := New(fixtureGroups(t))
	require.NoError(t, e.ExportDescriptiveStatistics(context.Background(), path, []string{"FC"}, []string{"mean", "count"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("FC", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "low", get("A1"))
	assert.Equal(t, "time", get("A2"))
	assert.Equal(t, "mean", get("B2"))
	assert.Equal(t, "count", get("C2"))
	assert.Equal(t, "T-30", get("A3"))
	assert.Equal(t, "2", get("B3"))
	assert.Equal(t, "3", get("C3"))

	// A time with no observation at all: mean is "nan" but the count is 0.
	assert.Equal(t, "nan", get("B6"))
	assert.Equal(t, "0", get("C6"))
}

func TestExport_FailedPropertySheetDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.xlsx")
	e := New(fixtureGroups(t))
	require.NoError(t, e.ExportGroupEffects(context.Background(), path, []string{"FC", "lactate"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "FC")
	assert.NotContains(t, f.GetSheetList(), "lactate")
}

func TestExport_NoExportableProperty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	e := New(fixtureGroups(t))

	err := e.ExportGroupEffects(context.Background(), path, []string{"lactate"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExportFailed, errors.GetCode(err))

	err = e.ExportGroupEffects(context.Background(), path, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "PaO2-FiO2", sheetName("PaO2/FiO2"))
	assert.Equal(t, "property", sheetName(""))
	long := "a very long physiological property name indeed"
	assert.Len(t, []rune(sheetName(long)), 31)
}
