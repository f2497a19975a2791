// Package dataset holds the canonical in-memory tables produced by the
// workbook extractors and consumed by the statistics engine. A missing
// sample is an explicit NaN cell, never an absent entry.
package dataset

import (
	"math"

	"vitalstat/domain/core"
	"vitalstat/domain/timegrid"
)

// Missing is the marker for a sample that was not taken.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a cell holds the missing-sample marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Table is one subject's canonical table: rows are the canonical time grid,
// columns are properties. Built once at load time, read-only afterwards.
type Table struct {
	subject    string
	properties []string
	columns    map[string][]float64
}

// NewTable creates an empty table for a subject.
func NewTable(subject string) *Table {
	return &Table{
		subject: subject,
		columns: make(map[string][]float64),
	}
}

// Subject returns the subject identifier (derived from the source filename).
func (t *Table) Subject() string { return t.subject }

// Properties returns the property names in source order.
func (t *Table) Properties() []string {
	out := make([]string, len(t.properties))
	copy(out, t.properties)
	return out
}

// HasProperty reports whether the table carries the property.
func (t *Table) HasProperty(property string) bool {
	_, ok := t.columns[property]
	return ok
}

// AddColumn appends a property column. The column must span the canonical
// grid exactly, and property names must be unique across the three source
// sheets: a collision is a structural workbook defect.
func (t *Table) AddColumn(property string, values []float64) error {
	if len(values) != timegrid.Length {
		return core.NewInvalidWorkbookError("property " + property + " does not span the canonical grid")
	}
	if _, ok := t.columns[property]; ok {
		return core.NewInvalidWorkbookError("duplicate property " + property + " across sheets")
	}
	col := make([]float64, timegrid.Length)
	copy(col, values)
	t.properties = append(t.properties, property)
	t.columns[property] = col
	return nil
}

// PropertySlice returns one property's values over the canonical grid.
func (t *Table) PropertySlice(property string) (Series, error) {
	col, ok := t.columns[property]
	if !ok {
		return Series{}, core.NewUnknownPropertyError(property)
	}
	values := make([]float64, timegrid.Length)
	copy(values, col)
	return Series{Times: timegrid.Labels(), Values: values}, nil
}

// TimeSlice returns every property's value at one canonical time.
func (t *Table) TimeSlice(label string) (map[string]float64, error) {
	row, ok := timegrid.Index(label)
	if !ok {
		return nil, core.NewInvalidTimeError(label)
	}
	out := make(map[string]float64, len(t.properties))
	for _, property := range t.properties {
		out[property] = t.columns[property][row]
	}
	return out, nil
}

// Series is an ordered values-over-time slice for one property.
type Series struct {
	Times  []string
	Values []float64
}

// LastObserved returns the index of the last non-missing sample, scanning
// backward from the end of the series.
func (s Series) LastObserved() (int, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !IsMissing(s.Values[i]) {
			return i, true
		}
	}
	return 0, false
}
