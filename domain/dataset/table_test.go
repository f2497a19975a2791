package dataset

import (
	"math"
	"testing"

	"vitalstat/domain/core"
	"vitalstat/domain/timegrid"
)

func grid(values ...float64) []float64 {
	out := make([]float64, timegrid.Length)
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func TestTable_PropertySlice(t *testing.T) {
	table := NewTable("pig1")
	if err := table.AddColumn("FC", grid(60, 62, 64)); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	slice, err := table.PropertySlice("FC")
	if err != nil {
		t.Fatalf("PropertySlice failed: %v", err)
	}
	if len(slice.Values) != timegrid.Length {
		t.Fatalf("Slice does not span the grid: %d values", len(slice.Values))
	}
	if slice.Values[0] != 60 || slice.Values[2] != 64 {
		t.Errorf("Unexpected values: %v", slice.Values)
	}
	if !IsMissing(slice.Values[3]) {
		t.Error("Unset cell should be missing")
	}

	if _, err := table.PropertySlice("nope"); !core.IsUnknownProperty(err) {
		t.Errorf("Expected UnknownProperty, got %v", err)
	}
}

func TestTable_TimeSlice(t *testing.T) {
	table := NewTable("pig1")
	if err := table.AddColumn("FC", grid(60, 62)); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := table.AddColumn("pH", grid(7.4, 7.2)); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	row, err := table.TimeSlice("T0")
	if err != nil {
		t.Fatalf("TimeSlice failed: %v", err)
	}
	if row["FC"] != 62 || row["pH"] != 7.2 {
		t.Errorf("Unexpected time slice: %v", row)
	}

	if _, err := table.TimeSlice("T7H"); !core.IsInvalidTime(err) {
		t.Errorf("Expected InvalidTime, got %v", err)
	}
}

func TestTable_RejectsDuplicateAndMisshapenColumns(t *testing.T) {
	table := NewTable("pig1")
	if err := table.AddColumn("FC", grid(60)); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := table.AddColumn("FC", grid(61)); !core.IsInvalidWorkbook(err) {
		t.Errorf("Expected InvalidWorkbook on duplicate property, got %v", err)
	}
	if err := table.AddColumn("pH", []float64{7.4}); !core.IsInvalidWorkbook(err) {
		t.Errorf("Expected InvalidWorkbook on short column, got %v", err)
	}
}

func TestSeries_LastObserved(t *testing.T) {
	s := Series{Times: timegrid.Labels(), Values: grid(1, 2, 3, 4, 5, 6)}
	if idx, ok := s.LastObserved(); !ok || idx != 5 {
		t.Errorf("LastObserved = %d,%v, want 5,true", idx, ok)
	}

	empty := Series{Times: timegrid.Labels(), Values: grid()}
	if _, ok := empty.LastObserved(); ok {
		t.Error("All-missing series should have no last observation")
	}
}

func TestMatrix_CompleteRows(t *testing.T) {
	m := &Matrix{
		Property: "FC",
		Times:    []string{"T-30", "T0", "T10"},
		Subjects: []string{"a", "b"},
		Values: [][]float64{
			{1, 2},
			{1, math.NaN()},
			{3, 4},
		},
	}
	rows := m.CompleteRows()
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Errorf("CompleteRows = %v, want [0 2]", rows)
	}
}
