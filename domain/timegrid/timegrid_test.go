package timegrid

import (
	"testing"
)

func TestGrid_TwelveOrderedLabels(t *testing.T) {
	if len(Times) != Length {
		t.Fatalf("Expected %d canonical times, got %d", Length, len(Times))
	}
	for i, label := range Times {
		idx, ok := Index(label)
		if !ok {
			t.Errorf("Label %q not indexed", label)
		}
		if idx != i {
			t.Errorf("Label %q indexed at %d, want %d", label, idx, i)
		}
	}
	if Contains("T7H") {
		t.Error("T7H should not be a registered time")
	}
}

func TestLabels_ReturnsACopy(t *testing.T) {
	labels := Labels()
	labels[0] = "mutated"
	if Times[0] != "T-30" {
		t.Error("Labels() must not alias the canonical grid")
	}
}

func TestPremortemLabels(t *testing.T) {
	got := PremortemLabels(3)
	want := []string{"baseline", "end-2", "end-1", "end"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d labels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Label %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if got := PremortemLabels(1); len(got) != 2 || got[0] != "baseline" || got[1] != "end" {
		t.Errorf("PremortemLabels(1) = %v", got)
	}
}

func TestMaxPremortemWindow(t *testing.T) {
	if MaxPremortemWindow != Length-2 {
		t.Errorf("MaxPremortemWindow = %d, want %d", MaxPremortemWindow, Length-2)
	}
}
