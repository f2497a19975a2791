// Package timegrid defines the canonical sampling grid shared by every
// subject and every source sheet. The grid is fixed at twelve named time
// points; a subject table with any other time axis is invalid by construction.
package timegrid

import "fmt"

// Times is the canonical ordered sequence of sampling points.
var Times = []string{
	"T-30", "T0", "T10", "T20", "T30", "T1H",
	"T1H30", "T2H", "T3H", "T4H", "T5H", "T6H",
}

// Length is the number of canonical time points.
const Length = 12

var indexByLabel = func() map[string]int {
	m := make(map[string]int, len(Times))
	for i, label := range Times {
		m[label] = i
	}
	return m
}()

// Index returns the canonical position of a time label.
func Index(label string) (int, bool) {
	i, ok := indexByLabel[label]
	return i, ok
}

// Contains reports whether label is a registered canonical time.
func Contains(label string) bool {
	_, ok := indexByLabel[label]
	return ok
}

// Labels returns a copy of the canonical grid.
func Labels() []string {
	out := make([]string, Length)
	copy(out, Times)
	return out
}

// MaxPremortemWindow is the largest admissible premortem window size: the
// window plus the baseline must leave at least one leading sample out.
const MaxPremortemWindow = Length - 2

// PremortemLabels returns the endpoint-relative axis for a premortem series
// of window size n: the baseline followed by the n positions leading up to
// and including the last observed sample ("end").
func PremortemLabels(n int) []string {
	labels := make([]string, 0, n+1)
	labels = append(labels, "baseline")
	for i := n - 1; i > 0; i-- {
		labels = append(labels, fmt.Sprintf("end-%d", i))
	}
	labels = append(labels, "end")
	return labels
}
