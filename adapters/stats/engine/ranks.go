// Package engine implements the non-parametric tests used by the monitoring
// workflow: the two-group rank-sum test, the Kruskal-Wallis rank ANOVA, the
// Friedman repeated-measures test, the Dunn all-pairs posthoc, and the
// premortem alignment procedure for death-censored series.
//
// Every function takes plain samples with NaN already stripped (or, for the
// repeated-measures tests, aligned blocks); a computation that degenerates
// (all values tied, too few samples) yields NaN rather than an error.
package engine

import (
	"sort"

	"vitalstat/domain/dataset"
	"vitalstat/internal"
)

var logger = internal.DefaultLogger

// midRanks assigns 1-based ranks to values, averaging ranks over ties.
// It also returns the size of each tie group for variance corrections.
func midRanks(values []float64) ([]float64, []int) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	var ties []int
	for i := 0; i < n; {
		j := i
		for j < n && values[order[j]] == values[order[i]] {
			j++
		}
		// Average rank for positions i..j-1 (1-based)
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		ties = append(ties, j-i)
		i = j
	}
	return ranks, ties
}

// tieSum computes sum(t^3 - t) over tie groups.
func tieSum(ties []int) float64 {
	var sum float64
	for _, t := range ties {
		ft := float64(t)
		sum += ft*ft*ft - ft
	}
	return sum
}

// concat flattens samples into one slice, remembering group boundaries.
func concat(samples [][]float64) ([]float64, []int) {
	var pooled []float64
	sizes := make([]int, len(samples))
	for i, sample := range samples {
		sizes[i] = len(sample)
		pooled = append(pooled, sample...)
	}
	return pooled, sizes
}

// dropMissing filters the missing marker out of a sample.
func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !dataset.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

func hasMissing(values []float64) bool {
	for _, v := range values {
		if dataset.IsMissing(v) {
			return true
		}
	}
	return false
}
