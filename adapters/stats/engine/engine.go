package engine

import (
	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
)

// GroupSamples pairs a group name with its pooled matrix for one property.
type GroupSamples struct {
	Name   string
	Matrix *dataset.Matrix
}

// GroupEffectTable reports the global group effect per canonical time: each
// group's sample size and the omnibus p-value (rank-sum for two groups,
// Kruskal-Wallis beyond). A time where any group has an empty sample is NaN.
type GroupEffectTable struct {
	Property string
	Times    []string
	Groups   []string
	Sizes    [][]int   // Sizes[timeIdx][groupIdx]
	PValues  []float64 // per time
}

// PairwiseGroupEffectTable reports the Dunn posthoc matrix per canonical
// time, labeled with group names. A time where any group has an empty
// sample carries a NaN-filled matrix.
type PairwiseGroupEffectTable struct {
	Property string
	Times    []string
	Groups   []string
	Matrices []dataset.PValueMatrix // per time
}

// groupSamplesAt gathers one non-missing sample per group at a time row.
func groupSamplesAt(groups []GroupSamples, timeIdx int) ([][]float64, bool) {
	samples := make([][]float64, len(groups))
	complete := true
	for i, g := range groups {
		samples[i] = dropMissing(g.Matrix.Row(timeIdx))
		if len(samples[i]) == 0 {
			complete = false
		}
	}
	return samples, complete
}

// GlobalGroupEffect evaluates, independently for each canonical time, the
// between-group hypothesis test over the supplied pooled matrices.
func GlobalGroupEffect(property string, groups []GroupSamples) (*GroupEffectTable, error) {
	if len(groups) < 2 {
		return nil, core.NewInvalidPoolDataError("group effect needs at least two groups")
	}

	times := groups[0].Matrix.Times
	table := &GroupEffectTable{
		Property: property,
		Times:    times,
		Groups:   groupNames(groups),
		Sizes:    make([][]int, len(times)),
		PValues:  make([]float64, len(times)),
	}

	for t := range times {
		samples, complete := groupSamplesAt(groups, t)
		sizes := make([]int, len(samples))
		for i, sample := range samples {
			sizes[i] = len(sample)
		}
		table.Sizes[t] = sizes

		if !complete {
			logger.Debug("group effect %q at %s: empty sample, reported as NaN", property, times[t])
			table.PValues[t] = dataset.Missing()
			continue
		}
		if len(samples) == 2 {
			table.PValues[t] = RankSum(samples[0], samples[1])
		} else {
			table.PValues[t] = KruskalWallis(samples)
		}
	}
	return table, nil
}

// PairwiseGroupEffect evaluates the all-pairs posthoc comparison per
// canonical time over the supplied pooled matrices.
func PairwiseGroupEffect(property string, groups []GroupSamples) (*PairwiseGroupEffectTable, error) {
	if len(groups) < 2 {
		return nil, core.NewInvalidPoolDataError("group effect needs at least two groups")
	}

	times := groups[0].Matrix.Times
	names := groupNames(groups)
	table := &PairwiseGroupEffectTable{
		Property: property,
		Times:    times,
		Groups:   names,
		Matrices: make([]dataset.PValueMatrix, len(times)),
	}

	for t := range times {
		samples, complete := groupSamplesAt(groups, t)
		if !complete {
			table.Matrices[t] = dataset.NewNaNMatrix(names)
			continue
		}
		table.Matrices[t] = Dunn(samples, names)
	}
	return table, nil
}

// GlobalTimeEffect runs the repeated-measures rank test across canonical
// times for one pool, using only the time rows where every member has a
// non-missing value. Too few eligible rows degrade to NaN.
func GlobalTimeEffect(m *dataset.Matrix) float64 {
	rows := m.CompleteRows()
	samples := make([][]float64, len(rows))
	for i, r := range rows {
		samples[i] = m.Row(r)
	}
	return Friedman(samples)
}

// PairwiseTimeEffect runs the all-pairs posthoc across the eligible times of
// one pool. The matrix is labeled only with the eligible time labels; zero
// eligible times is InvalidPoolData.
func PairwiseTimeEffect(m *dataset.Matrix) (dataset.PValueMatrix, error) {
	rows := m.CompleteRows()
	if len(rows) == 0 {
		return dataset.PValueMatrix{}, core.NewInvalidPoolDataError("no eligible times for the pairwise time effect")
	}
	samples := make([][]float64, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		samples[i] = m.Row(r)
		labels[i] = m.Times[r]
	}
	return Dunn(samples, labels), nil
}

func groupNames(groups []GroupSamples) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}
