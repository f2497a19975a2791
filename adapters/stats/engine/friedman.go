package engine

import (
	"gonum.org/v1/gonum/stat/distuv"

	"vitalstat/domain/dataset"
)

// Friedman runs the repeated-measures rank test over k aligned samples
// (treatments), each holding one value per block (subject). Fewer than three
// treatments, empty blocks, a missing value inside a block, or fully tied
// blocks yield NaN.
func Friedman(samples [][]float64) float64 {
	k := len(samples)
	if k < 3 {
		logger.Warn("Friedman test needs at least 3 aligned samples, got %d", k)
		return dataset.Missing()
	}
	n := len(samples[0])
	if n == 0 {
		return dataset.Missing()
	}
	for _, sample := range samples {
		if len(sample) != n {
			logger.Warn("Friedman test needs equally sized samples")
			return dataset.Missing()
		}
		if hasMissing(sample) {
			logger.Warn("Friedman test skipped: missing value inside an aligned sample")
			return dataset.Missing()
		}
	}

	// Rank within each block across the k treatments.
	rankSums := make([]float64, k)
	var tieCorrection float64
	block := make([]float64, k)
	for b := 0; b < n; b++ {
		for t := 0; t < k; t++ {
			block[t] = samples[t][b]
		}
		ranks, ties := midRanks(block)
		for t := 0; t < k; t++ {
			rankSums[t] += ranks[t]
		}
		tieCorrection += tieSum(ties)
	}

	var ssbn float64
	for _, r := range rankSums {
		ssbn += r * r
	}

	fn := float64(n)
	fk := float64(k)
	c := 1 - tieCorrection/(fn*(fk*fk*fk-fk))
	if c <= 0 {
		logger.Warn("Friedman test degenerated: every block fully tied")
		return dataset.Missing()
	}

	statistic := (12/(fn*fk*(fk+1))*ssbn - 3*fn*(fk+1)) / c

	chi2 := distuv.ChiSquared{K: fk - 1}
	return chi2.Survival(statistic)
}
