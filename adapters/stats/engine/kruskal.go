package engine

import (
	"gonum.org/v1/gonum/stat/distuv"

	"vitalstat/domain/dataset"
)

// KruskalWallis runs the one-way rank-based ANOVA over k independent
// samples. The p-value comes from the chi-squared approximation with k-1
// degrees of freedom. Any empty sample, fewer than two samples, or a fully
// tied pooling yields NaN.
func KruskalWallis(samples [][]float64) float64 {
	k := len(samples)
	if k < 2 {
		return dataset.Missing()
	}
	for _, sample := range samples {
		if len(sample) == 0 {
			return dataset.Missing()
		}
	}

	pooled, sizes := concat(samples)
	ranks, ties := midRanks(pooled)
	n := float64(len(pooled))

	// H = 12/(N(N+1)) * sum n_i * Rbar_i^2 - 3(N+1)
	var h float64
	offset := 0
	for i := 0; i < k; i++ {
		var rankSum float64
		for j := 0; j < sizes[i]; j++ {
			rankSum += ranks[offset+j]
		}
		offset += sizes[i]
		h += rankSum * rankSum / float64(sizes[i])
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	correction := 1 - tieSum(ties)/(n*n*n-n)
	if correction <= 0 {
		logger.Warn("Kruskal-Wallis test degenerated: all %d pooled values tied", int(n))
		return dataset.Missing()
	}
	h /= correction

	chi2 := distuv.ChiSquared{K: float64(k - 1)}
	return chi2.Survival(h)
}
