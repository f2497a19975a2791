package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"vitalstat/domain/dataset"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// RankSum runs the two-sided Wilcoxon rank-sum (Mann-Whitney) test on two
// independent samples using the large-sample normal approximation with a
// tie-corrected variance. Either sample empty, or a fully tied pooling,
// yields NaN.
func RankSum(x, y []float64) float64 {
	n1 := float64(len(x))
	n2 := float64(len(y))
	if n1 == 0 || n2 == 0 {
		return dataset.Missing()
	}

	pooled, _ := concat([][]float64{x, y})
	ranks, ties := midRanks(pooled)

	var w float64
	for i := 0; i < len(x); i++ {
		w += ranks[i]
	}

	n := n1 + n2
	expected := n1 * (n + 1) / 2
	variance := n1 * n2 / 12 * ((n + 1) - tieSum(ties)/(n*(n-1)))
	if variance <= 0 {
		logger.Warn("rank-sum test degenerated: all %d pooled values tied", int(n))
		return dataset.Missing()
	}

	z := (w - expected) / math.Sqrt(variance)
	return 2 * stdNormal.Survival(math.Abs(z))
}
