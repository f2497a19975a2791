package engine

import (
	"math"

	"vitalstat/domain/dataset"
)

// Dunn runs the uncorrected all-pairs posthoc rank comparison over k
// samples, producing a symmetric labeled p-value matrix with 1 on the
// diagonal. Missing values inside a sample are dropped before ranking; a
// sample left empty makes every comparison involving it NaN.
func Dunn(samples [][]float64, labels []string) dataset.PValueMatrix {
	k := len(samples)
	result := dataset.NewNaNMatrix(labels)
	if k != len(labels) || k < 2 {
		logger.Warn("Dunn posthoc needs matching samples and labels with at least 2 entries")
		return result
	}

	observed := make([][]float64, k)
	for i, sample := range samples {
		observed[i] = dropMissing(sample)
	}

	pooled, sizes := concat(observed)
	n := float64(len(pooled))
	if n < 2 {
		return result
	}
	ranks, ties := midRanks(pooled)

	meanRanks := make([]float64, k)
	offset := 0
	for i := 0; i < k; i++ {
		if sizes[i] == 0 {
			meanRanks[i] = math.NaN()
			offset += sizes[i]
			continue
		}
		var sum float64
		for j := 0; j < sizes[i]; j++ {
			sum += ranks[offset+j]
		}
		meanRanks[i] = sum / float64(sizes[i])
		offset += sizes[i]
	}

	// Pooled variance term with tie correction, shared by every pair.
	variance := n*(n+1)/12 - tieSum(ties)/(12*(n-1))

	for i := 0; i < k; i++ {
		result.Values[i][i] = 1
		for j := i + 1; j < k; j++ {
			if sizes[i] == 0 || sizes[j] == 0 || variance <= 0 {
				continue
			}
			se := math.Sqrt(variance * (1/float64(sizes[i]) + 1/float64(sizes[j])))
			if se == 0 {
				continue
			}
			z := (meanRanks[i] - meanRanks[j]) / se
			p := 2 * stdNormal.Survival(math.Abs(z))
			result.Values[i][j] = p
			result.Values[j][i] = p
		}
	}
	return result
}
