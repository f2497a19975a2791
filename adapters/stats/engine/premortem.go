package engine

import (
	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/domain/timegrid"
)

// PremortemResult is the outcome of the endpoint-aligned time effect: the
// omnibus p-value and the all-pairs posthoc matrix, both labeled with
// endpoint-relative positions, plus the subjects that survived alignment.
type PremortemResult struct {
	Property string
	Labels   []string
	Subjects []string
	PValue   float64
	Pairwise dataset.PValueMatrix
}

// PremortemTimeEffect re-anchors each member's series on its last observed
// sample instead of absolute time, so death-censored subjects with unequal
// series lengths become comparable: each surviving subject contributes its
// baseline plus the n samples ending at its last observation. Subjects with
// a missing baseline, no observation at all, or fewer than n samples
// strictly before the last observation are excluded with a logged reason.
func PremortemTimeEffect(m *dataset.Matrix, n int) (*PremortemResult, error) {
	if n < 1 || n > timegrid.MaxPremortemWindow {
		return nil, core.NewInvalidWindowError(n, timegrid.MaxPremortemWindow)
	}

	labels := timegrid.PremortemLabels(n)
	var subjects []string
	var aligned [][]float64 // one endpoint-relative series per subject

	for j, subject := range m.Subjects {
		series := dataset.Series{Times: m.Times, Values: m.Column(j)}

		baseline := series.Values[0]
		if dataset.IsMissing(baseline) {
			logger.Warn("premortem %q: baseline %s is undefined for subject %q, excluded", m.Property, m.Times[0], subject)
			continue
		}

		last, ok := series.LastObserved()
		if !ok {
			logger.Warn("premortem %q: no observed sample for subject %q, excluded", m.Property, subject)
			continue
		}
		if last < n {
			logger.Warn("premortem %q: subject %q has fewer than %d samples before its last observation, excluded", m.Property, subject, n)
			continue
		}

		window := make([]float64, 0, n+1)
		window = append(window, baseline)
		window = append(window, series.Values[last-n+1:last+1]...)
		aligned = append(aligned, window)
		subjects = append(subjects, subject)
	}

	if len(subjects) == 0 {
		return nil, core.NewInvalidPoolDataError("no subject survived premortem alignment")
	}

	// Stack per-subject series into one sample per relative position.
	samples := make([][]float64, n+1)
	for pos := 0; pos <= n; pos++ {
		sample := make([]float64, len(aligned))
		for s := range aligned {
			sample[s] = aligned[s][pos]
		}
		samples[pos] = sample
	}

	return &PremortemResult{
		Property: m.Property,
		Labels:   labels,
		Subjects: subjects,
		PValue:   Friedman(samples),
		Pairwise: Dunn(samples, labels),
	}, nil
}
