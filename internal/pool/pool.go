// Package pool groups subjects for joint statistical analysis. A pool keeps
// an ordered, deduplicated set of subject identifiers and resolves them
// against the subject registry at read time, so pooled matrices always
// reflect the current registry state.
package pool

import (
	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/domain/timegrid"
	"vitalstat/internal"
	"vitalstat/internal/registry"
)

// Pool is an ordered set of subjects backed by a registry.
type Pool struct {
	registry *registry.SubjectRegistry
	subjects []string
	logger   *internal.Logger
}

// New creates an empty pool over a registry.
func New(reg *registry.SubjectRegistry) *Pool {
	return &Pool{
		registry: reg,
		subjects: nil,
		logger:   internal.DefaultLogger,
	}
}

// Add appends a subject. Adding a subject twice, or one unknown to the
// registry, is a no-op.
func (p *Pool) Add(subject string) {
	for _, existing := range p.subjects {
		if existing == subject {
			return
		}
	}
	if !p.registry.Contains(subject) {
		p.logger.Warn("pool: subject %q is not loaded, ignored", subject)
		return
	}
	p.subjects = append(p.subjects, subject)
}

// Remove drops a subject from the pool. Unknown subjects are a no-op.
func (p *Pool) Remove(subject string) {
	for i, existing := range p.subjects {
		if existing == subject {
			p.subjects = append(p.subjects[:i], p.subjects[i+1:]...)
			return
		}
	}
}

// Subjects returns the member identifiers in insertion order.
func (p *Pool) Subjects() []string {
	out := make([]string, len(p.subjects))
	copy(out, p.subjects)
	return out
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.subjects)
}

// PooledMatrix builds the time × subject matrix for one property. A member
// whose record lacks the property is dropped with a logged warning; zero
// resolvable members is InvalidPoolData.
func (p *Pool) PooledMatrix(property string) (*dataset.Matrix, error) {
	var members []string
	var columns []dataset.Series

	for _, subject := range p.subjects {
		table, ok := p.registry.Get(subject)
		if !ok {
			p.logger.Warn("pool: subject %q vanished from the registry, skipped", subject)
			continue
		}
		slice, err := table.PropertySlice(property)
		if err != nil {
			p.logger.Warn("pool: %v for subject %q, skipped", err, subject)
			continue
		}
		members = append(members, subject)
		columns = append(columns, slice)
	}

	if len(members) == 0 {
		return nil, core.NewInvalidPoolDataError("no valid subject was found for this pool")
	}

	values := make([][]float64, timegrid.Length)
	for i := range values {
		row := make([]float64, len(members))
		for j := range members {
			row[j] = columns[j].Values[i]
		}
		values[i] = row
	}

	return &dataset.Matrix{
		Property: property,
		Times:    timegrid.Labels(),
		Subjects: members,
		Values:   values,
	}, nil
}
