// Package registry holds the subjects loaded for one analysis session.
package registry

import (
	"vitalstat/domain/dataset"
)

// SubjectRegistry maps subject identifiers to their canonical tables.
// Insertion order is kept explicitly; subjects are only ever appended.
type SubjectRegistry struct {
	order  []string
	tables map[string]*dataset.Table
}

// New creates an empty registry.
func New() *SubjectRegistry {
	return &SubjectRegistry{
		tables: make(map[string]*dataset.Table),
	}
}

// Add registers a subject's table. Re-adding a known subject is a no-op.
func (r *SubjectRegistry) Add(table *dataset.Table) {
	if _, ok := r.tables[table.Subject()]; ok {
		return
	}
	r.order = append(r.order, table.Subject())
	r.tables[table.Subject()] = table
}

// Get resolves a subject identifier.
func (r *SubjectRegistry) Get(subject string) (*dataset.Table, bool) {
	table, ok := r.tables[subject]
	return table, ok
}

// Contains reports whether a subject has been loaded.
func (r *SubjectRegistry) Contains(subject string) bool {
	_, ok := r.tables[subject]
	return ok
}

// Subjects returns the loaded subject identifiers in insertion order.
func (r *SubjectRegistry) Subjects() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of loaded subjects.
func (r *SubjectRegistry) Len() int {
	return len(r.order)
}

// Properties returns the union of the loaded subjects' property names, in
// first-seen order.
func (r *SubjectRegistry) Properties() []string {
	var out []string
	seen := make(map[string]bool)
	for _, subject := range r.order {
		for _, property := range r.tables[subject].Properties() {
			if !seen[property] {
				seen[property] = true
				out = append(out, property)
			}
		}
	}
	return out
}
