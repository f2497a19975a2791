// Package groups holds the named subject pools of one analysis session and
// fans statistical queries out across the selected ones.
package groups

import (
	"vitalstat/adapters/stats/engine"
	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/internal"
	"vitalstat/internal/pool"
)

// Group is a named pool with a selection flag controlling its inclusion in
// cross-group statistics.
type Group struct {
	Name     string
	Pool     *pool.Pool
	Selected bool
}

// Registry is the ordered collection of groups. Order is kept in an explicit
// key slice so reports are stable.
type Registry struct {
	order  []string
	groups map[string]*Group
	logger *internal.Logger
}

// New creates an empty group registry.
func New() *Registry {
	return &Registry{
		groups: make(map[string]*Group),
		logger: internal.DefaultLogger,
	}
}

// Add registers a named pool, selected by default. Re-adding a known name is
// a no-op.
func (r *Registry) Add(name string, p *pool.Pool) {
	if _, ok := r.groups[name]; ok {
		return
	}
	r.order = append(r.order, name)
	r.groups[name] = &Group{Name: name, Pool: p, Selected: true}
}

// Get resolves a group by name.
func (r *Registry) Get(name string) (*Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// SetSelected toggles a group's inclusion in cross-group statistics.
// Unknown names are a no-op.
func (r *Registry) SetSelected(name string, selected bool) {
	if g, ok := r.groups[name]; ok {
		g.Selected = selected
	}
}

// Names returns every group name in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of groups.
func (r *Registry) Len() int {
	return len(r.order)
}

// selected returns the selected groups in insertion order.
func (r *Registry) selected() []*Group {
	var out []*Group
	for _, name := range r.order {
		if g := r.groups[name]; g.Selected {
			out = append(out, g)
		}
	}
	return out
}

// pooledSamples builds the per-group pooled matrices for a property. A group
// whose pool cannot produce a matrix is skipped with a logged error.
func (r *Registry) pooledSamples(property string) []engine.GroupSamples {
	var samples []engine.GroupSamples
	for _, g := range r.selected() {
		matrix, err := g.Pool.PooledMatrix(property)
		if err != nil {
			r.logger.Error("group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		samples = append(samples, engine.GroupSamples{Name: g.Name, Matrix: matrix})
	}
	return samples
}

// EvaluateGlobalGroupEffect runs the omnibus between-group test per
// canonical time over the selected groups. Fewer than two usable groups is
// InvalidPoolData.
func (r *Registry) EvaluateGlobalGroupEffect(property string) (*engine.GroupEffectTable, error) {
	return engine.GlobalGroupEffect(property, r.pooledSamples(property))
}

// EvaluatePairwiseGroupEffect runs the all-pairs posthoc per canonical time
// over the selected groups.
func (r *Registry) EvaluatePairwiseGroupEffect(property string) (*engine.PairwiseGroupEffectTable, error) {
	return engine.PairwiseGroupEffect(property, r.pooledSamples(property))
}

// TimeEffectResult reports one repeated-measures p-value per group.
type TimeEffectResult struct {
	Property string
	Groups   []string
	PValues  []float64
}

// PairwiseTimeEffectResult reports one posthoc matrix per group, labeled
// with that group's eligible times.
type PairwiseTimeEffectResult struct {
	Property string
	Groups   []string
	Matrices []dataset.PValueMatrix
}

// EvaluateGlobalTimeEffect runs the time effect independently for each
// selected group. A group that cannot produce usable data is skipped with a
// logged error; zero usable groups is InvalidPoolData.
func (r *Registry) EvaluateGlobalTimeEffect(property string) (*TimeEffectResult, error) {
	result := &TimeEffectResult{Property: property}
	for _, g := range r.selected() {
		matrix, err := g.Pool.PooledMatrix(property)
		if err != nil {
			r.logger.Error("time effect: group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		result.Groups = append(result.Groups, g.Name)
		result.PValues = append(result.PValues, engine.GlobalTimeEffect(matrix))
	}
	if len(result.Groups) == 0 {
		return nil, core.NewInvalidPoolDataError("no usable group for the time effect")
	}
	return result, nil
}

// EvaluatePairwiseTimeEffect runs the posthoc time comparison independently
// for each selected group, skipping groups without usable data.
func (r *Registry) EvaluatePairwiseTimeEffect(property string) (*PairwiseTimeEffectResult, error) {
	result := &PairwiseTimeEffectResult{Property: property}
	for _, g := range r.selected() {
		matrix, err := g.Pool.PooledMatrix(property)
		if err != nil {
			r.logger.Error("pairwise time effect: group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		pairwise, err := engine.PairwiseTimeEffect(matrix)
		if err != nil {
			r.logger.Error("pairwise time effect: group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		result.Groups = append(result.Groups, g.Name)
		result.Matrices = append(result.Matrices, pairwise)
	}
	if len(result.Groups) == 0 {
		return nil, core.NewInvalidPoolDataError("no usable group for the pairwise time effect")
	}
	return result, nil
}

// EvaluatePremortemTimeEffect runs the endpoint-aligned time effect
// independently for each selected group.
func (r *Registry) EvaluatePremortemTimeEffect(property string, window int) ([]*engine.PremortemResult, []string, error) {
	var results []*engine.PremortemResult
	var names []string
	for _, g := range r.selected() {
		matrix, err := g.Pool.PooledMatrix(property)
		if err != nil {
			r.logger.Error("premortem: group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		result, err := engine.PremortemTimeEffect(matrix, window)
		if err != nil {
			if core.IsInvalidTime(err) {
				return nil, nil, err
			}
			r.logger.Error("premortem: group %q skipped for property %q: %v", g.Name, property, err)
			continue
		}
		results = append(results, result)
		names = append(names, g.Name)
	}
	if len(results) == 0 {
		return nil, nil, core.NewInvalidPoolDataError("no usable group for the premortem time effect")
	}
	return results, names, nil
}
