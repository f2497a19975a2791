package groups

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/internal/pool"
	"vitalstat/internal/registry"
)

// fixture loads a shared registry with one property and builds a pool per
// group from explicit per-subject series.
func fixture(t *testing.T, groups map[string]map[string][]float64, order []string) *Registry {
	t.Helper()
	subjects := registry.New()
	pools := make(map[string]*pool.Pool)
	for _, name := range order {
		p := pool.New(subjects)
		for subject, values := range groups[name] {
			table := dataset.NewTable(subject)
			padded := make([]float64, 12)
			for i := range padded {
				if i < len(values) {
					padded[i] = values[i]
				} else {
					padded[i] = math.NaN()
				}
			}
			require.NoError(t, table.AddColumn("FC", padded))
			subjects.Add(table)
			p.Add(subject)
		}
		pools[name] = p
	}
	reg := New()
	for _, name := range order {
		reg.Add(name, pools[name])
	}
	return reg
}

func TestRegistry_AddKeepsOrderAndIgnoresDuplicates(t *testing.T) {
	reg := New()
	subjects := registry.New()
	reg.Add("b", pool.New(subjects))
	reg.Add("a", pool.New(subjects))
	reg.Add("b", pool.New(subjects))

	assert.Equal(t, []string{"b", "a"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_SelectionControlsEvaluation(t *testing.T) {
	reg := fixture(t, map[string]map[string][]float64{
		"low":  {"a": {1}, "b": {2}, "c": {3}},
		"high": {"d": {4}, "e": {5}, "f": {6}},
		"mid":  {"g": {2}, "h": {3}, "i": {4}},
	}, []string{"low", "high", "mid"})

	reg.SetSelected("mid", false)

	table, err := reg.EvaluateGlobalGroupEffect("FC")
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, table.Groups)
	assert.InDelta(t, 0.0495, table.PValues[0], 1e-3)

	// Deselecting below two groups leaves nothing to compare.
	reg.SetSelected("high", false)
	_, err = reg.EvaluateGlobalGroupEffect("FC")
	assert.True(t, core.IsInvalidPoolData(err))
}

func TestRegistry_SkipsGroupWithoutProperty(t *testing.T) {
	reg := fixture(t, map[string]map[string][]float64{
		"low":   {"a": {1}, "b": {2}, "c": {3}},
		"high":  {"d": {4}, "e": {5}, "f": {6}},
		"empty": {},
	}, []string{"low", "high", "empty"})

	table, err := reg.EvaluateGlobalGroupEffect("FC")
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, table.Groups)
}

func TestRegistry_TimeEffects(t *testing.T) {
	reg := fixture(t, map[string]map[string][]float64{
		"g1": {
			"a": {1, 2, 3},
			"b": {2, 3, 4},
			"c": {3, 4, 5},
			"d": {4, 5, 6},
		},
		"empty": {},
	}, []string{"g1", "empty"})

	global, err := reg.EvaluateGlobalTimeEffect("FC")
	require.NoError(t, err)
	require.Equal(t, []string{"g1"}, global.Groups)
	assert.InDelta(t, 0.01832, global.PValues[0], 1e-4)

	pairwise, err := reg.EvaluatePairwiseTimeEffect("FC")
	require.NoError(t, err)
	require.Equal(t, []string{"g1"}, pairwise.Groups)
	assert.Equal(t, []string{"T-30", "T0", "T10"}, pairwise.Matrices[0].Labels)
}

func TestRegistry_TimeEffectNoUsableGroup(t *testing.T) {
	reg := fixture(t, map[string]map[string][]float64{
		"empty": {},
	}, []string{"empty"})

	_, err := reg.EvaluateGlobalTimeEffect("FC")
	assert.True(t, core.IsInvalidPoolData(err))
}

func TestRegistry_Premortem(t *testing.T) {
	reg := fixture(t, map[string]map[string][]float64{
		"g1": {
			"x": {10, 1, 2, 3},
			"w": {8, 1, 2, 3},
		},
	}, []string{"g1"})

	results, names, err := reg.EvaluatePremortemTimeEffect("FC", 3)
	require.NoError(t, err)
	require.Equal(t, []string{"g1"}, names)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"baseline", "end-2", "end-1", "end"}, results[0].Labels)

	// An out-of-range window is a hard error, not a skip.
	_, _, err = reg.EvaluatePremortemTimeEffect("FC", 0)
	assert.True(t, core.IsInvalidTime(err))
}
