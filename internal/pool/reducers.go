package pool

import (
	"github.com/montanaflynn/stats"

	"vitalstat/domain/core"
	"vitalstat/domain/dataset"
	"vitalstat/domain/timegrid"
)

// reducerFunc collapses the non-missing member values at one time point.
type reducerFunc func([]float64) float64

// ReducerNames lists the registered reduction statistics in report order.
var ReducerNames = []string{"mean", "std", "median", "min", "max", "count", "q25", "q75"}

var reducers = map[string]reducerFunc{
	"mean":   montanaflynn(stats.Mean),
	"std":    montanaflynn(stats.StandardDeviation),
	"median": montanaflynn(stats.Median),
	"min":    montanaflynn(stats.Min),
	"max":    montanaflynn(stats.Max),
	"count":  func(data []float64) float64 { return float64(len(data)) },
	"q25":    percentile(25),
	"q75":    percentile(75),
}

// montanaflynn adapts a stats function: an empty sample reduces to the
// missing marker instead of an error.
func montanaflynn(f func(stats.Float64Data) (float64, error)) reducerFunc {
	return func(data []float64) float64 {
		v, err := f(data)
		if err != nil {
			return dataset.Missing()
		}
		return v
	}
}

func percentile(p float64) reducerFunc {
	return func(data []float64) float64 {
		v, err := stats.Percentile(data, p)
		if err != nil {
			return dataset.Missing()
		}
		return v
	}
}

// ReducedTable holds summary statistics per canonical time: rows follow the
// grid, columns are the selected statistics.
type ReducedTable struct {
	Property   string
	Times      []string
	Statistics []string
	Values     [][]float64 // Values[timeIdx][statIdx]
}

// ReducedStatistics reduces the pooled matrix for a property with the
// selected statistics. A nil selection means every registered reducer;
// unrecognized names are dropped, and an empty intersection is
// InvalidPoolData.
func (p *Pool) ReducedStatistics(property string, statistics []string) (*ReducedTable, error) {
	selected := selectReducers(statistics)
	if len(selected) == 0 {
		return nil, core.NewInvalidPoolDataError("no recognized statistics for reducing the pool data")
	}

	matrix, err := p.PooledMatrix(property)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, timegrid.Length)
	for i := range matrix.Times {
		observed := dropMissing(matrix.Row(i))
		row := make([]float64, len(selected))
		for j, name := range selected {
			row[j] = reducers[name](observed)
		}
		values[i] = row
	}

	return &ReducedTable{
		Property:   property,
		Times:      matrix.Times,
		Statistics: selected,
		Values:     values,
	}, nil
}

// selectReducers intersects the request with the registered set, keeping
// registered order so reports are stable.
func selectReducers(statistics []string) []string {
	if statistics == nil {
		return append([]string(nil), ReducerNames...)
	}
	requested := make(map[string]bool, len(statistics))
	for _, name := range statistics {
		requested[name] = true
	}
	var selected []string
	for _, name := range ReducerNames {
		if requested[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !dataset.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
