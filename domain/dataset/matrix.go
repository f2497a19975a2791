package dataset

// Matrix is a pooled time × subject matrix for one property: rows follow the
// canonical grid, columns are the pool members that resolved successfully.
// It is always rebuilt from registry state, never cached.
type Matrix struct {
	Property string
	Times    []string
	Subjects []string
	Values   [][]float64 // Values[timeIdx][subjectIdx]
}

// Row returns the member values at one time index.
func (m *Matrix) Row(i int) []float64 {
	return m.Values[i]
}

// Column returns one member's series over the grid.
func (m *Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.Times))
	for i := range m.Times {
		col[i] = m.Values[i][j]
	}
	return col
}

// CompleteRows returns the indexes of rows with no missing cell. Only these
// rows are eligible for the repeated-measures tests.
func (m *Matrix) CompleteRows() []int {
	var rows []int
	for i := range m.Values {
		complete := true
		for _, v := range m.Values[i] {
			if IsMissing(v) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return rows
}

// PValueMatrix is a symmetric labeled matrix of p-values. Cells that could
// not be computed hold NaN.
type PValueMatrix struct {
	Labels []string
	Values [][]float64
}

// NewNaNMatrix creates a matrix with every cell set to NaN.
func NewNaNMatrix(labels []string) PValueMatrix {
	values := make([][]float64, len(labels))
	for i := range values {
		values[i] = make([]float64, len(labels))
		for j := range values[i] {
			values[i][j] = Missing()
		}
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return PValueMatrix{Labels: out, Values: values}
}

// At returns the p-value for a pair of label indexes.
func (p PValueMatrix) At(i, j int) float64 {
	return p.Values[i][j]
}
