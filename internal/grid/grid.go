package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty is returned when a grid would have no rows or no columns.
	ErrEmpty = errors.New("grid has no values")

	// ErrRagged is returned when input rows have different lengths.
	ErrRagged = errors.New("grid rows have different lengths")
)

// Grid is an immutable 2-D array of real numbers, the raw data that gets
// normalized and color mapped. NaN cells are allowed and treated as missing.
type Grid struct {
	m *mat.Dense
}

// New copies rows into a new Grid. All rows must have the same length.
func New(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, expected %d: %w", i, len(row), cols, ErrRagged)
		}
		data = append(data, row...)
	}

	return &Grid{m: mat.NewDense(len(rows), cols, data)}, nil
}

// FromMatrix copies any gonum matrix into a new Grid.
func FromMatrix(m mat.Matrix) (*Grid, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}
	return &Grid{m: mat.DenseCopyOf(m)}, nil
}

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) {
	return g.m.Dims()
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	r, c := g.m.Dims()
	return r * c
}

// At returns the value at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.m.At(r, c)
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(v float64)) {
	raw := g.m.RawMatrix()
	for r := 0; r < raw.Rows; r++ {
		row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
		for _, v := range row {
			fn(v)
		}
	}
}

// Values returns a row-major copy of all cells.
func (g *Grid) Values() []float64 {
	out := make([]float64, 0, g.Len())
	g.Each(func(v float64) {
		out = append(out, v)
	})
	return out
}

// Row returns a copy of row r.
func (g *Grid) Row(r int) []float64 {
	return mat.Row(nil, r, g.m)
}
