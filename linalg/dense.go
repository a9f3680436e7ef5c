// Package linalg holds the small dense linear algebra the hedge solver needs:
// an owned row-major matrix buffer and a Gauss–Jordan solve with partial pivoting.
//
// Matrices here are tiny (tens of rows at most), so nothing is blocked or
// vectorised; loops run in a fixed i→j order and results are deterministic.
package linalg

import (
	"fmt"
	"math"
	"strings"
)

// Dense is a rows×cols matrix stored row-major in a single slice it owns.
type Dense struct {
	r, c int
	data []float64
}

// NewDense allocates a zero rows×cols matrix.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, linalgErrorf("NewDense", fmt.Errorf("%dx%d: %w", rows, cols, ErrBadShape))
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFromColumns copies column vectors into a fresh matrix; column j of
// the result is cols[j]. All columns must share the same non-zero length.
func NewDenseFromColumns(cols [][]float64) (*Dense, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, linalgErrorf("NewDenseFromColumns", ErrBadShape)
	}
	rows := len(cols[0])
	m, err := NewDense(rows, len(cols))
	if err != nil {
		return nil, err
	}
	for j, col := range cols {
		if len(col) != rows {
			return nil, linalgErrorf("NewDenseFromColumns",
				fmt.Errorf("column %d has %d rows, want %d: %w", j, len(col), rows, ErrDimensionMismatch))
		}
		for i, v := range col {
			m.data[i*m.c+j] = v
		}
	}
	return m, nil
}

// NewDenseFromRows copies row vectors into a fresh matrix.
func NewDenseFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, linalgErrorf("NewDenseFromRows", ErrBadShape)
	}
	cols := len(rows[0])
	m, err := NewDense(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, linalgErrorf("NewDenseFromRows",
				fmt.Errorf("row %d has %d cols, want %d: %w", i, len(row), cols, ErrDimensionMismatch))
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// At returns m[i,j]. It panics on an out-of-range index like a slice would;
// use Get for a checked read.
func (m *Dense) At(i, j int) float64 {
	return m.data[m.mustIndex(i, j)]
}

// Get returns m[i,j] or ErrOutOfRange.
func (m *Dense) Get(i, j int) (float64, error) {
	idx, err := m.indexOf(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set writes m[i,j] = v or returns ErrOutOfRange.
func (m *Dense) Set(i, j int, v float64) error {
	idx, err := m.indexOf(i, j)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) []float64 {
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[m.mustIndex(i, j)]
	}
	return out
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) []float64 {
	out := make([]float64, m.c)
	copy(out, m.data[m.mustIndex(i, 0):m.mustIndex(i, 0)+m.c])
	return out
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Dense{r: m.r, c: m.c, data: data}
}

// String renders the matrix one row per line, mainly for test failures.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.6g", m.data[i*m.c+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *Dense) indexOf(i, j int) (int, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.r, m.c, ErrOutOfRange)
	}
	return i*m.c + j, nil
}

func (m *Dense) mustIndex(i, j int) int {
	idx, err := m.indexOf(i, j)
	if err != nil {
		panic(err)
	}
	return idx
}

// MatVec returns y = m·x.
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if len(x) != m.c {
		return nil, linalgErrorf("MatVec",
			fmt.Errorf("len(x)=%d, cols=%d: %w", len(x), m.c, ErrDimensionMismatch))
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		sum := 0.0
		for j := 0; j < m.c; j++ {
			sum += m.data[base+j] * x[j]
		}
		y[i] = sum
	}
	return y, nil
}

// Norm2 returns the Euclidean norm of v.
func Norm2(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
