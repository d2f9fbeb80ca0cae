package vector

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix with float32 values.
//
// Row i owns Indices[Indptr[i]:Indptr[i+1]] and the matching Data entries.
// Column indices within a row are strictly increasing.
type CSR struct {
	Rows, Cols int
	Indptr     []int
	Indices    []int
	Data       []float32
}

// Entry is one non-zero value of a sparse row.
type Entry struct {
	Col   int
	Value float32
}

var _ mat.Matrix = (*CSR)(nil)

// NewCSR builds a matrix from per-row entries. Entries of a row are sorted by
// column; duplicate columns are summed.
func NewCSR(cols int, rows [][]Entry) (*CSR, error) {
	m := &CSR{
		Rows:   len(rows),
		Cols:   cols,
		Indptr: make([]int, len(rows)+1),
	}
	for i, row := range rows {
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		for k, e := range row {
			if e.Col < 0 || e.Col >= cols {
				return nil, fmt.Errorf("row %d: column %d out of range [0, %d)", i, e.Col, cols)
			}
			if k > 0 && row[k-1].Col == e.Col {
				m.Data[len(m.Data)-1] += e.Value
				continue
			}
			m.Indices = append(m.Indices, e.Col)
			m.Data = append(m.Data, e.Value)
		}
		m.Indptr[i+1] = len(m.Indices)
	}
	return m, nil
}

// Dims implements mat.Matrix.
func (m *CSR) Dims() (r, c int) { return m.Rows, m.Cols }

// At implements mat.Matrix.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.Rows || j < 0 || j >= m.Cols {
		panic(mat.ErrIndexOutOfRange)
	}
	cols := m.Indices[m.Indptr[i]:m.Indptr[i+1]]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return float64(m.Data[m.Indptr[i]+k])
	}
	return 0
}

// T implements mat.Matrix.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored values.
func (m *CSR) NNZ() int { return len(m.Data) }

// Row returns the column indices and values of row i. The slices alias the
// matrix storage.
func (m *CSR) Row(i int) ([]int, []float32) {
	lo, hi := m.Indptr[i], m.Indptr[i+1]
	return m.Indices[lo:hi], m.Data[lo:hi]
}

// SelectRows returns a new matrix made of the given rows, in that order.
func (m *CSR) SelectRows(rows []int) *CSR {
	out := &CSR{Rows: len(rows), Cols: m.Cols, Indptr: make([]int, len(rows)+1)}
	for i, r := range rows {
		idx, val := m.Row(r)
		out.Indices = append(out.Indices, idx...)
		out.Data = append(out.Data, val...)
		out.Indptr[i+1] = len(out.Indices)
	}
	return out
}

// DenseColumns gathers the given columns into a dense r×len(cols) matrix.
// Column k of the result is column cols[k] of m. With no rows or no columns
// the result is an empty gonum matrix; callers that need the width should
// wrap it with NewEmptyDense.
func (m *CSR) DenseColumns(cols []int) *mat.Dense {
	if m.Rows == 0 || len(cols) == 0 {
		return &mat.Dense{}
	}
	pos := make(map[int]int, len(cols))
	for k, c := range cols {
		pos[c] = k
	}
	out := mat.NewDense(m.Rows, len(cols), nil)
	for i := range m.Rows {
		idx, val := m.Row(i)
		for k, c := range idx {
			if p, ok := pos[c]; ok {
				out.Set(i, p, float64(val[k]))
			}
		}
	}
	return out
}

// CSC is the column-major view of a CSR matrix, used by estimators that scan
// one feature at a time.
type CSC struct {
	Rows, Cols int
	Indptr     []int
	RowIdx     []int
	Data       []float32
}

// ToCSC converts m to column-major form.
func (m *CSR) ToCSC() *CSC {
	out := &CSC{
		Rows:   m.Rows,
		Cols:   m.Cols,
		Indptr: make([]int, m.Cols+1),
		RowIdx: make([]int, len(m.Indices)),
		Data:   make([]float32, len(m.Data)),
	}
	for _, c := range m.Indices {
		out.Indptr[c+1]++
	}
	for c := range m.Cols {
		out.Indptr[c+1] += out.Indptr[c]
	}
	next := make([]int, m.Cols)
	copy(next, out.Indptr[:m.Cols])
	for i := range m.Rows {
		idx, val := m.Row(i)
		for k, c := range idx {
			p := next[c]
			out.RowIdx[p] = i
			out.Data[p] = val[k]
			next[c]++
		}
	}
	return out
}

// Column returns the row indices and values of column j, rows ascending.
func (m *CSC) Column(j int) ([]int, []float32) {
	lo, hi := m.Indptr[j], m.Indptr[j+1]
	return m.RowIdx[lo:hi], m.Data[lo:hi]
}

// CSRFrom converts any matrix to CSR, keeping its non-zero entries.
func CSRFrom(m mat.Matrix) *CSR {
	if c, ok := m.(*CSR); ok {
		return c
	}
	r, c := m.Dims()
	out := &CSR{Rows: r, Cols: c, Indptr: make([]int, r+1)}
	for i := range r {
		for j := range c {
			if v := m.At(i, j); v != 0 {
				out.Indices = append(out.Indices, j)
				out.Data = append(out.Data, float32(v))
			}
		}
		out.Indptr[i+1] = len(out.Indices)
	}
	return out
}
