// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

package features

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows × FeatureLen feature matrix backed by gonum.
// It is read-only once built.
//
// gonum cannot represent zero-sized dense matrices, so an empty catalog or an
// empty column selection yields a Matrix without backing storage whose rows
// (if any) are all empty vectors.
type Matrix struct {
	dense  *mat.Dense
	rows   int
	cols   int
	schema *Schema
}

// NewMatrix wraps precomputed feature vectors laid out row-major.
// data is copied. Values must be finite.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %d×%d", ErrShape, len(data), rows, cols)
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w at row %d, column %d", ErrNonFinite, i/cols, i%cols)
		}
	}
	return newMatrix(rows, cols, slices.Clone(data), nil), nil
}

// newMatrix takes ownership of data.
func newMatrix(rows, cols int, data []float64, schema *Schema) *Matrix {
	m := &Matrix{rows: rows, cols: cols, schema: schema}
	if rows > 0 && cols > 0 {
		m.dense = mat.NewDense(rows, cols, data)
	}
	return m
}

// Rows returns the number of feature vectors.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the feature length.
func (m *Matrix) Cols() int {
	return m.cols
}

// At returns the feature j of row i. It panics when out of range.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("features: index (%d, %d) out of range %d×%d", i, j, m.rows, m.cols))
	}
	return m.dense.At(i, j)
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	return slices.Clone(m.RowView(i))
}

// RowView returns row i without copying. Callers must not modify it.
func (m *Matrix) RowView(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("features: row %d out of range [0, %d)", i, m.rows))
	}
	if m.dense == nil {
		return []float64{}
	}
	return m.dense.RawRowView(i)
}

// Dense returns the backing gonum matrix, or nil when the matrix is empty.
// The returned value must be treated as read-only.
func (m *Matrix) Dense() *mat.Dense {
	return m.dense
}

// Schema returns the frozen layout the matrix was built with.
// It is nil for matrices created with NewMatrix.
func (m *Matrix) Schema() *Schema {
	return m.schema
}

// Equal reports whether both matrices have the same shape and identical values.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	if m.dense == nil || other.dense == nil {
		return m.dense == nil && other.dense == nil
	}
	return mat.Equal(m.dense, other.dense)
}
