// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/flatlattice/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestNewDenseFromRows(t *testing.T) {
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, MustAt(t, m, 1, 2))

	_, err = matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewDenseFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFromRows([][]float64{{math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestAtSetOutOfRange ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfRange(t *testing.T) {
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
}

func TestSetRejectsNonFinite(t *testing.T) {
	m := MustDense(t, 1, 1)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	assert.Equal(t, 0.0, MustAt(t, m, 0, 0), "rejected writes leave the cell untouched")
}

func TestCloneIsDeep(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	cp := m.Clone()
	require.NoError(t, m.Set(0, 0, 99))
	assert.Equal(t, 1.0, MustAt(t, cp, 0, 0))
}

func TestColAndRows2DCopy(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	col, err := m.Col(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, col)
	col[0] = -1
	assert.Equal(t, 2.0, MustAt(t, m, 0, 1))

	_, err = m.Col(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	rows := m.Rows2D()
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, rows)
}

func TestDoAndApply(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})

	var visited int
	m.Do(func(_, _ int, v float64) bool {
		visited++
		return v < 2
	})
	assert.Equal(t, 2, visited, "Do stops once the callback returns false")

	require.NoError(t, m.Apply(func(i, j int, v float64) float64 { return v * 10 }))
	assert.Equal(t, 40.0, MustAt(t, m, 1, 1))

	err := m.Apply(func(i, j int, v float64) float64 { return math.Inf(1) })
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
