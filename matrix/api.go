// SPDX-License-Identifier: MIT
// Package matrix - public API helpers.
//
// Purpose:
//   - Small constructors and comparisons shared by the lattice and tiling layers.
//   - Each helper validates through validators.go and never mutates its inputs.

package matrix

import (
	"errors"
	"fmt"
	"math"
)

const (
	opAllClose = "AllClose"
	opBilinear = "Bilinear"
)

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// AllClose reports whether |a[i,j] - b[i,j]| ≤ atol + rtol*|b[i,j]| holds
// element-wise. NaN never compares equal; equal infinities do.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|.
//
// Time: O(r*c). Space: O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateShape(b, a.Rows(), a.Cols()); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	var (
		i, j   int
		av, bv float64
		err    error
	)
	for i = 0; i < a.Rows(); i++ {
		for j = 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if av == bv {
				continue // covers equal infinities
			}
			if math.IsNaN(av) || math.IsNaN(bv) || math.IsInf(av, 0) || math.IsInf(bv, 0) {
				return false, nil
			}
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}

// Bilinear evaluates the bilinear form xᵀ·G·y for a square G.
//
// With G a metric, Bilinear(G, x, x) is the squared metric length of x.
// Errors: ErrNilMatrix, ErrDimensionMismatch (non-square G or vector length).
// Complexity: O(n^2).
func Bilinear(g Matrix, x, y []float64) (float64, error) {
	if err := ValidateSquareNonNil(g); err != nil {
		return 0, matrixErrorf(opBilinear, err)
	}
	n := g.Rows()
	if err := ValidateVecLen(x, n); err != nil {
		return 0, matrixErrorf(opBilinear, fmt.Errorf("x: %w", err))
	}
	if err := ValidateVecLen(y, n); err != nil {
		return 0, matrixErrorf(opBilinear, fmt.Errorf("y: %w", err))
	}
	gy, err := MatVec(g, y)
	if err != nil {
		return 0, matrixErrorf(opBilinear, err)
	}
	acc := ZeroSum
	for i := 0; i < n; i++ {
		acc += x[i] * gy[i]
	}

	return acc, nil
}

// isSingular reports whether err carries ErrSingular.
func isSingular(err error) bool { return errors.Is(err, ErrSingular) }
