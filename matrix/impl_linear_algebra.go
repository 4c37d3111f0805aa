// SPDX-License-Identifier: MIT
// Package matrix: linear-algebra kernels used by the lattice and tiling
// layers (product, transpose, scaling, matrix-vector, pivoted LU,
// determinant and a tall Householder QR).
//
// Notes:
//   - Every kernel validates through validators.go and wraps failures once
//     via matrixErrorf with its op tag.
//   - Results are freshly allocated *Dense; inputs are never mutated.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for dot products and accumulations.
const ZeroSum = 0.0

// ZeroPivot marks an exactly-zero pivot during elimination.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opLU        = "LU"
	opDet       = "Det"
	opQR        = "QR"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the product a×b as a new Dense.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b); allocate Dense(a.Rows, b.Cols).
//   - Stage 2: fast path when both are *Dense (i→k→j over flat buffers);
//     otherwise an i→j→k loop through At/Set.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Zero A[i,k] entries are skipped.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		var offA, offB, offR int
		for i = 0; i < aRows; i++ {
			offA = i * aCols
			offR = i * bCols
			for k = 0; k < aCols; k++ {
				av = da.data[offA+k]
				if av == 0 {
					continue
				}
				offB = k * bCols
				for j = 0; j < bCols; j++ {
					res.data[offR+j] += av * db.data[offB+j]
				}
			}
		}

		return res, nil
	}

	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new Dense.
// Errors: ErrNilMatrix. Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	if d, ok := m.(*Dense); ok {
		for i = 0; i < rows; i++ {
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = d.data[i*cols+j]
			}
		}

		return res, nil
	}
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns alpha*m as a new Dense.
// Errors: ErrNilMatrix, ErrNaNInf (non-finite alpha).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	res, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if d, ok := m.(*Dense); ok {
		for k, v := range d.data {
			res.data[k] = alpha * v
		}

		return res, nil
	}
	var i, j int
	var v float64
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, err)
			}
			res.data[i*res.c+j] = alpha * v
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)
	var i, j int
	var acc float64

	if d, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			acc = ZeroSum
			base = i * cols
			for j = 0; j < cols; j++ {
				acc += d.data[base+j] * x[j]
			}
			y[i] = acc
		}

		return y, nil
	}

	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		acc = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			acc += mv * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// LUResult holds a partially pivoted factorization P·A = L·U.
//
//   - L is unit lower triangular, U upper triangular.
//   - Perm[i] is the row of A that ended up in row i.
//   - Sign is the parity of the permutation (+1 or -1).
type LUResult struct {
	L, U *Dense
	Perm []int
	Sign float64
}

// LU factorizes a square matrix with partial (row) pivoting.
// MAIN DESCRIPTION:
//   - Gaussian elimination choosing, for every column k, the row at or below k
//     with the largest |A[i,k]|. Ties resolve to the lowest row index.
//
// Implementation:
//   - Stage 1: validate non-nil square input; copy it into a working Dense.
//   - Stage 2: for k=0..n-1 pick the pivot row, swap rows and permutation,
//     store multipliers below the diagonal and update the trailing block.
//   - Stage 3: split the working buffer into L (unit diagonal) and U.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square),
//     ErrSingular (a pivot column is exactly zero).
//
// Determinism:
//   - Fixed pivot scan order; identical inputs give bit-identical factors.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m Matrix) (*LUResult, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	n := m.Rows()
	w, err := DenseOf(m)
	if err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	a := w.data
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0

	var (
		i, j, k, p int
		best, v    float64
		factor     float64
	)
	for k = 0; k < n; k++ {
		// Stage 2.1: pivot search.
		p, best = k, math.Abs(a[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(a[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best == ZeroPivot {
			return nil, matrixErrorf(opLU, fmt.Errorf("column %d: %w", k, ErrSingular))
		}
		// Stage 2.2: row swap.
		if p != k {
			for j = 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		// Stage 2.3: eliminate below the pivot.
		for i = k + 1; i < n; i++ {
			factor = a[i*n+k] / a[k*n+k]
			a[i*n+k] = factor
			if factor == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				a[i*n+j] -= factor * a[k*n+j]
			}
		}
	}

	L, _ := NewDense(n, n)
	U, _ := NewDense(n, n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			switch {
			case j < i:
				L.data[i*n+j] = a[i*n+j]
			case j == i:
				L.data[i*n+j] = 1
				U.data[i*n+j] = a[i*n+j]
			default:
				U.data[i*n+j] = a[i*n+j]
			}
		}
	}

	return &LUResult{L: L, U: U, Perm: perm, Sign: sign}, nil
}

// Det returns the determinant of a square matrix via LU.
// A singular input yields 0 with a nil error.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(n^3).
func Det(m Matrix) (float64, error) {
	f, err := LU(m)
	if err != nil {
		if isSingular(err) {
			return 0, nil
		}

		return 0, matrixErrorf(opDet, err)
	}
	det := f.Sign
	n := f.U.r
	for i := 0; i < n; i++ {
		det *= f.U.data[i*n+i]
	}

	return det, nil
}

// QR computes a Householder factorization A = Q·R for a tall or square
// input (rows ≥ cols).
// MAIN DESCRIPTION:
//   - Q is rows×rows orthogonal, R is rows×cols upper triangular.
//   - No sign canonicalization: diagonal entries of R may be negative.
//     Callers needing diag(R) > 0 flip the sign of row i of R together with
//     column i of Q.
//
// Implementation:
//   - Stage 1: validate; copy A into R; set Q = I.
//   - Stage 2: for k = 0..min(cols, rows-1)-1 build the reflector
//     H_k = I - τ v vᵀ zeroing R[k+1:, k]; apply R ← H_k R and Q ← Q H_k.
//   - Stage 3: clear the strict lower part of R (rounding residue).
//
// Errors:
//   - ErrNilMatrix, ErrBadShape (rows < cols).
//
// Complexity:
//   - Time O(rows²·cols), Space O(rows² + rows·cols).
func QR(m Matrix) (q *Dense, r *Dense, err error) {
	if err = ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	rows, cols := m.Rows(), m.Cols()
	if rows < cols {
		return nil, nil, matrixErrorf(opQR, fmt.Errorf("%dx%d: %w", rows, cols, ErrBadShape))
	}
	if r, err = DenseOf(m); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	if q, err = NewIdentity(rows); err != nil {
		return nil, nil, matrixErrorf(opQR, err)
	}
	rd, qd := r.data, q.data
	v := make([]float64, rows)

	steps := cols
	if rows-1 < steps {
		steps = rows - 1
	}
	var (
		i, j, k           int
		norm, alpha, beta float64
		tau, sum          float64
	)
	for k = 0; k < steps; k++ {
		// Stage 2.1: norm of the sub-column R[k:, k].
		norm = ZeroSum
		for i = k; i < rows; i++ {
			norm += rd[i*cols+k] * rd[i*cols+k]
		}
		norm = math.Sqrt(norm)
		if norm == ZeroSum {
			continue
		}
		// Stage 2.2: reflector v = x - alpha e_k with alpha = -sign(x_k)·‖x‖.
		alpha = -math.Copysign(norm, rd[k*cols+k])
		beta = ZeroSum
		for i = k; i < rows; i++ {
			v[i] = rd[i*cols+k]
		}
		v[k] -= alpha
		for i = k; i < rows; i++ {
			beta += v[i] * v[i]
		}
		if beta == ZeroSum {
			continue
		}
		tau = 2.0 / beta

		// Stage 2.3: R ← H_k R (columns k..cols-1).
		for j = k; j < cols; j++ {
			sum = ZeroSum
			for i = k; i < rows; i++ {
				sum += v[i] * rd[i*cols+j]
			}
			sum *= tau
			for i = k; i < rows; i++ {
				rd[i*cols+j] -= sum * v[i]
			}
		}
		// Stage 2.4: Q ← Q H_k (rows of Q, columns k..rows-1).
		for i = 0; i < rows; i++ {
			sum = ZeroSum
			for j = k; j < rows; j++ {
				sum += qd[i*rows+j] * v[j]
			}
			sum *= tau
			for j = k; j < rows; j++ {
				qd[i*rows+j] -= sum * v[j]
			}
		}
	}

	// Stage 3: exact zeros below the diagonal.
	for i = 1; i < rows; i++ {
		for j = 0; j < cols && j < i; j++ {
			rd[i*cols+j] = 0
		}
	}

	return q, r, nil
}

// DenseOf copies any Matrix into a fresh *Dense (deep copy, default numeric policy
// for non-Dense inputs).
func DenseOf(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.Clone().(*Dense), nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			if err = out.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
