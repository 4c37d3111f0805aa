package lattice

import (
	"fmt"
	"math"

	"github.com/katalvlaran/flatlattice/matrix"
)

const (
	opOrthonormalize = "OrthonormalizeWRTMetric"
	opGram           = "GramMatrix"
)

// OrthonormalizeWRTMetric makes the columns of m mutually orthonormal under
// the metric, in place.
//
// Implementation:
//   - Stage 1: m must be square and the metric square of the same size and
//     symmetric within tol (tol = 0 is an exact comparison).
//   - Stage 2: for i = n-1 down to 0, subtract from column i its metric
//     projection onto every already processed column j > i (using the
//     updated column i each time), then scale column i by 1/√⟨cᵢ,cᵢ⟩.
//   - Stage 3: write the columns back through Set, so a NaN produced by a
//     metric that is not positive definite is reported as matrix.ErrNaNInf.
//
// Starting from the identity the result is lower triangular: column i only
// has components at indices ≥ i.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch, matrix.ErrAsymmetry,
//     matrix.ErrNaNInf. On error m is left unchanged.
//
// Complexity: O(n³).
func OrthonormalizeWRTMetric(m *matrix.Dense, metric matrix.Matrix, tol float64) error {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return fmt.Errorf("%s: %w", opOrthonormalize, err)
	}
	n := m.Rows()
	if err := matrix.ValidateShape(metric, n, n); err != nil {
		return fmt.Errorf("%s: metric: %w", opOrthonormalize, err)
	}
	if err := matrix.ValidateSymmetric(metric, tol); err != nil {
		return fmt.Errorf("%s: metric: %w", opOrthonormalize, err)
	}

	cols := make([][]float64, n)
	var err error
	for j := 0; j < n; j++ {
		if cols[j], err = m.Col(j); err != nil {
			return fmt.Errorf("%s: %w", opOrthonormalize, err)
		}
	}

	var (
		i, j, r int
		ip      float64
	)
	for i = n - 1; i >= 0; i-- {
		for j = n - 1; j > i; j-- {
			if ip, err = matrix.Bilinear(metric, cols[i], cols[j]); err != nil {
				return fmt.Errorf("%s: %w", opOrthonormalize, err)
			}
			for r = 0; r < n; r++ {
				cols[i][r] -= cols[j][r] * ip
			}
		}
		if ip, err = matrix.Bilinear(metric, cols[i], cols[i]); err != nil {
			return fmt.Errorf("%s: %w", opOrthonormalize, err)
		}
		ip = 1.0 / math.Sqrt(ip)
		for r = 0; r < n; r++ {
			cols[i][r] *= ip
		}
	}

	// Commit only once every value is known to be finite.
	for j = 0; j < n; j++ {
		for r = 0; r < n; r++ {
			if math.IsNaN(cols[j][r]) || math.IsInf(cols[j][r], 0) {
				return fmt.Errorf("%s: column %d: %w", opOrthonormalize, j, matrix.ErrNaNInf)
			}
		}
	}
	for j = 0; j < n; j++ {
		for r = 0; r < n; r++ {
			if err = m.Set(r, j, cols[j][r]); err != nil {
				return fmt.Errorf("%s: %w", opOrthonormalize, err)
			}
		}
	}

	return nil
}

// MetricDirections returns the identity orthonormalized against metric:
// a lower-triangular matrix whose columns are metric-orthonormal axes.
func MetricDirections(metric matrix.Matrix, tol float64) (*matrix.Dense, error) {
	if err := matrix.ValidateSquareNonNil(metric); err != nil {
		return nil, fmt.Errorf("%s: metric: %w", opOrthonormalize, err)
	}
	d, err := matrix.NewIdentity(metric.Rows())
	if err != nil {
		return nil, err
	}
	if err = OrthonormalizeWRTMetric(d, metric, tol); err != nil {
		return nil, err
	}

	return d, nil
}

// GramMatrix returns the matrix of metric inner products between the columns
// of m: out[i,j] = colᵢᵀ·G·colⱼ. After OrthonormalizeWRTMetric it is the
// identity up to rounding.
func GramMatrix(m, metric matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("%s: %w", opGram, err)
	}
	if err := matrix.ValidateShape(metric, m.Rows(), m.Rows()); err != nil {
		return nil, fmt.Errorf("%s: metric: %w", opGram, err)
	}
	mt, err := matrix.Transpose(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opGram, err)
	}
	gm, err := matrix.Mul(metric, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opGram, err)
	}
	out, err := matrix.Mul(mt, gm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opGram, err)
	}

	return out, nil
}
