package lattice

import (
	"fmt"
	"math"

	"github.com/katalvlaran/flatlattice/matrix"
)

const (
	opLowerTriangular = "LowerTriangularGenerator"
	opNormalize       = "NormalizeGenerator"
	opCoveringRadius  = "CoveringRadius"
)

// LowerTriangularGenerator reduces a generator with rows ≥ cols to an n×n
// lower-triangular generator of the same lattice (n = cols).
//
// Implementation:
//   - Stage 1: Householder QR of the generator (matrix.QR).
//   - Stage 2: negate every column of R whose diagonal entry is negative.
//     Negating a basis vector leaves the lattice unchanged.
//   - Stage 3: out[i,j] = R[n-1-i, n-1-j]. This reverses the order of the
//     dimensions; it is not a transpose.
//
// Errors:
//   - matrix.ErrNilMatrix; matrix.ErrBadShape when rows < cols.
func LowerTriangularGenerator(g matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(g); err != nil {
		return nil, fmt.Errorf("%s: %w", opLowerTriangular, err)
	}
	_, r, err := matrix.QR(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLowerTriangular, err)
	}
	n := g.Cols()
	rows := r.Rows2D()

	var i, j int
	for j = 0; j < n; j++ {
		if rows[j][j] >= 0 {
			continue
		}
		// Only rows 0..j of column j are populated in R.
		for i = 0; i <= j; i++ {
			rows[i][j] = -rows[i][j]
		}
	}

	reversed := make([][]float64, n)
	for i = 0; i < n; i++ {
		reversed[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			reversed[i][j] = rows[n-1-i][n-1-j]
		}
	}
	out, err := matrix.NewDenseFromRows(reversed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opLowerTriangular, err)
	}

	return out, nil
}

// CoveringRadius returns (thickness·|det g|)^(1/n) for a square generator.
// This is the covering radius of the lattice generated by g when thickness
// is the normalized thickness of that lattice type.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch, ErrThickness.
func CoveringRadius(g matrix.Matrix, thickness float64) (float64, error) {
	if err := matrix.ValidateSquareNonNil(g); err != nil {
		return 0, fmt.Errorf("%s: %w", opCoveringRadius, err)
	}
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return 0, fmt.Errorf("%s: %g: %w", opCoveringRadius, thickness, ErrThickness)
	}
	det, err := matrix.Det(g)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCoveringRadius, err)
	}

	return math.Pow(thickness*math.Abs(det), 1.0/float64(g.Rows())), nil
}

// NormalizeGenerator divides every entry of g by its covering radius, so the
// lattice it generates has unit covering radius. g is modified in place.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (not square),
//     ErrThickness, ErrDegenerate (zero determinant).
func NormalizeGenerator(g *matrix.Dense, thickness float64) error {
	cr, err := CoveringRadius(g, thickness)
	if err != nil {
		return fmt.Errorf("%s: %w", opNormalize, err)
	}
	if cr == 0 {
		return fmt.Errorf("%s: %w", opNormalize, ErrDegenerate)
	}
	inv := 1.0 / cr
	if err = g.Apply(func(_, _ int, v float64) float64 { return v * inv }); err != nil {
		return fmt.Errorf("%s: %w", opNormalize, err)
	}

	return nil
}
