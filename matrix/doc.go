// Package matrix provides the dense linear-algebra layer underneath the
// flat lattice tiling engine.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and an
//     optional finite-only numeric policy.
//   - Kernels: Mul, Scale, Transpose, MatVec, LU (partial pivoting), Det and a
//     Householder QR that accepts tall (rows ≥ cols) inputs.
//   - Validators shared by every caller (square, symmetric, lower triangular,
//     vector length), returning sentinel errors matched with errors.Is.
//
// Matrices here are small (the dimension of a parameter space), so kernels
// favour deterministic loop orders and reproducible results over blocking.
package matrix
