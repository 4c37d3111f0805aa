// Package lattice builds and conditions lattice generator matrices for flat
// template-bank tilings.
//
// 🚀 What is here?
//
//   - OrthonormalizeWRTMetric: modified Gram–Schmidt over the columns of a
//     square matrix under the inner product ⟨u,v⟩ = uᵀ·G·v, processing
//     columns from the last index to the first.
//   - LowerTriangularGenerator: QR-reduce a (rows ≥ cols) generator, force a
//     positive diagonal on R and index-reverse it into lower-triangular form.
//   - NormalizeGenerator / CoveringRadius: rescale a square generator so its
//     covering radius, (thickness·|det G|)^(1/n), becomes 1.
//   - Canonical generators: the cubic lattice Zₙ and the Aₙ* lattice
//     (A₃* is body-centred cubic), both normalized to unit covering radius.
//
// Conventions
//
//   - Columns of a generator are lattice basis vectors.
//   - Every routine returns a fresh *matrix.Dense or mutates the matrix it was
//     handed; nothing is cached at package level.
//   - A metric that is not positive definite is not detected up front; the
//     resulting NaN surfaces as matrix.ErrNaNInf when written back.
//
// See Conway & Sloane, "Sphere Packings, Lattices and Groups", pp. 106 and 115,
// for the thickness values used by the canonical generators.
package lattice
