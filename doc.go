// Package flatlattice places template points on a flat lattice tiling of a
// bounded parameter space, so that no point of the space is further than a
// chosen mismatch from its nearest template under a constant metric.
//
// 🚀 What is flatlattice?
//
// A small numerical engine that brings together:
//
//   - Dense matrices with LU, determinant and Householder QR
//   - Metric-orthonormal directions and lower-triangular lattice generators
//   - Canonical lattices: the cubic Zₙ and the optimal covering Aₙ*
//   - A streaming odometer enumerator over arbitrary (prefix-dependent) bounds
//   - XML reports of a tiling, YAML run files and a CLI
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/            Dense storage, validators, Mul/Scale/LU/Det/QR
//	lattice/           orthonormalization w.r.t. a metric, generators, Zₙ and Aₙ*
//	tiling/            bounds providers, Setup, Next/Walk enumeration
//	report/            write and parse <flatlatticetiling> documents
//	config/            YAML run description validated into a ready session
//	cmd/flatlattice/   generate and count sub-commands
//
// Quick ASCII example (2-D box, cubic lattice, points shown as o):
//
//	o  o  o  o  o
//	o ┌───────┐ o
//	o │o  o  o│ o
//	o │o  o  o│ o
//	o └───────┘ o
//	o  o  o  o  o
//
// One padding point beyond each edge keeps the border covered.
//
//	go install github.com/katalvlaran/flatlattice/cmd/flatlattice@latest
package flatlattice
