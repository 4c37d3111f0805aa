package lattice

import "errors"

var (
	// ErrDimension is returned when a canonical generator is requested for
	// a dimension below 1.
	ErrDimension = errors.New("lattice: dimension must be >= 1")

	// ErrUnknownKind is returned by ParseKind and Generator for an
	// unrecognised lattice name.
	ErrUnknownKind = errors.New("lattice: unknown lattice kind")

	// ErrDegenerate is returned when a generator has zero determinant, so no
	// finite covering radius exists.
	ErrDegenerate = errors.New("lattice: degenerate generator (zero determinant)")

	// ErrThickness is returned for a non-positive or non-finite normalized thickness.
	ErrThickness = errors.New("lattice: normalized thickness must be finite and > 0")
)
