package tiling

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of every configuration and setup
// validation failure; match it with errors.Is to catch the whole family.
var ErrInvalidArgument = errors.New("tiling: invalid argument")

var (
	// ErrInvalidDimension is returned by New for a dimension below 1.
	ErrInvalidDimension = fmt.Errorf("%w: dimension must be >= 1", ErrInvalidArgument)

	// ErrInvalidMismatch is returned for a mismatch that is not finite and > 0.
	ErrInvalidMismatch = fmt.Errorf("%w: mismatch must be finite and > 0", ErrInvalidArgument)

	// ErrMetricShape is returned when the metric is not dimension×dimension.
	ErrMetricShape = fmt.Errorf("%w: metric has the wrong shape", ErrInvalidArgument)

	// ErrMetricAsymmetric is returned when the metric is not symmetric.
	ErrMetricAsymmetric = fmt.Errorf("%w: metric is not symmetric", ErrInvalidArgument)

	// ErrMetricNotPositiveDefinite is returned when orthonormalizing against
	// the metric produced a non-finite direction.
	ErrMetricNotPositiveDefinite = fmt.Errorf("%w: metric is not positive definite", ErrInvalidArgument)

	// ErrGeneratorShape is returned when the generator is not dimension×dimension.
	ErrGeneratorShape = fmt.Errorf("%w: generator has the wrong shape", ErrInvalidArgument)

	// ErrGeneratorNotTriangular is returned when the generator has a non-zero
	// entry above its diagonal.
	ErrGeneratorNotTriangular = fmt.Errorf("%w: generator is not lower triangular", ErrInvalidArgument)

	// ErrGeneratorDiagonal is returned when a generator diagonal entry is not
	// strictly positive, which would leave a dimension without a forward step.
	ErrGeneratorDiagonal = fmt.Errorf("%w: generator diagonal must be > 0", ErrInvalidArgument)

	// ErrBoundsArgs is returned for a malformed bounds description
	// (wrong count or non-finite values).
	ErrBoundsArgs = fmt.Errorf("%w: bad bounds arguments", ErrInvalidArgument)

	// ErrNotConfigured is returned by Setup when the metric, mismatch,
	// generator or bounds were never set.
	ErrNotConfigured = fmt.Errorf("%w: tiling is not fully configured", ErrInvalidArgument)

	// ErrIndex is returned by Current for a coordinate index outside [0, dimension).
	ErrIndex = fmt.Errorf("%w: coordinate index out of range", ErrInvalidArgument)
)

var (
	// ErrNotSetup is reported by Err when Next was called without a
	// successful Setup.
	ErrNotSetup = errors.New("tiling: Next called before a successful Setup")

	// ErrLocked is returned by setters and Setup once Setup has succeeded.
	ErrLocked = errors.New("tiling: configuration is locked after Setup")

	// ErrNoPoint is returned by Current before the first point was produced.
	ErrNoPoint = errors.New("tiling: no current point")
)
