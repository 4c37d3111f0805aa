package tiling

import (
	"log/slog"
	"math"
)

// Option configures a Tiling at construction time.
type Option func(*Tiling)

// WithLogger sets the logger used for setup diagnostics and progress.
// A nil logger selects slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tiling) {
		if l != nil {
			t.log = l
		}
	}
}

// WithSymmetryTolerance sets the largest |G[i,j] - G[j,i]| accepted by
// Setup. The default, 0, demands exact symmetry. Negative or non-finite
// values are ignored.
func WithSymmetryTolerance(tol float64) Option {
	return func(t *Tiling) {
		if tol >= 0 && !math.IsInf(tol, 0) {
			t.symTol = tol
		}
	}
}
