package tiling

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// State is the position of a session's enumerator.
type State int

const (
	// Unstarted: Setup succeeded, no point produced yet.
	Unstarted State = iota
	// Running: at least one point produced, more may follow.
	Running
	// Exhausted: every point has been produced. Terminal.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// State returns the enumerator state.
func (t *Tiling) State() State { return t.state }

// Count returns the number of points produced so far.
func (t *Tiling) Count() uint64 { return t.count }

// Err returns the error that stopped enumeration, or nil when Next returned
// false because the lattice was exhausted.
func (t *Tiling) Err() error { return t.err }

// Next advances to the next lattice point inside the bounds and reports
// whether one exists.
//
// The first call places every coordinate i, in order, at its lower bound
// and records its upper bound; a non-degenerate range [lower, upper] is
// widened by one step on each side so points just outside the region are
// included. Later calls work like an odometer: for i = n-1 down to 0 the
// point moves by increment column i, every dimension j > i is pulled back
// to the first lattice position at or above its (re-queried) lower bound,
// and the point is kept as soon as coordinate i is still below its upper
// bound. When dimension 0 overflows the session is exhausted.
//
// Next returns false and sets Err when called without a successful Setup.
// Once false is returned, later calls keep returning false and change nothing.
func (t *Tiling) Next() bool {
	if !t.ready {
		if t.err == nil {
			t.err = ErrNotSetup
			if t.setupErr != nil {
				t.err = fmt.Errorf("%w: %w", ErrNotSetup, t.setupErr)
			}
		}

		return false
	}

	switch t.state {
	case Exhausted:
		return false

	case Unstarted:
		n := t.dimension
		var lower, upper float64
		for i := 0; i < n; i++ {
			lower, upper = t.paddedBounds(i)
			t.current[i] = lower
			t.upper[i] = upper
		}
		t.state = Running

	default:
		if !t.advance() {
			copy(t.current, t.last)
			t.state = Exhausted
			t.log.Info("tiling exhausted", slog.Int("dimension", t.dimension), slog.Uint64("points", t.count))

			return false
		}
	}

	t.count++
	copy(t.last, t.current)

	return true
}

// advance moves current to the next point, returning false when dimension 0
// runs past its upper bound.
func (t *Tiling) advance() bool {
	n := t.dimension
	var (
		i, j, r      int
		lower, upper float64
		scale        float64
		inc          []float64
	)
	for i = n - 1; i >= 0; i-- {
		inc = t.incCols[i]
		for r = 0; r < n; r++ {
			t.current[r] += inc[r]
		}

		for j = i + 1; j < n; j++ {
			lower, upper = t.paddedBounds(j)
			scale = math.Floor((t.current[j] - lower) / t.steps[j])
			inc = t.incCols[j]
			for r = 0; r < n; r++ {
				t.current[r] -= inc[r] * scale
			}
			t.upper[j] = upper
		}

		if t.current[i] < t.upper[i] {
			return true
		}
	}

	return false
}

// paddedBounds queries the bounds of dimension index for the current prefix
// and widens a non-degenerate range by one step on each side.
func (t *Tiling) paddedBounds(index int) (lower, upper float64) {
	prefix := t.prefix[:index:index]
	copy(prefix, t.current[:index])
	lower, upper = t.bounds.Bounds(prefix, index)
	if lower < upper {
		step := t.steps[index]
		lower -= step
		upper += step
	}

	return lower, upper
}

// Current returns coordinate i of the latest point. After exhaustion it
// still reports the last point produced.
//
// Errors: ErrNoPoint before the first point, ErrIndex for i outside [0, dimension).
func (t *Tiling) Current(i int) (float64, error) {
	if t.count == 0 {
		return 0, ErrNoPoint
	}
	if i < 0 || i >= t.dimension {
		return 0, fmt.Errorf("Current(%d): %w", i, ErrIndex)
	}

	return t.last[i], nil
}

// Point returns a copy of the latest point, or nil before the first one.
func (t *Tiling) Point() []float64 {
	if t.count == 0 {
		return nil
	}
	out := make([]float64, t.dimension)
	copy(out, t.last)

	return out
}

// Walk calls fn for every remaining point until the lattice is exhausted,
// fn returns an error, or ctx is done. The slice passed to fn is reused
// between calls; copy it to keep it.
//
// Walk returns fn's error, ctx.Err(), or Err() in that order of precedence,
// and nil after a complete enumeration.
func (t *Tiling) Walk(ctx context.Context, fn func(point []float64) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !t.Next() {
			return t.Err()
		}
		if err := fn(t.last); err != nil {
			return err
		}
	}
}
