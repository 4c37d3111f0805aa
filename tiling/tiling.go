package tiling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/katalvlaran/flatlattice/lattice"
	"github.com/katalvlaran/flatlattice/matrix"
)

// Tiling is one flat lattice tiling session.
//
// A session is configured with SetMetric, SetMismatch, SetGenerator and
// SetBounds, frozen by Setup, then walked with Next. It is not safe for
// concurrent use; partition the parameter space into separate sessions to
// tile in parallel.
type Tiling struct {
	dimension int
	log       *slog.Logger
	symTol    float64

	metric    *matrix.Dense
	mismatch  float64
	generator *matrix.Dense
	bounds    Bounds

	// Derived by Setup.
	increment *matrix.Dense
	incCols   [][]float64 // increment columns, cached for the hot loop
	steps     []float64   // increment diagonal: step of each dimension along its own axis

	// Enumeration state.
	state   State
	current []float64
	upper   []float64
	last    []float64 // last emitted point
	prefix  []float64 // scratch handed to Bounds
	count   uint64

	ready    bool
	setupErr error
	err      error
}

// New returns an empty session for the given dimension.
//
// Errors: ErrInvalidDimension when dimension < 1.
func New(dimension int, opts ...Option) (*Tiling, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("New(%d): %w", dimension, ErrInvalidDimension)
	}
	t := &Tiling{
		dimension: dimension,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Dimension returns the dimension fixed at construction.
func (t *Tiling) Dimension() int { return t.dimension }

// SetMetric stores a copy of the parameter-space metric. Shape and symmetry
// are checked by Setup.
func (t *Tiling) SetMetric(m matrix.Matrix) error {
	if t.ready {
		return ErrLocked
	}
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("SetMetric: %w: %w", ErrMetricShape, err)
	}
	cp, err := matrix.DenseOf(m)
	if err != nil {
		return fmt.Errorf("SetMetric: %w", err)
	}
	t.metric = cp

	return nil
}

// SetMismatch stores the maximum metric mismatch between neighbouring points.
//
// Errors: ErrInvalidMismatch unless 0 < mismatch < +Inf.
func (t *Tiling) SetMismatch(mismatch float64) error {
	if t.ready {
		return ErrLocked
	}
	if !(mismatch > 0) || math.IsInf(mismatch, 0) {
		return fmt.Errorf("SetMismatch(%g): %w", mismatch, ErrInvalidMismatch)
	}
	t.mismatch = mismatch

	return nil
}

// SetGenerator stores a copy of the lattice generator. It must be
// dimension×dimension and lower triangular by Setup time; see
// lattice.LowerTriangularGenerator and lattice.Generator.
func (t *Tiling) SetGenerator(g matrix.Matrix) error {
	if t.ready {
		return ErrLocked
	}
	if err := matrix.ValidateNotNil(g); err != nil {
		return fmt.Errorf("SetGenerator: %w: %w", ErrGeneratorShape, err)
	}
	cp, err := matrix.DenseOf(g)
	if err != nil {
		return fmt.Errorf("SetGenerator: %w", err)
	}
	t.generator = cp

	return nil
}

// SetBounds replaces the bounds provider. A *Box must match the dimension.
func (t *Tiling) SetBounds(b Bounds) error {
	if t.ready {
		return ErrLocked
	}
	if b == nil {
		return fmt.Errorf("SetBounds: %w: nil bounds", ErrBoundsArgs)
	}
	if box, ok := b.(*Box); ok && box.Dimension() != t.dimension {
		return fmt.Errorf("SetBounds: %w: box has %d dimensions, tiling has %d", ErrBoundsArgs, box.Dimension(), t.dimension)
	}
	t.bounds = b

	return nil
}

// SetBox is shorthand for NewBox followed by SetBounds.
func (t *Tiling) SetBox(bounds ...float64) error {
	box, err := NewBox(t.dimension, bounds)
	if err != nil {
		return fmt.Errorf("SetBox: %w", err)
	}

	return t.SetBounds(box)
}

// Setup validates the configuration and derives the increment matrix
//
//	increment = D × generator × √mismatch
//
// where D holds the identity orthonormalized against the metric.
//
// Implementation:
//   - Stage 1: every input is present; metric dimension×dimension and
//     symmetric; generator dimension×dimension with zeros above the diagonal.
//   - Stage 2: D via lattice.MetricDirections, then the product and scale.
//   - Stage 3: cache increment columns and steps, reset the enumerator and
//     log the derived matrices at Debug level.
//
// A failed Setup is permanent: every later Setup returns the same error and
// Next reports it through Err. A successful Setup locks the configuration.
func (t *Tiling) Setup() error {
	if t.setupErr != nil {
		return t.setupErr
	}
	if t.ready {
		return ErrLocked
	}
	if err := t.setup(); err != nil {
		t.setupErr = fmt.Errorf("Setup: %w", err)
		t.log.Error("tiling setup failed", slog.Int("dimension", t.dimension), slog.String("error", t.setupErr.Error()))

		return t.setupErr
	}
	t.ready = true

	return nil
}

func (t *Tiling) setup() error {
	n := t.dimension
	switch {
	case t.metric == nil:
		return fmt.Errorf("%w: metric", ErrNotConfigured)
	case t.mismatch == 0:
		return fmt.Errorf("%w: mismatch", ErrNotConfigured)
	case t.generator == nil:
		return fmt.Errorf("%w: generator", ErrNotConfigured)
	case t.bounds == nil:
		return fmt.Errorf("%w: bounds", ErrNotConfigured)
	}

	if err := matrix.ValidateShape(t.metric, n, n); err != nil {
		return fmt.Errorf("%w: %w", ErrMetricShape, err)
	}
	if err := matrix.ValidateSymmetric(t.metric, t.symTol); err != nil {
		return fmt.Errorf("%w: %w", ErrMetricAsymmetric, err)
	}
	if err := matrix.ValidateShape(t.generator, n, n); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorShape, err)
	}
	if err := matrix.ValidateLowerTriangular(t.generator); err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorNotTriangular, err)
	}
	for i, row := range t.generator.Rows2D() {
		if !(row[i] > 0) {
			return fmt.Errorf("%w: [%d,%d]=%g", ErrGeneratorDiagonal, i, i, row[i])
		}
	}

	debug := t.log.Enabled(context.Background(), slog.LevelDebug)
	if debug {
		t.log.Debug("parameter space metric", slog.String("rows", formatRows(t.metric)))
		t.log.Debug("lattice generator", slog.String("rows", formatRows(t.generator)))
	}

	directions, err := lattice.MetricDirections(t.metric, t.symTol)
	if err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return fmt.Errorf("%w: %w", ErrMetricNotPositiveDefinite, err)
		}

		return err
	}
	prod, err := matrix.Mul(directions, t.generator)
	if err != nil {
		return err
	}
	increment, err := matrix.Scale(prod, math.Sqrt(t.mismatch))
	if err != nil {
		return err
	}

	cols := make([][]float64, n)
	steps := make([]float64, n)
	for j := 0; j < n; j++ {
		if cols[j], err = increment.Col(j); err != nil {
			return err
		}
		steps[j] = cols[j][j]
	}

	t.increment = increment
	t.incCols = cols
	t.steps = steps
	t.current = make([]float64, n)
	t.upper = make([]float64, n)
	t.last = make([]float64, n)
	t.prefix = make([]float64, n)
	t.state = Unstarted
	t.count = 0
	t.err = nil

	if debug {
		if gram, gerr := lattice.GramMatrix(directions, t.metric); gerr == nil {
			t.log.Debug("metric inner products of directions", slog.String("rows", formatRows(gram)))
		}
		t.log.Debug("increment vectors", slog.String("rows", formatRows(increment)))
		lengths := make([]float64, n)
		for j := 0; j < n; j++ {
			if l2, lerr := matrix.Bilinear(t.metric, cols[j], cols[j]); lerr == nil {
				lengths[j] = math.Sqrt(l2)
			}
		}
		t.log.Debug("metric lengths of increment vectors", slog.String("values", formatRow(lengths)))
	}

	return nil
}

// Mismatch returns the configured mismatch (0 until set).
func (t *Tiling) Mismatch() float64 { return t.mismatch }

// Metric returns a copy of the metric, or nil if unset.
func (t *Tiling) Metric() *matrix.Dense { return cloneOrNil(t.metric) }

// Generator returns a copy of the generator, or nil if unset.
func (t *Tiling) Generator() *matrix.Dense { return cloneOrNil(t.generator) }

// Increment returns a copy of the increment matrix, or nil before Setup.
// Column j is the step vector of dimension j.
func (t *Tiling) Increment() *matrix.Dense { return cloneOrNil(t.increment) }

// BoundsDescription returns the bounds' own description when they implement
// Describer, and "" otherwise.
func (t *Tiling) BoundsDescription() string {
	if d, ok := t.bounds.(Describer); ok {
		return d.Describe()
	}

	return ""
}

func cloneOrNil(m *matrix.Dense) *matrix.Dense {
	if m == nil {
		return nil
	}

	return m.Clone().(*matrix.Dense)
}

// formatRows renders a matrix as "% .16e" values, one ';'-terminated row per line.
func formatRows(m *matrix.Dense) string {
	var sb strings.Builder
	for _, row := range m.Rows2D() {
		sb.WriteString(formatRow(row))
		sb.WriteByte('\n')
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func formatRow(row []float64) string {
	var sb strings.Builder
	for _, v := range row {
		fmt.Fprintf(&sb, "% .16e ", v)
	}
	sb.WriteByte(';')

	return sb.String()
}
