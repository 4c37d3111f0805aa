package tiling_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/flatlattice/lattice"
	"github.com/katalvlaran/flatlattice/matrix"
	"github.com/katalvlaran/flatlattice/tiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const eps = 1e-12

func rows(t testing.TB, r [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(r)
	require.NoError(t, err)

	return m
}

func identity(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewIdentity(n)
	require.NoError(t, err)

	return m
}

// quiet discards log output in tests that do not inspect it.
func quiet() tiling.Option {
	return tiling.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

// newTiling configures and sets up a session or fails the test.
func newTiling(t testing.TB, metric, generator matrix.Matrix, mismatch float64, bounds tiling.Bounds, opts ...tiling.Option) *tiling.Tiling {
	t.Helper()
	tl, err := tiling.New(metric.Rows(), append([]tiling.Option{quiet()}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, tl.SetMetric(metric))
	require.NoError(t, tl.SetMismatch(mismatch))
	require.NoError(t, tl.SetGenerator(generator))
	require.NoError(t, tl.SetBounds(bounds))
	require.NoError(t, tl.Setup())

	return tl
}

func box(t testing.TB, args ...float64) *tiling.Box {
	t.Helper()
	b, err := tiling.NewBox(len(args)/2, args)
	require.NoError(t, err)

	return b
}

// collect drains the session and returns every point.
func collect(t testing.TB, tl *tiling.Tiling) [][]float64 {
	t.Helper()
	var pts [][]float64
	for tl.Next() {
		pts = append(pts, tl.Point())
	}
	require.NoError(t, tl.Err())

	return pts
}

// requireWithinBounds checks lower-step ≤ x[i] < upper+step for every
// coordinate, evaluating bounds with the point's own prefix.
func requireWithinBounds(t *testing.T, tl *tiling.Tiling, b tiling.Bounds, pts [][]float64) {
	t.Helper()
	inc := tl.Increment()
	for _, p := range pts {
		for i := range p {
			lo, hi := b.Bounds(p[:i], i)
			step, err := inc.At(i, i)
			require.NoError(t, err)
			if lo < hi {
				lo -= step
				hi += step
			}
			require.GreaterOrEqualf(t, p[i], lo-eps, "point %v coordinate %d", p, i)
			if lo < hi {
				require.Lessf(t, p[i], hi, "point %v coordinate %d", p, i)
			}
		}
	}
}

type EnumerationSuite struct {
	suite.Suite
}

func TestEnumerationSuite(t *testing.T) {
	suite.Run(t, new(EnumerationSuite))
}

func (s *EnumerationSuite) TestOneDimensionalBox() {
	t := s.T()
	tl := newTiling(t, rows(t, [][]float64{{1}}), rows(t, [][]float64{{1}}), 0.01, box(t, 0, 1))

	inc := tl.Increment()
	step, err := inc.At(0, 0)
	s.Require().NoError(err)
	s.InDelta(0.1, step, eps)

	pts := collect(t, tl)
	s.Require().Len(pts, 13, "11 interior points plus one padding point on each side")
	s.InDelta(-0.1, pts[0][0], eps)
	s.InDelta(1.1, pts[12][0], eps)
	for k := 1; k < len(pts); k++ {
		s.InDelta(0.1, pts[k][0]-pts[k-1][0], eps)
	}
	s.Equal(uint64(13), tl.Count())
	s.Equal(tiling.Exhausted, tl.State())
}

func (s *EnumerationSuite) TestTwoDimensionalNestedOrder() {
	t := s.T()
	tl := newTiling(t, identity(t, 2), identity(t, 2), 0.01, box(t, 0, 1, 0, 1))

	pts := collect(t, tl)
	// (ceil(1/0.1) + 3)² points.
	s.Require().Len(pts, 169)

	// The last dimension cycles fully before the first one advances.
	for k := 0; k < 13; k++ {
		s.InDelta(-0.1, pts[k][0], eps)
		s.InDelta(-0.1+0.1*float64(k), pts[k][1], eps)
	}
	// Carry: coordinate 0 moves one step, coordinate 1 jumps back to its padded lower bound.
	s.InDelta(0.0, pts[13][0], eps)
	s.InDelta(-0.1, pts[13][1], eps)

	for k, p := range pts {
		s.InDelta(-0.1+0.1*float64(k/13), p[0], 1e-9)
		s.InDelta(-0.1+0.1*float64(k%13), p[1], 1e-9)
	}
}

func (s *EnumerationSuite) TestRectangularBox() {
	t := s.T()
	b := box(t, 0, 1, 0, 0.5)
	tl := newTiling(t, identity(t, 2), identity(t, 2), 0.04, b)

	pts := collect(t, tl)
	s.Len(pts, 35)
	requireWithinBounds(t, tl, b, pts)
}

func (s *EnumerationSuite) TestDegenerateDimension() {
	t := s.T()
	tests := []struct {
		mismatch float64
		want     int
	}{
		{0.01, 13},
		{0.04, 7},
	}
	for _, tc := range tests {
		// Coordinate 1 is pinned: no padding, one point per column.
		tl := newTiling(t, identity(t, 2), identity(t, 2), tc.mismatch, box(t, 0, 1, 0.3, 0.3))
		pts := collect(t, tl)
		s.Require().Lenf(pts, tc.want, "mismatch %g", tc.mismatch)
		for _, p := range pts {
			s.InDeltaf(0.3, p[1], 1e-9, "point %v", p)
		}
	}
}

func (s *EnumerationSuite) TestCorrelatedMetric() {
	t := s.T()
	metric := rows(t, [][]float64{{2, 0.5}, {0.5, 1}})
	b := box(t, 0, 1, 0, 1)
	tl := newTiling(t, metric, identity(t, 2), 0.01, b)

	want := [][]float64{
		{0.1 / math.Sqrt(1.75), 0},
		{-0.05 / math.Sqrt(1.75), 0.1},
	}
	if diff := cmp.Diff(want, tl.Increment().Rows2D(), cmpopts.EquateApprox(0, eps)); diff != "" {
		s.Failf("increment mismatch", "(-want +got):\n%s", diff)
	}

	// Every increment column has metric length √mismatch.
	inc := tl.Increment()
	for j := 0; j < 2; j++ {
		col, err := inc.Col(j)
		s.Require().NoError(err)
		l2, err := matrix.Bilinear(metric, col, col)
		s.Require().NoError(err)
		s.InDelta(0.01, l2, eps)
	}

	pts := collect(t, tl)
	s.NotEmpty(pts)
	requireWithinBounds(t, tl, b, pts)
}

func (s *EnumerationSuite) TestCanonicalGenerators() {
	t := s.T()
	for _, kind := range []lattice.Kind{lattice.Cubic, lattice.Anstar} {
		for n := 1; n <= 3; n++ {
			gen, err := lattice.Generator(kind, n)
			s.Require().NoError(err)
			args := make([]float64, 0, 2*n)
			for i := 0; i < n; i++ {
				args = append(args, 0, 1)
			}
			b := box(t, args...)
			tl := newTiling(t, identity(t, n), gen, 0.04, b)
			pts := collect(t, tl)
			s.NotEmptyf(pts, "%v n=%d", kind, n)
			requireWithinBounds(t, tl, b, pts)
		}
	}
}

func (s *EnumerationSuite) TestPrefixDependentBounds() {
	t := s.T()
	// Triangle 0 ≤ y ≤ x ≤ 1.
	var calls int
	tri := tiling.BoundsFunc(func(prefix []float64, index int) (float64, float64) {
		calls++
		s.Require().Len(prefix, index)
		if index == 0 {
			return 0, 1
		}
		x := prefix[0]
		prefix[0] = 99 // scratch copy: must not leak into the point
		return 0, math.Max(0, x)
	})
	tl := newTiling(t, identity(t, 2), identity(t, 2), 0.01, tri)

	pts := collect(t, tl)
	s.NotEmpty(pts)
	s.Positive(calls)
	for _, p := range pts {
		s.Less(p[0], 1.1+eps)
	}
	// Columns get taller as x grows.
	s.Less(countColumn(pts, 0.2), countColumn(pts, 0.8))
}

func countColumn(pts [][]float64, x float64) int {
	var n int
	for _, p := range pts {
		if math.Abs(p[0]-x) < 1e-9 {
			n++
		}
	}

	return n
}

func (s *EnumerationSuite) TestExhaustionIsIdempotent() {
	t := s.T()
	tl := newTiling(t, rows(t, [][]float64{{1}}), rows(t, [][]float64{{1}}), 0.25, box(t, 0, 1))
	_ = collect(t, tl)

	count, point := tl.Count(), tl.Point()
	for k := 0; k < 3; k++ {
		s.False(tl.Next())
		s.Equal(count, tl.Count())
		s.Equal(point, tl.Point())
	}
	v, err := tl.Current(0)
	s.Require().NoError(err)
	s.Equal(point[0], v)
	s.NoError(tl.Err())
}

func (s *EnumerationSuite) TestWalkStopsOnCancel() {
	t := s.T()
	tl := newTiling(t, identity(t, 2), identity(t, 2), 0.01, box(t, 0, 1, 0, 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var seen int
	err := tl.Walk(ctx, func(p []float64) error {
		seen++
		if seen == 5 {
			cancel()
		}
		return nil
	})
	s.ErrorIs(err, context.Canceled)
	s.Equal(5, seen)
	s.Equal(uint64(5), tl.Count())

	stop := errors.New("stop")
	err = tl.Walk(context.Background(), func([]float64) error { return stop })
	s.ErrorIs(err, stop)
	s.Equal(uint64(6), tl.Count())

	s.NoError(tl.Walk(context.Background(), func([]float64) error { return nil }))
	s.Equal(uint64(169), tl.Count())
}

func TestSetupValidation(t *testing.T) {
	gen2 := identity(t, 2)
	tests := []struct {
		name      string
		metric    matrix.Matrix
		generator matrix.Matrix
		wantErr   []error
	}{
		{"metric shape", identity(t, 3), gen2, []error{tiling.ErrMetricShape, matrix.ErrDimensionMismatch}},
		{"metric asymmetric", rows(t, [][]float64{{1, 0.1}, {0.2, 1}}), gen2, []error{tiling.ErrMetricAsymmetric, matrix.ErrAsymmetry}},
		{"metric not positive definite", rows(t, [][]float64{{1, 2}, {2, 1}}), gen2, []error{tiling.ErrMetricNotPositiveDefinite, matrix.ErrNaNInf}},
		{"generator shape", identity(t, 2), rows(t, [][]float64{{1, 0, 0}, {0, 1, 0}}), []error{tiling.ErrGeneratorShape}},
		{"generator upper triangular", identity(t, 2), rows(t, [][]float64{{1, 0.5}, {0, 1}}), []error{tiling.ErrGeneratorNotTriangular, matrix.ErrNotTriangular}},
		{"generator zero diagonal", identity(t, 2), rows(t, [][]float64{{1, 0}, {1, 0}}), []error{tiling.ErrGeneratorDiagonal}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tl, err := tiling.New(2, quiet())
			require.NoError(t, err)
			require.NoError(t, tl.SetMetric(tc.metric))
			require.NoError(t, tl.SetMismatch(0.01))
			require.NoError(t, tl.SetGenerator(tc.generator))
			require.NoError(t, tl.SetBox(0, 1, 0, 1))

			err = tl.Setup()
			require.ErrorIs(t, err, tiling.ErrInvalidArgument)
			for _, want := range tc.wantErr {
				require.ErrorIs(t, err, want)
			}
			assert.Nil(t, tl.Increment(), "failed setup derives nothing")

			// Permanent: fixing the input does not revive the session.
			require.NoError(t, tl.SetMetric(identity(t, 2)))
			require.NoError(t, tl.SetGenerator(identity(t, 2)))
			require.ErrorIs(t, tl.Setup(), tc.wantErr[0])

			assert.False(t, tl.Next())
			require.ErrorIs(t, tl.Err(), tiling.ErrNotSetup)
			require.ErrorIs(t, tl.Err(), tc.wantErr[0])
		})
	}
}

func TestSymmetryTolerance(t *testing.T) {
	nearly := rows(t, [][]float64{{1, 0.1}, {0.1 + 1e-14, 1}})
	tl, err := tiling.New(2, quiet(), tiling.WithSymmetryTolerance(1e-12))
	require.NoError(t, err)
	require.NoError(t, tl.SetMetric(nearly))
	require.NoError(t, tl.SetMismatch(0.01))
	require.NoError(t, tl.SetGenerator(identity(t, 2)))
	require.NoError(t, tl.SetBox(0, 1, 0, 1))
	require.NoError(t, tl.Setup())
}

func TestNotConfigured(t *testing.T) {
	tl, err := tiling.New(1, quiet())
	require.NoError(t, err)
	require.ErrorIs(t, tl.Setup(), tiling.ErrNotConfigured)

	tl, err = tiling.New(1, quiet())
	require.NoError(t, err)
	require.NoError(t, tl.SetMetric(identity(t, 1)))
	require.NoError(t, tl.SetMismatch(0.01))
	require.NoError(t, tl.SetGenerator(identity(t, 1)))
	require.ErrorIs(t, tl.Setup(), tiling.ErrNotConfigured, "bounds missing")
}

func TestArgumentErrors(t *testing.T) {
	_, err := tiling.New(0)
	require.ErrorIs(t, err, tiling.ErrInvalidDimension)

	tl, err := tiling.New(2, quiet())
	require.NoError(t, err)
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		require.ErrorIs(t, tl.SetMismatch(m), tiling.ErrInvalidMismatch)
	}
	require.ErrorIs(t, tl.SetBounds(nil), tiling.ErrBoundsArgs)
	require.ErrorIs(t, tl.SetBounds(box(t, 0, 1)), tiling.ErrBoundsArgs)
	require.ErrorIs(t, tl.SetBox(0, 1), tiling.ErrBoundsArgs)
	require.ErrorIs(t, tl.SetMetric(nil), tiling.ErrMetricShape)

	assert.False(t, tl.Next())
	require.ErrorIs(t, tl.Err(), tiling.ErrNotSetup)
	_, err = tl.Current(0)
	require.ErrorIs(t, err, tiling.ErrNoPoint)
	assert.Nil(t, tl.Point())
}

func TestLockedAfterSetup(t *testing.T) {
	tl := newTiling(t, identity(t, 1), identity(t, 1), 0.01, box(t, 0, 1))

	require.ErrorIs(t, tl.SetMetric(identity(t, 1)), tiling.ErrLocked)
	require.ErrorIs(t, tl.SetMismatch(1), tiling.ErrLocked)
	require.ErrorIs(t, tl.SetGenerator(identity(t, 1)), tiling.ErrLocked)
	require.ErrorIs(t, tl.SetBounds(box(t, 0, 2)), tiling.ErrLocked)
	require.ErrorIs(t, tl.Setup(), tiling.ErrLocked)

	_, err := tl.Current(0)
	require.ErrorIs(t, err, tiling.ErrNoPoint)
	require.True(t, tl.Next())
	_, err = tl.Current(1)
	require.ErrorIs(t, err, tiling.ErrIndex)
	assert.Equal(t, tiling.Running, tl.State())
}

func TestInputsAreCopied(t *testing.T) {
	metric := identity(t, 1)
	gen := identity(t, 1)
	tl := newTiling(t, metric, gen, 0.01, box(t, 0, 1))
	require.NoError(t, metric.Set(0, 0, 4))
	require.NoError(t, gen.Set(0, 0, 9))

	v, err := tl.Metric().At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = tl.Generator().At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 0.01, tl.Mismatch())
	assert.Equal(t, 1, tl.Dimension())
	assert.Contains(t, tl.BoundsDescription(), "<type>square</type>")
}

func TestSetupLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tl := newTiling(t, identity(t, 1), identity(t, 1), 0.01, box(t, 0, 1), tiling.WithLogger(logger))
	_ = collect(t, tl)

	out := buf.String()
	assert.Contains(t, out, "increment vectors")
	assert.Contains(t, out, "metric lengths of increment vectors")
	assert.Contains(t, out, "tiling exhausted")
	assert.Contains(t, out, "points=13")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unstarted", tiling.Unstarted.String())
	assert.Equal(t, "running", tiling.Running.String())
	assert.Equal(t, "exhausted", tiling.Exhausted.String())
	assert.Equal(t, "State(9)", tiling.State(9).String())
}
