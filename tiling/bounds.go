package tiling

import (
	"fmt"
	"math"
	"strings"
)

// Bounds supplies the extent of the parameter space one coordinate at a time.
//
// Bounds is called with the coordinates already fixed for dimensions below
// index (len(prefix) == index) and returns lower ≤ upper for coordinate
// index. The prefix is a scratch copy owned by the tiling: implementations
// may read it during the call but must not retain it.
type Bounds interface {
	Bounds(prefix []float64, index int) (lower, upper float64)
}

// BoundsFunc adapts an ordinary function to the Bounds interface.
type BoundsFunc func(prefix []float64, index int) (lower, upper float64)

// Bounds calls f(prefix, index).
func (f BoundsFunc) Bounds(prefix []float64, index int) (lower, upper float64) {
	return f(prefix, index)
}

// Describer is implemented by bounds that can describe themselves in the
// report. The description is an XML fragment placed inside <bounds>.
type Describer interface {
	Describe() string
}

// Box is an axis-aligned parameter space: coordinate i ranges over
// [Lower(i), Upper(i)] independently of the other coordinates.
type Box struct {
	lower []float64
	upper []float64
}

var (
	_ Bounds    = (*Box)(nil)
	_ Describer = (*Box)(nil)
)

// NewBox builds a box from 2·dimension values laid out as
// lower₀, upper₀, lower₁, upper₁, ... Each pair is reordered so that
// lower ≤ upper.
//
// Errors: ErrInvalidDimension, ErrBoundsArgs (wrong count, NaN or ±Inf).
func NewBox(dimension int, bounds []float64) (*Box, error) {
	if dimension < 1 {
		return nil, ErrInvalidDimension
	}
	if len(bounds) != 2*dimension {
		return nil, fmt.Errorf("%w: got %d values for %d dimensions, want %d", ErrBoundsArgs, len(bounds), dimension, 2*dimension)
	}
	b := &Box{lower: make([]float64, dimension), upper: make([]float64, dimension)}
	var lo, hi float64
	for i := 0; i < dimension; i++ {
		lo, hi = bounds[2*i], bounds[2*i+1]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, fmt.Errorf("%w: dimension %d: [%g, %g]", ErrBoundsArgs, i, lo, hi)
		}
		b.lower[i], b.upper[i] = math.Min(lo, hi), math.Max(lo, hi)
	}

	return b, nil
}

// Dimension returns the number of coordinates the box constrains.
func (b *Box) Dimension() int { return len(b.lower) }

// Lower returns the lower bound of coordinate i.
func (b *Box) Lower(i int) float64 { return b.lower[i] }

// Upper returns the upper bound of coordinate i.
func (b *Box) Upper(i int) float64 { return b.upper[i] }

// Bounds ignores the prefix.
func (b *Box) Bounds(_ []float64, index int) (lower, upper float64) {
	return b.lower[index], b.upper[index]
}

// Describe renders
// <type>square</type><lower>l₀ l₁ ;</lower><upper>u₀ u₁ ;</upper>
// with every value formatted as %.16e followed by a space.
func (b *Box) Describe() string {
	var sb strings.Builder
	sb.WriteString("<type>square</type><lower>")
	for _, v := range b.lower {
		fmt.Fprintf(&sb, "%.16e ", v)
	}
	sb.WriteString(";</lower><upper>")
	for _, v := range b.upper {
		fmt.Fprintf(&sb, "%.16e ", v)
	}
	sb.WriteString(";</upper>")

	return sb.String()
}
