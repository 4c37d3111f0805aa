package lattice

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/flatlattice/matrix"
)

// Kind names a canonical lattice type.
type Kind int

const (
	// Cubic is the hypercubic lattice Zₙ.
	Cubic Kind = iota
	// Anstar is the Aₙ* lattice; A₂* is hexagonal and A₃* body-centred cubic.
	Anstar
)

// String returns the configuration name of k.
func (k Kind) String() string {
	switch k {
	case Cubic:
		return "cubic"
	case Anstar:
		return "anstar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a case-insensitive name ("cubic", "zn", "anstar", "an*")
// to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cubic", "zn":
		return Cubic, nil
	case "anstar", "an*":
		return Anstar, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
	}
}

// Generator returns the normalized canonical generator of kind k in n dimensions.
func Generator(k Kind, n int) (*matrix.Dense, error) {
	switch k {
	case Cubic:
		return CubicGenerator(n)
	case Anstar:
		return AnstarGenerator(n)
	default:
		return nil, fmt.Errorf("%v: %w", k, ErrUnknownKind)
	}
}

// CubicThickness is the normalized thickness of Zₙ: (√n/2)ⁿ.
func CubicThickness(n int) float64 {
	fn := float64(n)

	return math.Pow(math.Sqrt(fn)/2, fn)
}

// AnstarThickness is the normalized thickness of Aₙ*:
// √(n+1)·(n(n+2)/(12(n+1)))^(n/2).
func AnstarThickness(n int) float64 {
	fn := float64(n)

	return math.Sqrt(fn+1) * math.Pow((fn*(fn+2))/(12*(fn+1)), fn/2)
}

// CubicGenerator returns the identity generator of Zₙ scaled to unit covering
// radius, i.e. (2/√n)·I.
func CubicGenerator(n int) (*matrix.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("CubicGenerator(%d): %w", n, ErrDimension)
	}
	g, err := matrix.NewIdentity(n)
	if err != nil {
		return nil, err
	}
	if err = NormalizeGenerator(g, CubicThickness(n)); err != nil {
		return nil, err
	}

	return g, nil
}

// AnstarGenerator returns a lower-triangular generator of Aₙ* with unit
// covering radius.
//
// The lattice is first written in (n+1)-dimensional space: row 0 is all
// ones, the sub-diagonal is -1, and the last column is 1/(n+1) except for
// its first entry, -n/(n+1). LowerTriangularGenerator then brings it down to
// n dimensions.
func AnstarGenerator(n int) (*matrix.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("AnstarGenerator(%d): %w", n, ErrDimension)
	}
	fn := float64(n)
	rows := make([][]float64, n+1)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][n-1] = 1 / (fn + 1)
	}
	for j := 0; j < n-1; j++ {
		rows[0][j] = 1
	}
	for i := 0; i < n-1; i++ {
		rows[i+1][i] = -1
	}
	rows[0][n-1] = -fn / (fn + 1)
	embedded, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("AnstarGenerator(%d): %w", n, err)
	}

	g, err := LowerTriangularGenerator(embedded)
	if err != nil {
		return nil, err
	}
	if err = NormalizeGenerator(g, AnstarThickness(n)); err != nil {
		return nil, err
	}

	return g, nil
}
