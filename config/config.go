// Package config loads a tiling run description from YAML and turns it into a
// ready tiling session.
//
// Example:
//
//	dimension: 2
//	metric:
//	  - [2.0, 0.5]
//	  - [0.5, 1.0]
//	mismatch: 0.01
//	lattice: anstar
//	bounds:
//	  - {lower: 0, upper: 1}
//	  - {lower: 0, upper: 0.5}
//
// lattice is one of cubic, anstar or custom. A custom run lists its
// generator rows; any basis of dimension columns and at least dimension
// rows (an embedding in a higher-dimensional space) is accepted and reduced
// with lattice.LowerTriangularGenerator, then scaled to unit covering
// radius when thickness is set.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/flatlattice/lattice"
	"github.com/katalvlaran/flatlattice/matrix"
	"github.com/katalvlaran/flatlattice/tiling"
)

var (
	// ErrInvalid is returned for a run description that fails validation.
	ErrInvalid = errors.New("config: invalid run description")

	// ErrRead is returned when the file cannot be read or decoded.
	ErrRead = errors.New("config: cannot read run description")
)

// Lattice kinds accepted in the lattice field.
const (
	LatticeCubic  = "cubic"
	LatticeAnstar = "anstar"
	LatticeCustom = "custom"
)

// Interval is the [lower, upper] range of one dimension. Reversed pairs are
// accepted and swapped.
type Interval struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Run describes one tiling.
type Run struct {
	Dimension         int         `yaml:"dimension" validate:"required,gte=1"`
	Metric            [][]float64 `yaml:"metric" validate:"required,dive,required"`
	Mismatch          float64     `yaml:"mismatch" validate:"required,gt=0"`
	Lattice           string      `yaml:"lattice" validate:"required,oneof=cubic anstar custom"`
	Generator         [][]float64 `yaml:"generator,omitempty" validate:"required_if=Lattice custom,excluded_unless=Lattice custom"`
	Thickness         float64     `yaml:"thickness,omitempty" validate:"gte=0"`
	Bounds            []Interval  `yaml:"bounds" validate:"required,dive"`
	SymmetryTolerance float64     `yaml:"symmetry_tolerance,omitempty" validate:"gte=0"`
}

var validate = validator.New()

// Load reads and validates the run description at path.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w: %w", ErrRead, err)
	}
	run, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}

	return run, nil
}

// Parse decodes and validates a YAML run description. Unknown keys are rejected.
func Parse(data []byte) (*Run, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var run Run
	if err := dec.Decode(&run); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrRead)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}

	return &run, nil
}

// Validate checks struct tags, then the shapes that depend on Dimension.
func (r *Run) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	n := r.Dimension
	if err := squareRows("metric", r.Metric, n); err != nil {
		return err
	}
	if r.Lattice == LatticeCustom {
		if len(r.Generator) < n {
			return fmt.Errorf("%w: generator has %d rows, want at least %d", ErrInvalid, len(r.Generator), n)
		}
		if err := rowLengths("generator", r.Generator, n); err != nil {
			return err
		}
	}
	if len(r.Bounds) != n {
		return fmt.Errorf("%w: %d bounds for dimension %d", ErrInvalid, len(r.Bounds), n)
	}

	return nil
}

func squareRows(name string, rows [][]float64, n int) error {
	if len(rows) != n {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrInvalid, name, len(rows), n)
	}

	return rowLengths(name, rows, n)
}

func rowLengths(name string, rows [][]float64, n int) error {
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("%w: %s row %d has %d values, want %d", ErrInvalid, name, i, len(row), n)
		}
	}

	return nil
}

// GeneratorMatrix returns the lower-triangular generator the run asks for.
func (r *Run) GeneratorMatrix() (*matrix.Dense, error) {
	switch r.Lattice {
	case LatticeCustom:
		g, err := matrix.NewDenseFromRows(r.Generator)
		if err != nil {
			return nil, fmt.Errorf("%w: generator: %w", ErrInvalid, err)
		}
		lower, err := lattice.LowerTriangularGenerator(g)
		if err != nil {
			return nil, fmt.Errorf("%w: generator: %w", ErrInvalid, err)
		}
		if r.Thickness > 0 {
			if err = lattice.NormalizeGenerator(lower, r.Thickness); err != nil {
				return nil, fmt.Errorf("%w: generator: %w", ErrInvalid, err)
			}
		}

		return lower, nil
	default:
		kind, err := lattice.ParseKind(r.Lattice)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		return lattice.Generator(kind, r.Dimension)
	}
}

// Build creates a tiling session from the run and runs Setup on it.
// opts are passed to tiling.New after the run's own symmetry tolerance.
func (r *Run) Build(opts ...tiling.Option) (*tiling.Tiling, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	metric, err := matrix.NewDenseFromRows(r.Metric)
	if err != nil {
		return nil, fmt.Errorf("%w: metric: %w", ErrInvalid, err)
	}
	gen, err := r.GeneratorMatrix()
	if err != nil {
		return nil, err
	}

	all := append([]tiling.Option{tiling.WithSymmetryTolerance(r.SymmetryTolerance)}, opts...)
	t, err := tiling.New(r.Dimension, all...)
	if err != nil {
		return nil, err
	}
	box := make([]float64, 0, 2*len(r.Bounds))
	for _, b := range r.Bounds {
		box = append(box, b.Lower, b.Upper)
	}
	for _, step := range []func() error{
		func() error { return t.SetMetric(metric) },
		func() error { return t.SetMismatch(r.Mismatch) },
		func() error { return t.SetGenerator(gen) },
		func() error { return t.SetBox(box...) },
		t.Setup,
	} {
		if err = step(); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	return t, nil
}
