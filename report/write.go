package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/flatlattice/matrix"
	"github.com/katalvlaran/flatlattice/tiling"
)

// Write enumerates every point of t and writes the full report to w.
//
// t must have completed Setup and produced no points yet; Write drives the
// enumeration itself and leaves t exhausted on success. Cancelling ctx stops
// between points and returns ctx.Err() with a truncated report in w.
//
// Errors: ErrSession, ErrIO (wrapping the writer's error), ctx.Err(), or
// the session's Err().
func Write(ctx context.Context, w io.Writer, t *tiling.Tiling) error {
	if t == nil || t.Increment() == nil || t.State() != tiling.Unstarted {
		return ErrSession
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "<?xml version=\"1.0\"?>\n<flatlatticetiling>\n")
	fmt.Fprintf(bw, "  <dimension>%d</dimension>\n", t.Dimension())
	writeMatrix(bw, "metric", t.Metric())
	fmt.Fprintf(bw, "  <mismatch>%.16e</mismatch>\n", t.Mismatch())
	writeMatrix(bw, "generator", t.Generator())
	if desc := t.BoundsDescription(); desc != "" {
		fmt.Fprintf(bw, "  <bounds>\n    %s\n  </bounds>\n", desc)
	} else {
		fmt.Fprint(bw, "  <bounds><type>unknown</type></bounds>\n")
	}
	writeMatrix(bw, "increment", t.Increment())

	fmt.Fprint(bw, "  <templates>\n")
	err := t.Walk(ctx, func(p []float64) error {
		writeRow(bw, p)
		// bufio keeps the first write error; stop as soon as it appears.
		if _, ferr := bw.Write(nil); ferr != nil {
			return fmt.Errorf("%w: %w", ErrIO, ferr)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	fmt.Fprint(bw, "  </templates>\n</flatlatticetiling>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Write: %w: %w", ErrIO, err)
	}

	return nil
}

// WriteFile creates (or truncates) path and writes the report of t into it.
func WriteFile(ctx context.Context, path string, t *tiling.Tiling) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("WriteFile: %w: %w", ErrIO, cerr)
		}
	}()

	return Write(ctx, f, t)
}

func writeMatrix(w *bufio.Writer, tag string, m *matrix.Dense) {
	fmt.Fprintf(w, "  <%s>\n", tag)
	for _, row := range m.Rows2D() {
		writeRow(w, row)
	}
	fmt.Fprintf(w, "  </%s>\n", tag)
}

func writeRow(w *bufio.Writer, row []float64) {
	w.WriteString("    ")
	for _, v := range row {
		fmt.Fprintf(w, "% .16e ", v)
	}
	w.WriteString(";\n")
}
