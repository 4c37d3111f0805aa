package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Document is a parsed tiling report.
type Document struct {
	Dimension int
	Metric    [][]float64
	Mismatch  float64
	Generator [][]float64
	Bounds    Bounds
	Increment [][]float64
	Templates [][]float64
}

// Bounds is the <bounds> section. Lower and Upper are set for "square"
// bounds only.
type Bounds struct {
	Type  string
	Lower []float64
	Upper []float64
}

type xmlDocument struct {
	XMLName   xml.Name `xml:"flatlatticetiling"`
	Dimension int      `xml:"dimension"`
	Metric    string   `xml:"metric"`
	Mismatch  string   `xml:"mismatch"`
	Generator string   `xml:"generator"`
	Bounds    struct {
		Type  string `xml:"type"`
		Lower string `xml:"lower"`
		Upper string `xml:"upper"`
	} `xml:"bounds"`
	Increment string `xml:"increment"`
	Templates string `xml:"templates"`
}

// Parse reads a report produced by Write.
//
// Errors: ErrFormat for XML that does not decode, unparsable numbers, or
// rows whose length differs from the dimension.
func Parse(r io.Reader) (*Document, error) {
	var raw xmlDocument
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("Parse: %w: %w", ErrFormat, err)
	}
	n := raw.Dimension
	if n < 1 {
		return nil, fmt.Errorf("Parse: %w: dimension %d", ErrFormat, n)
	}

	doc := &Document{Dimension: n}
	var err error
	if doc.Mismatch, err = strconv.ParseFloat(strings.TrimSpace(raw.Mismatch), 64); err != nil {
		return nil, fmt.Errorf("Parse: %w: mismatch: %w", ErrFormat, err)
	}
	sections := []struct {
		name string
		text string
		dst  *[][]float64
		rows int
	}{
		{"metric", raw.Metric, &doc.Metric, n},
		{"generator", raw.Generator, &doc.Generator, n},
		{"increment", raw.Increment, &doc.Increment, n},
		{"templates", raw.Templates, &doc.Templates, -1},
	}
	for _, s := range sections {
		if *s.dst, err = parseRows(s.text, n); err != nil {
			return nil, fmt.Errorf("Parse: %s: %w", s.name, err)
		}
		if s.rows >= 0 && len(*s.dst) != s.rows {
			return nil, fmt.Errorf("Parse: %s: %w: %d rows, want %d", s.name, ErrFormat, len(*s.dst), s.rows)
		}
	}

	doc.Bounds.Type = strings.TrimSpace(raw.Bounds.Type)
	if doc.Bounds.Type == "square" {
		if doc.Bounds.Lower, err = parseRow(raw.Bounds.Lower, n); err != nil {
			return nil, fmt.Errorf("Parse: bounds lower: %w", err)
		}
		if doc.Bounds.Upper, err = parseRow(raw.Bounds.Upper, n); err != nil {
			return nil, fmt.Errorf("Parse: bounds upper: %w", err)
		}
	}

	return doc, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ParseFile: %w: %w", ErrIO, err)
	}
	defer f.Close()

	return Parse(f)
}

// parseRows splits ';'-terminated rows of n values each.
func parseRows(text string, n int) ([][]float64, error) {
	parts := strings.Split(text, ";")
	// Everything after the final ';' is whitespace.
	if strings.TrimSpace(parts[len(parts)-1]) != "" {
		return nil, fmt.Errorf("%w: unterminated row", ErrFormat)
	}
	parts = parts[:len(parts)-1]

	out := make([][]float64, 0, len(parts))
	for _, p := range parts {
		row, err := parseRow(p, n)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, nil
}

func parseRow(text string, n int) ([]float64, error) {
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if len(fields) != n {
		return nil, fmt.Errorf("%w: %d values, want %d", ErrFormat, len(fields), n)
	}
	row := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		row[i] = v
	}

	return row, nil
}
