// Package grid provides the rectangular row-major container that dense files
// are decoded into and encoded from.
package grid

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeDim   = errors.New("grid: negative dimension")
	ErrShapeMismatch = errors.New("grid: data length does not match shape")
	ErrTooLarge      = errors.New("grid: shape too large")
)

// Grid is a dense row-major matrix of T values.
//
// R and C are the number of rows and columns. Data holds the flattened values,
// with row i occupying Data[i*C : (i+1)*C].
type Grid[T any] struct {
	R, C int
	Data []T
}

// New allocates a zeroed grid of r rows and c columns.
func New[T any](r, c int) (*Grid[T], error) {
	n, err := cells(r, c)
	if err != nil {
		return nil, err
	}
	return &Grid[T]{R: r, C: c, Data: make([]T, n)}, nil
}

// FromData wraps an existing row-major slice. The slice is not copied.
func FromData[T any](r, c int, data []T) (*Grid[T], error) {
	n, err := cells(r, c)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShapeMismatch, len(data), r, c)
	}
	return &Grid[T]{R: r, C: c, Data: data}, nil
}

// FromRows builds a grid from nested rows, copying the values. Every row must
// have the same length. An empty input yields a 0x0 grid.
func FromRows[T any](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return &Grid[T]{}, nil
	}
	c := len(rows[0])
	data := make([]T, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(row), c)
		}
		data = append(data, row...)
	}
	return &Grid[T]{R: len(rows), C: c, Data: data}, nil
}

// Column builds an r x 1 grid from a flat slice. The slice is not copied.
func Column[T any](values []T) *Grid[T] {
	return &Grid[T]{R: len(values), C: 1, Data: values}
}

// Row returns a view of the i-th row. Writes to the returned slice update the
// grid.
func (g *Grid[T]) Row(i int) []T {
	if i < 0 || i >= g.R {
		panic("row index out of range")
	}
	start := i * g.C
	return g.Data[start : start+g.C : start+g.C]
}

// At returns the value at row i, column j.
func (g *Grid[T]) At(i, j int) T {
	if j < 0 || j >= g.C {
		panic("column index out of range")
	}
	return g.Row(i)[j]
}

// Set stores v at row i, column j.
func (g *Grid[T]) Set(i, j int, v T) {
	if j < 0 || j >= g.C {
		panic("column index out of range")
	}
	g.Row(i)[j] = v
}

// Rows calls fn for every row in order and stops early when fn returns false.
func (g *Grid[T]) Rows(fn func(i int, row []T) bool) {
	for i := 0; i < g.R; i++ {
		if !fn(i, g.Row(i)) {
			return
		}
	}
}

// Shape returns the number of rows and columns.
func (g *Grid[T]) Shape() (int, int) {
	return g.R, g.C
}

func (g *Grid[T]) String() string {
	return fmt.Sprintf("grid(%dx%d)", g.R, g.C)
}

// Equal reports whether a and b have the same shape and values.
func Equal[T comparable](a, b *Grid[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.R != b.R || a.C != b.C || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

func cells(r, c int) (int, error) {
	if r < 0 || c < 0 {
		return 0, ErrNegativeDim
	}
	n := r * c
	if r != 0 && n/r != c {
		return 0, ErrTooLarge
	}
	return n, nil
}
