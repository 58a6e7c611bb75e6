// SPDX-License-Identifier: MIT

// Package matrix: domain types.
// This file contains ONLY domain-facing types: the Matrix interface served by
// Dense and the tagged Cell used by Masked. Errors and options live in
// dedicated files (errors.go, options.go).
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Cell is an optional weight: Present=false means "no evidence", which is
// not the same thing as a present zero. The zero value is an absent cell.
type Cell struct {
	Value   float64 // meaningful only when Present
	Present bool    // false ⇒ absent
}

// Absent returns the "no evidence" cell.
func Absent() Cell { return Cell{} }

// Some returns a present cell holding v.
func Some(v float64) Cell { return Cell{Value: v, Present: true} }

// Get unpacks the cell in comma-ok form.
func (c Cell) Get() (float64, bool) { return c.Value, c.Present }

// Or returns the value when present and def otherwise.
func (c Cell) Or(def float64) float64 {
	if c.Present {
		return c.Value
	}

	return def
}
