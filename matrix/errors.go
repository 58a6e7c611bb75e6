// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Kernels return these sentinels (optionally wrapped with %w) and
// tests match them via errors.Is. No public routine panics on user-triggered
// conditions; panics are reserved for nonsensical option values.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for grep-ability. Wrap with
// fmt.Errorf("ctx: %w", ErrX) when coordinates or an operation name help the
// caller; errors.Is keeps working through the wrap.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Unset) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrShapeMismatch indicates incompatible dimensions between operands,
	// e.g. a graph of size m+1 projected through an alignment with a different
	// row count, or two masks compared with different shapes.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required by
	// the numeric policy. Absent cells are expressed with Unset, never with NaN.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrBadDataLength indicates that a flat data slice does not match rows*cols.
	ErrBadDataLength = errors.New("matrix: data length does not match shape")
)
