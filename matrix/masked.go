// SPDX-License-Identifier: MIT

// Package matrix - Masked: a dense matrix of optional cells.
//
// Purpose:
//   - Represent confidence graphs and alignment matrices where a cell may carry
//     "no evidence" (absent), which is different from a confidently-zero weight.
//   - Keep the Dense value plane for arithmetic and add a parallel presence mask,
//     so no float value is ever reserved as an absence sentinel.
//
// Invariants:
//   - len(mask) == r*c; vals.data[k] is meaningful only when mask[k] is true.
//   - Unset zeroes the stored value so absent cells never leak stale numbers.
//
// Complexity quicksheet:
//   - NewMasked: O(r*c); At/Set/Unset/Value: O(1); Clone/Transpose/Map: O(r*c).

package matrix

import (
	"fmt"
	"strings"
)

// Masked is a row-major matrix of optional float64 cells.
type Masked struct {
	vals *Dense  // value plane (policy-carrying)
	mask []bool  // presence plane, same layout as vals.data
	n    int     // number of present cells (kept in sync by Set/Unset)
	opts Options // resolved numeric policy (eps for degeneracy checks)
}

var _ fmt.Stringer = (*Masked)(nil)

// NewMasked creates an r×c matrix with every cell absent.
// Errors: ErrInvalidDimensions.
// Complexity: O(r*c).
func NewMasked(rows, cols int, opts ...Option) (*Masked, error) {
	o := gatherOptions(opts...)
	d, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}

	return &Masked{vals: d, mask: make([]bool, rows*cols), opts: o}, nil
}

// FromDense wraps a copy of d with every cell present.
// Use for inputs that are genuinely dense (e.g. a parser's full score matrix).
// Complexity: O(r*c).
func FromDense(d *Dense, opts ...Option) (*Masked, error) {
	if d == nil {
		return nil, fmt.Errorf("FromDense: %w", ErrNilMatrix)
	}
	o := gatherOptions(opts...)
	vals := d.clone()
	vals.validateNaNInf = o.validateNaNInf
	mask := make([]bool, len(vals.data))
	for k := range mask {
		mask[k] = true
	}

	return &Masked{vals: vals, mask: mask, n: len(mask), opts: o}, nil
}

// FromNaN builds a Masked from a flat row-major slice in which NaN marks an
// absent cell. This is the ingestion boundary for external data that encodes
// "no evidence" as NaN; inside the module absence is always the mask.
// Errors: ErrInvalidDimensions, ErrBadDataLength, ErrNaNInf (for ±Inf).
// Complexity: O(r*c).
func FromNaN(rows, cols int, data []float64, opts ...Option) (*Masked, error) {
	m, err := NewMasked(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("FromNaN: len=%d want %d: %w", len(data), rows*cols, ErrBadDataLength)
	}
	for k, v := range data {
		if v != v { // NaN ⇒ absent
			continue
		}
		if err = m.Set(k/cols, k%cols, v); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Rows returns the row count. Complexity: O(1).
func (m *Masked) Rows() int { return m.vals.r }

// Cols returns the column count. Complexity: O(1).
func (m *Masked) Cols() int { return m.vals.c }

// Shape packs Rows() and Cols().
func (m *Masked) Shape() (rows, cols int) { return m.vals.r, m.vals.c }

// Options returns the resolved numeric policy of this matrix.
func (m *Masked) Options() Options { return m.opts }

// Count returns the number of present cells. Complexity: O(1).
func (m *Masked) Count() int { return m.n }

// At returns the cell at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Masked) At(row, col int) (Cell, error) {
	off, err := m.vals.indexOf(row, col)
	if err != nil {
		return Cell{}, denseErrorf(ctxAt, row, col, err)
	}
	if !m.mask[off] {
		return Cell{}, nil
	}

	return Cell{Value: m.vals.data[off], Present: true}, nil
}

// Set stores v at (row, col) and marks the cell present.
// Errors: ErrOutOfRange, ErrNaNInf (under the numeric policy).
// Complexity: O(1).
func (m *Masked) Set(row, col int, v float64) error {
	off, err := m.vals.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.vals.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.vals.data[off] = v
	if !m.mask[off] {
		m.mask[off] = true
		m.n++
	}

	return nil
}

// Unset marks (row, col) absent.
// Errors: ErrOutOfRange.
// Complexity: O(1).
func (m *Masked) Unset(row, col int) error {
	off, err := m.vals.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxUnset, row, col, err)
	}
	if m.mask[off] {
		m.mask[off] = false
		m.n--
	}
	m.vals.data[off] = 0

	return nil
}

// SetCell writes a Cell: present cells via Set, absent cells via Unset.
func (m *Masked) SetCell(row, col int, c Cell) error {
	if c.Present {
		return m.Set(row, col, c.Value)
	}

	return m.Unset(row, col)
}

// Value is the unchecked fast path used by kernels: the caller guarantees
// 0 ≤ row < Rows() and 0 ≤ col < Cols(). Returns (value, present).
// Complexity: O(1).
func (m *Masked) Value(row, col int) (float64, bool) {
	off := row*m.vals.c + col
	if !m.mask[off] {
		return 0, false
	}

	return m.vals.data[off], true
}

// Present is the unchecked presence test (same bounds contract as Value).
func (m *Masked) Present(row, col int) bool { return m.mask[row*m.vals.c+col] }

// RowCount returns the number of present cells in row i (unchecked).
// Complexity: O(c).
func (m *Masked) RowCount(i int) int {
	cnt := 0
	base := i * m.vals.c
	for j := 0; j < m.vals.c; j++ {
		if m.mask[base+j] {
			cnt++
		}
	}

	return cnt
}

// DoPresent visits present cells only, in row-major order.
// Complexity: O(r*c).
func (m *Masked) DoPresent(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.vals.r; i++ {
		base = i * m.vals.c
		for j = 0; j < m.vals.c; j++ {
			if m.mask[base+j] && !f(i, j, m.vals.data[base+j]) {
				return
			}
		}
	}
}

// Map returns a new matrix where every present cell is replaced by f(i,j,v).
// f returns (value, keep); keep=false turns the cell absent. Absent input
// cells are never passed to f and stay absent, so Map cannot manufacture
// evidence.
// Implementation:
//   - Stage 1: clone shape and policy.
//   - Stage 2: row-major pass over present cells; reject NaN/Inf outputs.
//
// Errors: ErrNaNInf when f produced a non-finite value under the policy.
// Complexity: O(r*c).
func (m *Masked) Map(f func(i, j int, v float64) (float64, bool)) (*Masked, error) {
	out := m.emptyLike()
	var i, j, base int
	var nv float64
	var keep bool
	for i = 0; i < m.vals.r; i++ {
		base = i * m.vals.c
		for j = 0; j < m.vals.c; j++ {
			if !m.mask[base+j] {
				continue
			}
			nv, keep = f(i, j, m.vals.data[base+j])
			if !keep {
				continue
			}
			if out.vals.validateNaNInf && isNonFinite(nv) {
				return nil, denseErrorf(ctxMap, i, j, ErrNaNInf)
			}
			out.vals.data[base+j] = nv
			out.mask[base+j] = true
			out.n++
		}
	}

	return out, nil
}

// Clone returns a deep copy (values, mask and policy).
// Complexity: O(r*c).
func (m *Masked) Clone() *Masked {
	mask := make([]bool, len(m.mask))
	copy(mask, m.mask)

	return &Masked{vals: m.vals.clone(), mask: mask, n: m.n, opts: m.opts}
}

// Transpose returns mᵀ as a new matrix.
// Complexity: O(r*c).
func (m *Masked) Transpose() *Masked {
	r, c := m.vals.r, m.vals.c
	out := &Masked{
		vals: &Dense{r: c, c: r, data: make([]float64, r*c), validateNaNInf: m.vals.validateNaNInf},
		mask: make([]bool, r*c),
		n:    m.n,
		opts: m.opts,
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			out.vals.data[j*r+i] = m.vals.data[i*c+j]
			out.mask[j*r+i] = m.mask[i*c+j]
		}
	}

	return out
}

// String renders rows with "·" for absent cells. Debug only.
func (m *Masked) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.vals.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.vals.c
		for j = 0; j < m.vals.c; j++ {
			if m.mask[base+j] {
				b.WriteString(fmt.Sprintf("%g", m.vals.data[base+j]))
			} else {
				b.WriteString(_fmtAbsent)
			}
			if j+1 < m.vals.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// emptyLike allocates an all-absent matrix with m's shape and policy.
func (m *Masked) emptyLike() *Masked {
	return &Masked{
		vals: &Dense{r: m.vals.r, c: m.vals.c, data: make([]float64, len(m.vals.data)), validateNaNInf: m.vals.validateNaNInf},
		mask: make([]bool, len(m.mask)),
		opts: m.opts,
	}
}

// EmptyLike is the exported form of emptyLike for sibling packages.
func EmptyLike(m *Masked) *Masked { return m.emptyLike() }
