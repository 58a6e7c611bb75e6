// SPDX-License-Identifier: MIT

// Package align models word alignments between a source and a target sentence.
//
// An alignment over M source and N target tokens is an (M+1)×(N+1) masked
// matrix A[source, target] with values in [0,1]. Row and column 0 stand for
// the synthetic roots, which are always aligned to each other with weight 1.
// External alignment data is 0-indexed; New shifts every index by +1.
//
// The package also reads aligner output (fast_align pairs with posteriors,
// hunalign sentence links) and projects token labels through alignments.
package align

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treeproj/matrix"
)

// Sentinel errors.
var (
	// ErrInvalidProbability indicates an alignment probability outside [0,1].
	ErrInvalidProbability = errors.New("align: probability must lie in [0,1]")

	// ErrMalformed indicates an unparsable alignment line.
	ErrMalformed = errors.New("align: malformed alignment")
)

// Link is one external (0-indexed) alignment triple.
type Link struct {
	Source int     // 0-indexed source token
	Target int     // 0-indexed target token
	Prob   float64 // alignment probability in [0,1]
}

// Entry is one present cell of a source row, in internal (root-shifted) indices.
type Entry struct {
	Target int
	Prob   float64
}

// Option configures New.
type Option func(*options)

type options struct {
	binary bool
	mopts  []matrix.Option
}

// WithBinary sets every present pair to 1.0 instead of its probability.
func WithBinary() Option { return func(o *options) { o.binary = true } }

// WithMatrixOptions forwards numeric-policy options to the backing matrix.
func WithMatrixOptions(opts ...matrix.Option) Option {
	return func(o *options) { o.mopts = append(o.mopts, opts...) }
}

// Matrix is an immutable (M+1)×(N+1) alignment.
type Matrix struct {
	m      *matrix.Masked
	fanout [][]Entry // per source row, present entries ordered by target
}

// New builds the alignment of m source and n target tokens from external
// links. Duplicate links keep the last probability.
// Implementation:
//   - Stage 1: validate sizes, indices and probabilities.
//   - Stage 2: write shifted cells, force A[0,0] = 1.
//   - Stage 3: freeze per-row fan-out lists for sparse projection.
//
// Errors: matrix.ErrInvalidDimensions (m or n < 0), matrix.ErrOutOfRange,
// ErrInvalidProbability.
// Complexity: O(m·n + len(links)).
func New(m, n int, links []Link, opts ...Option) (*Matrix, error) {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if m < 0 || n < 0 {
		return nil, fmt.Errorf("align.New: m=%d n=%d: %w", m, n, matrix.ErrInvalidDimensions)
	}
	am, err := matrix.NewMasked(m+1, n+1, o.mopts...)
	if err != nil {
		return nil, err
	}

	var p float64
	for k, l := range links {
		if l.Source < 0 || l.Source >= m || l.Target < 0 || l.Target >= n {
			return nil, fmt.Errorf("align.New: link %d (%d-%d): %w", k, l.Source, l.Target, matrix.ErrOutOfRange)
		}
		if !(l.Prob >= 0 && l.Prob <= 1) { // also rejects NaN
			return nil, fmt.Errorf("align.New: link %d prob=%g: %w", k, l.Prob, ErrInvalidProbability)
		}
		p = l.Prob
		if o.binary {
			p = 1
		}
		if err = am.Set(l.Source+1, l.Target+1, p); err != nil {
			return nil, err
		}
	}
	if err = am.Set(0, 0, 1); err != nil {
		return nil, err
	}

	return freeze(am), nil
}

// Identity returns the alignment pairing source i with target i for i in 0..n-1
// (probability 1), plus the root pair.
func Identity(n int) (*Matrix, error) {
	links := make([]Link, n)
	for i := range links {
		links[i] = Link{Source: i, Target: i, Prob: 1}
	}

	return New(n, n, links)
}

// FromMasked wraps a copy of an internal-index matrix. A[0,0] is forced to 1
// and every present value must lie in [0,1].
func FromMasked(am *matrix.Masked) (*Matrix, error) {
	if err := matrix.ValidateNotNil(am); err != nil {
		return nil, err
	}
	var bad error
	am.DoPresent(func(i, j int, v float64) bool {
		if v < 0 || v > 1 {
			bad = fmt.Errorf("align.FromMasked: A[%d,%d]=%g: %w", i, j, v, ErrInvalidProbability)
			return false
		}
		return true
	})
	if bad != nil {
		return nil, bad
	}
	cp := am.Clone()
	if err := cp.Set(0, 0, 1); err != nil {
		return nil, err
	}

	return freeze(cp), nil
}

func freeze(am *matrix.Masked) *Matrix {
	fan := make([][]Entry, am.Rows())
	am.DoPresent(func(i, j int, v float64) bool {
		fan[i] = append(fan[i], Entry{Target: j, Prob: v})
		return true
	})

	return &Matrix{m: am, fanout: fan}
}

// Rows returns M+1.
func (a *Matrix) Rows() int { return a.m.Rows() }

// Cols returns N+1.
func (a *Matrix) Cols() int { return a.m.Cols() }

// At returns A[s,t] in internal indices.
func (a *Matrix) At(s, t int) (matrix.Cell, error) { return a.m.At(s, t) }

// Value is the unchecked fast path of At.
func (a *Matrix) Value(s, t int) (float64, bool) { return a.m.Value(s, t) }

// FanOut returns the present entries of source row s ordered by target.
// The slice is shared; callers must not modify it.
func (a *Matrix) FanOut(s int) []Entry { return a.fanout[s] }

// Masked returns a copy of the backing matrix.
func (a *Matrix) Masked() *matrix.Masked { return a.m.Clone() }

// Count returns the number of present pairs, root pair included.
func (a *Matrix) Count() int { return a.m.Count() }
