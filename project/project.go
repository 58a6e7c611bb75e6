// SPDX-License-Identifier: MIT

// Package project maps a source dependency graph onto a target sentence
// through a word alignment.
//
// For every target edge candidate (dt, ht):
//
//	T[dt,ht] = max over (ds,hs) of A[ds,dt] · A[hs,ht] · S[ds,hs]
//
// The aggregate is a maximum, so the strongest single piece of source
// evidence wins and one-to-many alignments are not double counted.
// T[dt,ht] is absent iff no triple has all three terms present with both
// alignment weights nonzero; a triple that evaluates to exactly 0 yields a
// present zero.
//
// Two evaluation strategies produce identical results:
//
//	Sparse (default) iterates present source arcs × alignment fan-outs,
//	                 cost ∝ |S present| · fanout².
//	Dense            four nested loops, O(m²·n²); the executable definition.
package project

import (
	"fmt"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/matrix"
)

// Strategy selects the evaluation order.
type Strategy int

const (
	// Sparse walks present source arcs and alignment fan-out lists.
	Sparse Strategy = iota
	// Dense evaluates every (ds, hs, dt, ht) quadruple.
	Dense
)

// String returns "sparse" or "dense".
func (s Strategy) String() string {
	if s == Dense {
		return "dense"
	}

	return "sparse"
}

// Option configures Project.
type Option func(*options)

type options struct {
	strategy Strategy
	scale    float64
	mopts    []matrix.Option
}

// WithStrategy selects Sparse (default) or Dense evaluation.
func WithStrategy(s Strategy) Option { return func(o *options) { o.strategy = s } }

// WithScale multiplies every present output cell by f, e.g. a language
// similarity estimate. Default 1.
func WithScale(f float64) Option { return func(o *options) { o.scale = f } }

// WithMatrixOptions forwards numeric-policy options to the output graph.
func WithMatrixOptions(opts ...matrix.Option) Option {
	return func(o *options) { o.mopts = append(o.mopts, opts...) }
}

// Project computes the target graph of S through A.
// S is read through Weight(dep, head), so either orientation works; the
// result is dependent-major with A.Cols() nodes.
// Implementation:
//   - Stage 1: validate S.Size() == A.Rows().
//   - Stage 2: evaluate with the selected strategy into a masked buffer.
//   - Stage 3: apply the scale factor and wrap as a graph.
//
// Errors: digraph.ErrNilGraph, matrix.ErrShapeMismatch, matrix.ErrNaNInf.
func Project(S *digraph.Graph, A *align.Matrix, opts ...Option) (*digraph.Graph, error) {
	o := options{strategy: Sparse, scale: 1}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if S == nil {
		return nil, digraph.ErrNilGraph
	}
	if A == nil {
		return nil, fmt.Errorf("Project: alignment: %w", matrix.ErrNilMatrix)
	}
	if S.Size() != A.Rows() {
		return nil, fmt.Errorf("Project: graph size %d vs alignment rows %d: %w", S.Size(), A.Rows(), matrix.ErrShapeMismatch)
	}

	n1 := A.Cols()
	best := make([]float64, n1*n1)
	seen := make([]bool, n1*n1)
	switch o.strategy {
	case Dense:
		projectDense(S, A, best, seen)
	default:
		projectSparse(S, A, best, seen)
	}

	T, err := digraph.New(n1-1, digraph.WithMatrixOptions(o.mopts...))
	if err != nil {
		return nil, err
	}
	for k, ok := range seen {
		if !ok {
			continue
		}
		if err = T.SetWeight(k/n1, k%n1, best[k]*o.scale); err != nil {
			return nil, fmt.Errorf("Project: %w", err)
		}
	}

	return T, nil
}

// offer folds one candidate into the running maximum of cell k.
func offer(best []float64, seen []bool, k int, v float64) {
	if !seen[k] || v > best[k] {
		best[k] = v
		seen[k] = true
	}
}

// projectSparse iterates present source arcs (diagonal included) and, for
// each, the fan-outs of its two endpoints.
// Complexity: O(|S present| · fanout²).
func projectSparse(S *digraph.Graph, A *align.Matrix, best []float64, seen []bool) {
	n1 := A.Cols()
	size := S.Size()
	var ds, hs int
	for ds = 0; ds < size; ds++ {
		dFan := A.FanOut(ds)
		if len(dFan) == 0 {
			continue
		}
		for hs = 0; hs < size; hs++ {
			w, ok := S.Value(ds, hs)
			if !ok {
				continue
			}
			hFan := A.FanOut(hs)
			for _, de := range dFan {
				if de.Prob == 0 {
					continue
				}
				for _, he := range hFan {
					if he.Prob == 0 {
						continue
					}
					offer(best, seen, de.Target*n1+he.Target, de.Prob*he.Prob*w)
				}
			}
		}
	}
}

// projectDense evaluates the definition literally.
// Complexity: O(m²·n²).
func projectDense(S *digraph.Graph, A *align.Matrix, best []float64, seen []bool) {
	m1, n1 := A.Rows(), A.Cols()
	var ds, hs, dt, ht int
	var w, ad, ah float64
	var ok bool
	for dt = 0; dt < n1; dt++ {
		for ht = 0; ht < n1; ht++ {
			for ds = 0; ds < m1; ds++ {
				if ad, ok = A.Value(ds, dt); !ok || ad == 0 {
					continue
				}
				for hs = 0; hs < m1; hs++ {
					if ah, ok = A.Value(hs, ht); !ok || ah == 0 {
						continue
					}
					if w, ok = S.Value(ds, hs); !ok {
						continue
					}
					offer(best, seen, dt*n1+ht, ad*ah*w)
				}
			}
		}
	}
}
