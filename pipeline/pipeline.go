// SPDX-License-Identifier: MIT

// Package pipeline chains the per-sentence stages of tree projection:
//
//	S ─normalize(Before)─▶ S' ─project(A)─▶ T ─normalize(After)─▶ T' ─decode─▶ tree
//
// A Pipeline is a value with no mutable state; Run may be called from many
// goroutines at once. Runner spreads a batch of sentences over a bounded
// worker pool and records failures per sentence.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/katalvlaran/treeproj/project"
)

// ErrNilAlignment indicates Run was given no alignment.
var ErrNilAlignment = errors.New("pipeline: nil alignment")

// Stage names used when wrapping errors.
const (
	StageBefore  = "normalize-before"
	StageProject = "project"
	StageAfter   = "normalize-after"
	StageDecode  = "decode"
)

// StageError reports which stage of Run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("pipeline: %s: %v", e.Stage, e.Err) }

// Unwrap exposes the stage's own error to errors.Is / errors.As.
func (e *StageError) Unwrap() error { return e.Err }

// Pipeline configures one run. Nil policies are the identity; a nil
// Decoder means arborescence.New(). Scale multiplies the target graph after
// the After policy; 0 leaves it unscaled.
type Pipeline struct {
	Before  normalize.Policy
	After   normalize.Policy
	Project []project.Option
	Decoder arborescence.ArcDecoder
	Scale   float64
}

// Result carries the projected graph (after the After policy) and its tree.
type Result struct {
	Target *digraph.Graph
	Tree   *arborescence.Tree
}

// Run projects S through A and decodes the target tree.
//
// The projected graph is returned alongside the error when only decoding
// fails, so callers can still write it out.
func (p Pipeline) Run(S *digraph.Graph, A *align.Matrix) (*Result, error) {
	if S == nil {
		return nil, &StageError{Stage: StageBefore, Err: digraph.ErrNilGraph}
	}
	if A == nil {
		return nil, &StageError{Stage: StageProject, Err: ErrNilAlignment}
	}

	src, err := normalize.Graph(p.Before, S)
	if err != nil {
		return nil, &StageError{Stage: StageBefore, Err: err}
	}
	T, err := project.Project(src, A, p.Project...)
	if err != nil {
		return nil, &StageError{Stage: StageProject, Err: err}
	}

	return p.Decode(T)
}

// Decode runs the After policy, scaling and decoding on a graph that is
// already in target space.
func (p Pipeline) Decode(T *digraph.Graph) (*Result, error) {
	T, err := normalize.Graph(p.After, T)
	if err != nil {
		return nil, &StageError{Stage: StageAfter, Err: err}
	}
	if p.Scale != 0 && p.Scale != 1 {
		if T, err = scale(T, p.Scale); err != nil {
			return nil, &StageError{Stage: StageAfter, Err: err}
		}
	}

	dec := p.Decoder
	if dec == nil {
		dec = arborescence.New()
	}
	tree, err := dec.Decode(T)
	if err != nil {
		return &Result{Target: T}, &StageError{Stage: StageDecode, Err: err}
	}

	return &Result{Target: T, Tree: tree}, nil
}

func scale(g *digraph.Graph, f float64) (*digraph.Graph, error) {
	m, err := g.Matrix().Map(func(_, _ int, v float64) (float64, bool) { return v * f, true })
	if err != nil {
		return nil, err
	}

	return digraph.FromMatrix(m, g.Orientation())
}
