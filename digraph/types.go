// Package digraph defines the root-inclusive weighted dependency graph.
//
// A Graph over a sentence of N tokens is an (N+1)×(N+1) masked matrix. Node 0
// is the synthetic root. A cell holds the confidence that one node is the head
// of another; an absent cell means "no evidence" and is never read as zero.
//
// This file declares Orientation, Arc, Graph, Option and the sentinel errors.
//
// Errors:
//
//	ErrNegativeTokens - token count below zero.
//	ErrNotSquare      - matrix handed to FromMatrix is not square.
//	ErrInvalidHead    - head index out of range or pointing at itself.
//	ErrNilGraph       - nil graph passed where one is required.
package digraph

import (
	"errors"

	"github.com/katalvlaran/treeproj/matrix"
)

// Sentinel errors for digraph construction and access.
var (
	// ErrNegativeTokens indicates a negative token count.
	ErrNegativeTokens = errors.New("digraph: token count must be >= 0")

	// ErrNotSquare indicates the backing matrix is not (N+1)×(N+1).
	ErrNotSquare = errors.New("digraph: matrix is not square")

	// ErrInvalidHead indicates a head index outside 0..N or equal to its dependent.
	ErrInvalidHead = errors.New("digraph: invalid head index")

	// ErrNilGraph indicates a nil *Graph.
	ErrNilGraph = errors.New("digraph: nil graph")
)

// Root is the index of the synthetic root node.
const Root = 0

// Orientation tells how a (dependent, head) pair maps onto (row, col).
type Orientation int

const (
	// DependentMajor stores W[dependent, head]: row d lists the candidate
	// heads of d. This is the layout of the CoNLL graph reader.
	DependentMajor Orientation = iota

	// HeadMajor stores W[head, dependent].
	HeadMajor
)

// String returns "dependent-major" or "head-major".
func (o Orientation) String() string {
	if o == HeadMajor {
		return "head-major"
	}

	return "dependent-major"
}

// Arc is one present, off-diagonal cell read as an edge head→dependent.
type Arc struct {
	Dep    int     // dependent node index (1..N)
	Head   int     // head node index (0..N)
	Weight float64 // confidence
}

// Option configures a Graph before creation.
type Option func(*config)

type config struct {
	orient Orientation
	mopts  []matrix.Option
}

// WithOrientation selects the storage layout (default DependentMajor).
func WithOrientation(o Orientation) Option {
	return func(c *config) { c.orient = o }
}

// WithMatrixOptions forwards numeric-policy options to the backing matrix.
func WithMatrixOptions(opts ...matrix.Option) Option {
	return func(c *config) { c.mopts = append(c.mopts, opts...) }
}

// Graph is a weighted digraph over nodes 0..N with node 0 as root.
//
// W[0,0] and every other diagonal cell are never real edges; Arcs and
// Incoming skip them. A Graph is not safe for concurrent mutation; once
// built it is read-only for projection and decoding.
type Graph struct {
	m      *matrix.Masked // (N+1)×(N+1)
	orient Orientation
}
