// Package arborescence decodes the best spanning arborescence of a weighted
// dependency graph rooted at node 0.
//
// Decode picks, for every non-root node, exactly one incoming edge so that
// the chosen edges form a tree rooted at 0 with the optimal total weight
// (maximum by default, minimum with WithMinimize). Absent cells are never
// selectable and the diagonal is ignored.
//
// The algorithm is Tarjan's contraction variant of Chu–Liu/Edmonds:
//
//	grow    follow cheapest in-edges backward from the current vertex
//	contract when a cycle closes, merge it into a super-vertex; every
//	        member carries a lazy offset so its candidates are re-weighted
//	        without touching them
//	expand  dismantle super-vertices top-down from the root and keep one
//	        real in-edge per original node
//
// All state lives in an index-addressed arena created per call, so a single
// Decoder may serve concurrent goroutines.
//
// Errors:
//
//	ErrInfeasibleGraph - some node has no candidate head or is unreachable.
//	ErrInvalidTree     - a head array is not a rooted, acyclic tree.
package arborescence

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treeproj/digraph"
)

var (
	// ErrInfeasibleGraph indicates no spanning arborescence exists once
	// absent cells are excluded.
	ErrInfeasibleGraph = errors.New("arborescence: graph is infeasible")

	// ErrInvalidTree indicates a malformed head array.
	ErrInvalidTree = errors.New("arborescence: invalid tree")
)

const (
	// NoHead is the head of the root.
	NoHead = -1

	// Unresolved marks a dependent that received no head.
	Unresolved = -2
)

// WarningKind classifies non-fatal diagnostics.
type WarningKind int

const (
	// MissingEvidence: the node had exactly one candidate head, so its
	// attachment was forced rather than chosen.
	MissingEvidence WarningKind = iota + 1

	// LowConfidence: the chosen in-edge weighs less than the configured floor.
	LowConfidence
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case MissingEvidence:
		return "missing-evidence"
	case LowConfidence:
		return "low-confidence"
	}

	return "unknown"
}

// Warning is a non-fatal diagnostic about one node's chosen head.
type Warning struct {
	Kind   WarningKind
	Node   int
	Head   int
	Weight float64
}

// Error implements error so warnings can be logged or joined.
func (w Warning) Error() string {
	return fmt.Sprintf("arborescence: %s: node %d head %d weight %g", w.Kind, w.Node, w.Head, w.Weight)
}

// Tree is a decoded arborescence.
type Tree struct {
	// Heads has length N+1: Heads[0] is NoHead, Heads[d] is the head of d.
	Heads []int

	// Weight is the sum of the chosen edges' original weights.
	Weight float64

	// Warnings lists diagnostics in node order.
	Warnings []Warning
}

// UnresolvedTree returns the "no tree produced" result for n tokens: every
// dependent is Unresolved.
func UnresolvedTree(n int) *Tree {
	heads := make([]int, n+1)
	heads[0] = NoHead
	for d := 1; d <= n; d++ {
		heads[d] = Unresolved
	}

	return &Tree{Heads: heads}
}

// ArcDecoder is the contract shared by every decoder the pipeline accepts:
// a weighted graph in, one head per non-root node out. Alternative decoders
// (e.g. an ILP formulation) plug in by satisfying it.
type ArcDecoder interface {
	Decode(g *digraph.Graph) (*Tree, error)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMinimize selects the minimum-weight arborescence.
func WithMinimize() Option { return func(d *Decoder) { d.minimize = true } }

// WithGreedyRoot runs the root pre-pass: only the best present root
// attachment W[d,0] survives; all other root attachments become absent.
// This forces a single child of the root independently of the optimum.
func WithGreedyRoot() Option { return func(d *Decoder) { d.greedyRoot = true } }

// WithPathCompression resolves representatives with a weighted union-find
// instead of walking parent links. Results are identical; deep contraction
// hierarchies resolve faster.
func WithPathCompression() Option { return func(d *Decoder) { d.compress = true } }

// WithLowConfidence emits a LowConfidence warning for every chosen edge
// whose weight is below floor.
func WithLowConfidence(floor float64) Option {
	return func(d *Decoder) {
		d.lowConf = floor
		d.lowConfSet = true
	}
}

// Decoder is a configured, stateless arborescence decoder.
type Decoder struct {
	minimize   bool
	greedyRoot bool
	compress   bool
	lowConf    float64
	lowConfSet bool
}

var _ ArcDecoder = (*Decoder)(nil)

// New returns a Decoder with the given options.
func New(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, fn := range opts {
		if fn != nil {
			fn(d)
		}
	}

	return d
}

// Decode is shorthand for New(opts...).Decode(g).
func Decode(g *digraph.Graph, opts ...Option) (*Tree, error) {
	return New(opts...).Decode(g)
}
