// File: graph.go
// Role: construction (New, FromMatrix, FromHeads, FromArcs) and the
//       orientation-independent accessors Weight/SetWeight/Value.
// Determinism:
//   - Arcs() and Incoming() return cells in row-major (dependent, head) order.

package digraph

import (
	"fmt"

	"github.com/katalvlaran/treeproj/matrix"
)

func gather(opts ...Option) config {
	var c config
	for _, fn := range opts {
		if fn != nil {
			fn(&c)
		}
	}

	return c
}

// New creates a graph over n tokens (size n+1) with every cell absent.
// Complexity: O(n²).
func New(n int, opts ...Option) (*Graph, error) {
	if n < 0 {
		return nil, ErrNegativeTokens
	}
	c := gather(opts...)
	m, err := matrix.NewMasked(n+1, n+1, c.mopts...)
	if err != nil {
		return nil, fmt.Errorf("digraph.New: %w", err)
	}

	return &Graph{m: m, orient: c.orient}, nil
}

// FromMatrix wraps a copy of a square masked matrix laid out in orient.
// Errors: ErrNotSquare, matrix.ErrNilMatrix.
func FromMatrix(m *matrix.Masked, orient Orientation) (*Graph, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		if m != nil {
			return nil, fmt.Errorf("digraph.FromMatrix: %dx%d: %w", m.Rows(), m.Cols(), ErrNotSquare)
		}
		return nil, fmt.Errorf("digraph.FromMatrix: %w", err)
	}

	return &Graph{m: m.Clone(), orient: orient}, nil
}

// FromHeads builds the one-hot graph of a tree: for every dependent d ≥ 1
// with heads[d] ≥ 0, W[d, heads[d]] = 1 and every other cell is absent.
// heads has length N+1; heads[0] is ignored. A negative head leaves the
// dependent without candidates.
// Errors: ErrInvalidHead.
// Complexity: O(n²).
func FromHeads(heads []int, opts ...Option) (*Graph, error) {
	if len(heads) == 0 {
		return nil, fmt.Errorf("digraph.FromHeads: empty heads: %w", ErrInvalidHead)
	}
	n := len(heads) - 1
	g, err := New(n, opts...)
	if err != nil {
		return nil, err
	}
	for d := 1; d <= n; d++ {
		h := heads[d]
		if h < 0 {
			continue
		}
		if h > n || h == d {
			return nil, fmt.Errorf("digraph.FromHeads: heads[%d]=%d: %w", d, h, ErrInvalidHead)
		}
		if err = g.SetWeight(d, h, 1); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// FromArcs builds a graph over n tokens holding exactly the given arcs.
// Later duplicates overwrite earlier ones.
func FromArcs(n int, arcs []Arc, opts ...Option) (*Graph, error) {
	g, err := New(n, opts...)
	if err != nil {
		return nil, err
	}
	for _, a := range arcs {
		if err = g.SetWeight(a.Dep, a.Head, a.Weight); err != nil {
			return nil, fmt.Errorf("digraph.FromArcs: arc %d->%d: %w", a.Head, a.Dep, err)
		}
	}

	return g, nil
}

// Tokens returns N, the number of non-root nodes.
func (g *Graph) Tokens() int { return g.m.Rows() - 1 }

// Size returns N+1.
func (g *Graph) Size() int { return g.m.Rows() }

// Orientation reports the storage layout.
func (g *Graph) Orientation() Orientation { return g.orient }

// rc maps (dep, head) to storage (row, col).
func (g *Graph) rc(dep, head int) (int, int) {
	if g.orient == HeadMajor {
		return head, dep
	}

	return dep, head
}

// Weight returns the cell for the edge head→dep.
// Errors: matrix.ErrOutOfRange.
func (g *Graph) Weight(dep, head int) (matrix.Cell, error) {
	r, c := g.rc(dep, head)

	return g.m.At(r, c)
}

// Value is the unchecked fast path of Weight (caller guarantees bounds).
func (g *Graph) Value(dep, head int) (float64, bool) {
	r, c := g.rc(dep, head)

	return g.m.Value(r, c)
}

// SetWeight stores w as the confidence of head→dep.
// Errors: matrix.ErrOutOfRange, matrix.ErrNaNInf.
func (g *Graph) SetWeight(dep, head int, w float64) error {
	r, c := g.rc(dep, head)

	return g.m.Set(r, c, w)
}

// ClearWeight marks head→dep absent.
func (g *Graph) ClearWeight(dep, head int) error {
	r, c := g.rc(dep, head)

	return g.m.Unset(r, c)
}

// Matrix returns a copy of the backing matrix in storage orientation.
func (g *Graph) Matrix() *matrix.Masked { return g.m.Clone() }

// Canonical returns a dependent-major copy of g.
// Complexity: O(n²).
func (g *Graph) Canonical() *Graph {
	if g.orient == DependentMajor {
		return g.Clone()
	}

	return &Graph{m: g.m.Transpose(), orient: DependentMajor}
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph { return &Graph{m: g.m.Clone(), orient: g.orient} }

// Arcs lists every present off-diagonal cell with a non-root dependent,
// ordered by dependent then head. The root row never describes an edge.
// Complexity: O(n²).
func (g *Graph) Arcs() []Arc {
	size := g.Size()
	out := make([]Arc, 0, g.m.Count())
	var d, h int
	for d = 1; d < size; d++ {
		for h = 0; h < size; h++ {
			if d == h {
				continue
			}
			if w, ok := g.Value(d, h); ok {
				out = append(out, Arc{Dep: d, Head: h, Weight: w})
			}
		}
	}

	return out
}

// Incoming lists the present candidate heads of dep (diagonal excluded),
// ordered by head index. Caller guarantees 0 ≤ dep < Size().
// Complexity: O(n).
func (g *Graph) Incoming(dep int) []Arc {
	var out []Arc
	for h := 0; h < g.Size(); h++ {
		if h == dep {
			continue
		}
		if w, ok := g.Value(dep, h); ok {
			out = append(out, Arc{Dep: dep, Head: h, Weight: w})
		}
	}

	return out
}

// String renders the dependent-major view; absent cells print as "·".
func (g *Graph) String() string { return g.Canonical().m.String() }
