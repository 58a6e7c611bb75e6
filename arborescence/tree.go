package arborescence

import (
	"fmt"

	"github.com/katalvlaran/treeproj/digraph"
)

// Validate checks that heads encodes a tree rooted at 0: heads[0] is NoHead,
// every other entry is a node index other than itself, and following heads
// from any node reaches the root without revisiting a node.
// Errors: ErrInvalidTree.
// Complexity: O(n).
func Validate(heads []int) error {
	if len(heads) == 0 {
		return fmt.Errorf("empty head array: %w", ErrInvalidTree)
	}
	if heads[0] != NoHead {
		return fmt.Errorf("root head %d: %w", heads[0], ErrInvalidTree)
	}
	n := len(heads) - 1
	for d := 1; d <= n; d++ {
		if h := heads[d]; h < 0 || h > n || h == d {
			return fmt.Errorf("heads[%d]=%d: %w", d, h, ErrInvalidTree)
		}
	}

	// 0 = unvisited, 1 = on current walk, 2 = known to reach root
	state := make([]uint8, n+1)
	state[0] = 2
	var walk []int
	for d := 1; d <= n; d++ {
		walk = walk[:0]
		v := d
		for state[v] == 0 {
			state[v] = 1
			walk = append(walk, v)
			v = heads[v]
		}
		if state[v] == 1 {
			return fmt.Errorf("cycle through node %d: %w", v, ErrInvalidTree)
		}
		for _, u := range walk {
			state[u] = 2
		}
	}

	return nil
}

// IsProjective reports whether no two arcs of the tree cross when drawn
// above the sentence. heads must pass Validate.
// Complexity: O(n²).
func IsProjective(heads []int) bool {
	type span struct{ lo, hi int }
	spans := make([]span, 0, len(heads))
	for d := 1; d < len(heads); d++ {
		lo, hi := d, heads[d]
		if lo > hi {
			lo, hi = hi, lo
		}
		spans = append(spans, span{lo, hi})
	}
	for _, a := range spans {
		for _, b := range spans {
			if a.lo < b.lo && b.lo < a.hi && b.hi > a.hi {
				return false
			}
		}
	}

	return true
}

// Score sums the weights of the arcs heads selects in g.
// Errors: ErrInvalidTree for a wrong length, an out-of-range head, or an
// absent arc.
func Score(g *digraph.Graph, heads []int) (float64, error) {
	if g == nil {
		return 0, digraph.ErrNilGraph
	}
	if len(heads) != g.Size() {
		return 0, fmt.Errorf("len(heads)=%d want %d: %w", len(heads), g.Size(), ErrInvalidTree)
	}
	var sum float64
	for d := 1; d < len(heads); d++ {
		c, err := g.Weight(d, heads[d])
		if err != nil {
			return 0, fmt.Errorf("heads[%d]=%d: %v: %w", d, heads[d], err, ErrInvalidTree)
		}
		if !c.Present {
			return 0, fmt.Errorf("arc %d->%d absent: %w", heads[d], d, ErrInvalidTree)
		}
		sum += c.Value
	}

	return sum, nil
}
