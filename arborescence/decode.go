// SPDX-License-Identifier: MIT

package arborescence

import (
	"fmt"

	"github.com/katalvlaran/treeproj/bfs"
	"github.com/katalvlaran/treeproj/digraph"
)

// Decode returns the optimal arborescence of g rooted at node 0.
// Implementation:
//   - Stage 1: optional greedy-root pre-pass on a copy of g.
//   - Stage 2: feasibility (every node has a candidate head and is
//     reachable from the root over present arcs).
//   - Stage 3: collect candidate edges (diagonal and root row excluded)
//     plus zero-cost placeholder edges u→0, which make the contraction
//     graph strongly connected; they are discarded on expansion.
//   - Stage 4: contract, expand, and assemble heads, weight and warnings.
//
// Errors: digraph.ErrNilGraph, ErrInfeasibleGraph.
// Complexity: O(E log E) heap work; representative lookup O(depth) per
// query, amortized near-constant with WithPathCompression.
func (d *Decoder) Decode(g *digraph.Graph) (*Tree, error) {
	if g == nil {
		return nil, digraph.ErrNilGraph
	}
	work := g
	var err error
	if d.greedyRoot {
		if work, err = greedyRoot(g, d.minimize); err != nil {
			return nil, err
		}
	}
	cands, err := candidates(work)
	if err != nil {
		return nil, err
	}

	size := work.Size()
	edges := make([]edge, 0, countArcs(cands)+size-1)
	sign := -1.0
	if d.minimize {
		sign = 1
	}
	for dep := 1; dep < size; dep++ {
		for _, a := range cands[dep] {
			edges = append(edges, edge{from: a.Head, to: dep, cost: sign * a.Weight})
		}
	}
	for u := 1; u < size; u++ {
		edges = append(edges, edge{from: u, to: digraph.Root})
	}

	ctr := newContractor(size, edges, d.compress)
	ctr.contract()
	heads := ctr.expand(size)

	t := &Tree{Heads: heads}
	for dep := 1; dep < size; dep++ {
		h := heads[dep]
		if h < 0 {
			return nil, fmt.Errorf("node %d left without head: %w", dep, ErrInfeasibleGraph)
		}
		w, _ := work.Value(dep, h)
		t.Weight += w
		if len(cands[dep]) == 1 {
			t.Warnings = append(t.Warnings, Warning{Kind: MissingEvidence, Node: dep, Head: h, Weight: w})
		}
		if d.lowConfSet && w < d.lowConf {
			t.Warnings = append(t.Warnings, Warning{Kind: LowConfidence, Node: dep, Head: h, Weight: w})
		}
	}

	return t, nil
}

// candidates returns the present in-arcs of every node and verifies that a
// spanning arborescence exists: each non-root node has at least one
// candidate head, and a breadth-first walk from the root over present arcs
// reaches every node.
func candidates(g *digraph.Graph) ([][]digraph.Arc, error) {
	size := g.Size()
	cands := make([][]digraph.Arc, size)
	for dep := 1; dep < size; dep++ {
		cands[dep] = g.Incoming(dep)
		if len(cands[dep]) == 0 {
			return nil, fmt.Errorf("node %d has no candidate head: %w", dep, ErrInfeasibleGraph)
		}
	}

	walk, err := bfs.BFS(g, digraph.Root)
	if err != nil {
		return nil, err
	}
	if missing := walk.Unreached(); len(missing) > 0 {
		return nil, fmt.Errorf("node %d unreachable from root: %w", missing[0], ErrInfeasibleGraph)
	}

	return cands, nil
}

func countArcs(c [][]digraph.Arc) int {
	n := 0
	for _, a := range c {
		n += len(a)
	}

	return n
}

// greedyRoot keeps only the best present root attachment (maximum weight,
// or minimum with minimize; ties to the lowest dependent) and makes every
// other W[d,0] absent. g is not modified.
func greedyRoot(g *digraph.Graph, minimize bool) (*digraph.Graph, error) {
	best, bestW := none, 0.0
	size := g.Size()
	for dep := 1; dep < size; dep++ {
		w, ok := g.Value(dep, digraph.Root)
		if !ok {
			continue
		}
		if best == none || (!minimize && w > bestW) || (minimize && w < bestW) {
			best, bestW = dep, w
		}
	}
	out := g.Clone()
	for dep := 1; dep < size; dep++ {
		if dep == best {
			continue
		}
		if err := out.ClearWeight(dep, digraph.Root); err != nil {
			return nil, err
		}
	}

	return out, nil
}
