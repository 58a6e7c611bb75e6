// Package bfs walks a dependency graph breadth-first along present arcs,
// from a head to its dependents.
//
// Node 0 is usually the start: the nodes BFS cannot reach from the root are
// exactly the ones no spanning tree can attach.
package bfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/treeproj/digraph"
)

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	node  int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	opts  Options
	ctx   context.Context
	out   [][]int // dependents per head, ascending
	queue []queueItem
	res   *Result
}

// BFS runs breadth-first search on g starting from start, applying any
// number of functional Options. Arcs are followed head→dependent; the
// diagonal is ignored.
// Returns ErrGraphNil or ErrStartOutOfRange for invalid input,
// ErrOptionViolation for bad options, or any user-supplied hook error.
// Complexity: O(n²) to read the graph, O(V + E) to walk it.
func BFS(g *digraph.Graph, start int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	n := g.Size()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, n)
	}

	w := &walker{
		opts:  o,
		ctx:   o.Ctx,
		out:   make([][]int, n),
		queue: make([]queueItem, 0, n),
		res: &Result{
			Order:  make([]int, 0, n),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		},
	}
	for v := range w.res.Depth {
		w.res.Depth[v] = -1
		w.res.Parent[v] = -1
	}
	for _, a := range g.Arcs() {
		if o.FilterArc(a.Head, a.Dep, a.Weight) {
			w.out[a.Head] = append(w.out[a.Head], a.Dep)
		}
	}

	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

// enqueue marks node visited at depth d and records its parent.
func (w *walker) enqueue(node, d, parent int) {
	w.res.Depth[node] = d
	w.res.Parent[node] = parent
	w.queue = append(w.queue, queueItem{node: node, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.node)
		if err := w.opts.OnVisit(item.node, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.node, err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, dep := range w.out[item.node] {
			if w.res.Depth[dep] < 0 {
				w.enqueue(dep, next, item.node)
			}
		}
	}

	return nil
}
