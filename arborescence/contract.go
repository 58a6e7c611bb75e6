// SPDX-License-Identifier: MIT

package arborescence

// Vertex arena for the contraction phase.
//
// Handles 0..size-1 are the graph nodes; super-vertices are appended as
// cycles contract, so the arena never exceeds 2·size entries. Links between
// vertices (parent, prev, children) are handles, never pointers.

const none = -1

type edge struct {
	from, to int     // original head and dependent
	cost     float64 // raw cost: -weight when maximizing
}

type vertex struct {
	heap     int     // root of the owned candidate heap
	in       int     // chosen in-edge (index into edges) or none
	cnst     float64 // offset applied to every candidate entering this subtree
	prev     int     // source vertex of the chosen in-edge on the active path
	parent   int     // super-vertex that absorbed this one
	children []int   // absorbed vertices (super-vertices only)
}

type contractor struct {
	verts []vertex
	edges []edge
	heaps *heapArena

	// weighted union-find mirror of parent/cnst, used only with compress
	compress bool
	up       []int
	off      []float64
	path     []int
}

func newContractor(size int, edges []edge, compress bool) *contractor {
	c := &contractor{
		verts:    make([]vertex, 0, 2*size),
		edges:    edges,
		heaps:    newHeapArena(len(edges)),
		compress: compress,
	}
	if compress {
		c.up = make([]int, 0, 2*size)
		c.off = make([]float64, 0, 2*size)
	}
	for v := 0; v < size; v++ {
		c.newVertex()
	}
	for k, e := range edges {
		node := c.heaps.single(k, e.cost)
		c.verts[e.to].heap = c.heaps.meld(c.verts[e.to].heap, node)
	}

	return c
}

func (c *contractor) newVertex() int {
	c.verts = append(c.verts, vertex{heap: nilNode, in: none, prev: none, parent: none})
	id := len(c.verts) - 1
	if c.compress {
		c.up = append(c.up, id)
		c.off = append(c.off, 0)
	}

	return id
}

// find returns the current representative of x.
func (c *contractor) find(x int) int {
	if c.compress {
		r, _ := c.findOff(x)
		return r
	}
	for c.verts[x].parent != none {
		x = c.verts[x].parent
	}

	return x
}

// effCost is the reduced cost of edge e: its raw cost plus the offsets of
// every absorbed vertex between its target and the current representative.
func (c *contractor) effCost(e int) float64 {
	w := c.edges[e].cost
	if c.compress {
		_, o := c.findOff(c.edges[e].to)
		return w + o
	}
	for v := c.edges[e].to; c.verts[v].parent != none; v = c.verts[v].parent {
		w += c.verts[v].cnst
	}

	return w
}

// findOff resolves x with full path compression and returns the sum of
// offsets from x up to (excluding) the representative.
func (c *contractor) findOff(x int) (int, float64) {
	c.path = c.path[:0]
	for c.up[x] != x {
		c.path = append(c.path, x)
		x = c.up[x]
	}
	root := x
	var acc float64
	for i := len(c.path) - 1; i >= 0; i-- {
		v := c.path[i]
		acc += c.off[v]
		c.off[v] = acc
		c.up[v] = root
	}
	if len(c.path) == 0 {
		return root, 0
	}

	return root, c.off[c.path[0]]
}

// link records that y was absorbed by s.
func (c *contractor) link(y, s int) {
	c.verts[y].parent = s
	if c.compress {
		c.up[y] = s
		c.off[y] = c.verts[y].cnst
	}
}

// contract runs the grow-or-contract loop from the root until the current
// vertex has no candidates left, i.e. everything has been absorbed.
func (c *contractor) contract() {
	a := 0
	for c.verts[a].heap != nilNode {
		e, _, rest := c.heaps.pop(c.verts[a].heap)
		c.verts[a].heap = rest
		b := c.find(c.edges[e].from)
		if b == a {
			continue // self-loop in the contracted graph
		}
		c.verts[a].in = e
		c.verts[a].prev = b
		if c.verts[b].in == none {
			a = b // extend the path
			continue
		}

		// b is on the path: the cycle is a → b.prev … → a. prev links may
		// name vertices absorbed since they were set, so each step resolves
		// to the current representative; the walk ends back at s.
		s := c.newVertex()
		for a != s && c.verts[a].parent == none {
			cst := -c.effCost(c.verts[a].in)
			c.verts[a].cnst = cst
			c.heaps.addAll(c.verts[a].heap, cst)
			c.verts[s].heap = c.heaps.meld(c.verts[s].heap, c.verts[a].heap)
			c.verts[a].heap = nilNode
			c.link(a, s)
			c.verts[s].children = append(c.verts[s].children, a)
			a = c.find(c.verts[a].prev)
		}
		a = s
	}
}

// expand dismantles the hierarchy from the root and returns, for every
// original node 1..size-1, its head. The root's own in-edge is discarded.
func (c *contractor) expand(size int) []int {
	var queue []int
	dismantle := func(u int) {
		for c.verts[u].parent != none {
			u = c.verts[u].parent
			for _, v := range c.verts[u].children {
				c.verts[v].parent = none
				if len(c.verts[v].children) > 0 {
					queue = append(queue, v)
				}
			}
			c.verts[u].children = nil
		}
	}

	dismantle(0)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		e := c.verts[s].in
		v := c.edges[e].to
		c.verts[v].in = e
		dismantle(v)
	}

	heads := make([]int, size)
	heads[0] = NoHead
	for v := 1; v < size; v++ {
		if e := c.verts[v].in; e != none {
			heads[v] = c.edges[e].from
		} else {
			heads[v] = Unresolved
		}
	}

	return heads
}
