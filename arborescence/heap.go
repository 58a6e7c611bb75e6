// SPDX-License-Identifier: MIT

package arborescence

// Leftist min-heap of candidate in-edges, stored in an arena and addressed
// by int handles. Every vertex owns at most one heap root; melding moves
// ownership, so a node is reachable from exactly one vertex at a time.
//
// Keys carry lazy additive tags: the true key of a node is its stored key
// plus the pending add of every strict ancestor. addAll tags a whole heap in
// O(1); tags are pushed to children before a node's children are touched.
//
// Ties on key are broken by insertion sequence (lower first), which makes
// the decoder deterministic for identical input order.

const nilNode = -1

type heapNode struct {
	edge        int     // index into the decoder's edge list
	key         float64 // reduced cost, exact once ancestors are pushed
	add         float64 // pending delta for both subtrees
	left, right int
	rank        int // null-path length
}

type heapArena struct {
	nodes []heapNode
}

func newHeapArena(capacity int) *heapArena {
	return &heapArena{nodes: make([]heapNode, 0, capacity)}
}

// single allocates a one-node heap; the node handle doubles as the
// insertion sequence number.
func (h *heapArena) single(edge int, key float64) int {
	h.nodes = append(h.nodes, heapNode{edge: edge, key: key, left: nilNode, right: nilNode, rank: 1})

	return len(h.nodes) - 1
}

func (h *heapArena) rankOf(x int) int {
	if x == nilNode {
		return 0
	}

	return h.nodes[x].rank
}

// less orders by key, then by insertion sequence.
func (h *heapArena) less(a, b int) bool {
	ka, kb := h.nodes[a].key, h.nodes[b].key
	if ka != kb {
		return ka < kb
	}

	return a < b
}

// push moves x's pending tag into its children.
func (h *heapArena) push(x int) {
	d := h.nodes[x].add
	if d == 0 {
		return
	}
	for _, c := range [2]int{h.nodes[x].left, h.nodes[x].right} {
		if c != nilNode {
			h.nodes[c].key += d
			h.nodes[c].add += d
		}
	}
	h.nodes[x].add = 0
}

// addAll adds d to every key in the heap rooted at x. O(1).
func (h *heapArena) addAll(x int, d float64) {
	if x == nilNode || d == 0 {
		return
	}
	h.nodes[x].key += d
	h.nodes[x].add += d
}

// meld merges heaps a and b and returns the new root.
// Recursion follows right spines only: depth O(log n).
func (h *heapArena) meld(a, b int) int {
	if a == nilNode {
		return b
	}
	if b == nilNode {
		return a
	}
	if h.less(b, a) {
		a, b = b, a
	}
	h.push(a)
	n := &h.nodes[a]
	r := h.meld(n.right, b)
	n = &h.nodes[a] // meld never grows the arena, but keep the pointer fresh
	n.right = r
	if h.rankOf(n.left) < h.rankOf(n.right) {
		n.left, n.right = n.right, n.left
	}
	n.rank = h.rankOf(n.right) + 1

	return a
}

// pop removes the minimum of the heap rooted at x.
// Returns the edge, its exact key, and the new root.
func (h *heapArena) pop(x int) (edge int, key float64, root int) {
	h.push(x)
	n := h.nodes[x]

	return n.edge, n.key, h.meld(n.left, n.right)
}
