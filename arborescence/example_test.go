package arborescence_test

import (
	"fmt"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
)

// ExampleDecode_cycle decodes a graph whose best in-edges form the cycle
// 1↔2. The decoder contracts the cycle and breaks it through the root.
func ExampleDecode_cycle() {
	// 1. Candidate heads as (dependent, head, weight).
	g, _ := digraph.FromArcs(2, []digraph.Arc{
		{Dep: 1, Head: 2, Weight: 5},
		{Dep: 2, Head: 1, Weight: 5},
		{Dep: 1, Head: 0, Weight: 1},
		{Dep: 2, Head: 0, Weight: 1.5},
	})

	// 2. Decode the maximum arborescence rooted at 0.
	tree, err := arborescence.Decode(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("heads:", tree.Heads[1:], "weight:", tree.Weight)
	// Output: heads: [2 0] weight: 6.5
}

// ExampleValidate rejects a head array containing a cycle.
func ExampleValidate() {
	fmt.Println(arborescence.Validate([]int{-1, 0, 1}) == nil)
	fmt.Println(arborescence.Validate([]int{-1, 2, 1}) == nil)
	// Output:
	// true
	// false
}
