package arborescence_test

import (
	"testing"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		heads []int
		ok    bool
	}{
		{"root only", []int{-1}, true},
		{"chain", []int{-1, 0, 1, 2}, true},
		{"star", []int{-1, 0, 0, 0}, true},
		{"empty", nil, false},
		{"root has head", []int{0, 0}, false},
		{"self head", []int{-1, 1}, false},
		{"out of range", []int{-1, 0, 3}, false},
		{"unresolved", []int{-1, 0, arborescence.Unresolved}, false},
		{"two cycle", []int{-1, 2, 1}, false},
		{"cycle off a rooted branch", []int{-1, 0, 3, 4, 2}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := arborescence.Validate(tc.heads)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, arborescence.ErrInvalidTree)
			}
		})
	}
}

func TestIsProjective(t *testing.T) {
	assert.True(t, arborescence.IsProjective([]int{-1, 0, 1, 2}))
	assert.True(t, arborescence.IsProjective([]int{-1, 2, 0, 2}))
	// 1→3 crosses 2→4
	assert.False(t, arborescence.IsProjective([]int{-1, 0, 4, 1, 1}))
}

func TestScore(t *testing.T) {
	g, err := digraph.FromArcs(2, []digraph.Arc{{Dep: 1, Head: 0, Weight: 0.9}, {Dep: 2, Head: 1, Weight: 0.8}})
	require.NoError(t, err)
	s, err := arborescence.Score(g, []int{-1, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.7, s, 1e-12)

	_, err = arborescence.Score(g, []int{-1, 0, 0})
	assert.ErrorIs(t, err, arborescence.ErrInvalidTree)
	_, err = arborescence.Score(g, []int{-1, 0})
	assert.ErrorIs(t, err, arborescence.ErrInvalidTree)
	_, err = arborescence.Score(g, []int{-1, 0, 7})
	assert.ErrorIs(t, err, arborescence.ErrInvalidTree)
}

func TestUnresolvedTree(t *testing.T) {
	tree := arborescence.UnresolvedTree(3)
	assert.Equal(t, []int{-1, -2, -2, -2}, tree.Heads)
	assert.Error(t, arborescence.Validate(tree.Heads))
}
