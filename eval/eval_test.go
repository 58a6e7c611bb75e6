package eval_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer(t *testing.T) {
	var s eval.Scorer
	_, ok := s.Scores()
	assert.False(t, ok)

	gold := []conll.Token{
		{CPOS: "N", Head: 2, DepRel: "nsubj"},
		{CPOS: "V", Head: 0, DepRel: "root"},
		{CPOS: "N", Head: 2, DepRel: "obj"},
		{CPOS: "P", Head: 2, DepRel: "punct"},
	}
	sys := []conll.Token{
		{CPOS: "N", Head: 2, DepRel: "nsubj"}, // all right
		{CPOS: "N", Head: 0, DepRel: "dep"},   // head only
		{CPOS: "N", Head: 1, DepRel: "obj"},   // label only
		{CPOS: "X", Head: -1, DepRel: "_"},    // nothing
	}
	for i := range gold {
		s.Update(gold[i], sys[i])
	}
	got, ok := s.Scores()
	require.True(t, ok)
	assert.Equal(t, 4, s.Tokens())
	assert.InDelta(t, 75, got.POS, 1e-12)
	assert.InDelta(t, 25, got.LAS, 1e-12)
	assert.InDelta(t, 50, got.UAS, 1e-12)
	assert.InDelta(t, 50, got.LA, 1e-12)
	assert.Equal(t, "POS 75.00 LAS 25.00 UAS 50.00 LA 50.00", got.String())

	s.Reset()
	assert.Zero(t, s.Tokens())
}

func TestScoreSentences(t *testing.T) {
	gold, err := conll.ReadAll(strings.NewReader("1 a _ N N _ 0 root\n2 b _ V V _ 1 dep\n\n1 c _ N N _ 0 root\n"), conll.Plain)
	require.NoError(t, err)
	sys, err := conll.ReadAll(strings.NewReader("1 a _ N N _ 0 root\n2 b _ V V _ 0 dep\n\n1 c _ V V _ 0 root\n"), conll.Plain)
	require.NoError(t, err)

	s, ok, err := eval.ScoreSentences(gold, sys)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 200.0/3, s.UAS, 1e-9)
	assert.InDelta(t, 200.0/3, s.POS, 1e-9)
	assert.InDelta(t, 100, s.LA, 1e-9)

	_, _, err = eval.ScoreSentences(gold, sys[:1])
	assert.ErrorIs(t, err, eval.ErrLengthMismatch)
	_, _, err = eval.ScoreSentences(gold[:1], sys[1:])
	assert.ErrorIs(t, err, eval.ErrLengthMismatch)

	_, ok, err = eval.ScoreSentences(nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
