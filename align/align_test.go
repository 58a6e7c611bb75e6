// SPDX-License-Identifier: MIT
package align_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/matrix"
	"github.com/katalvlaran/treeproj/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_ShiftAndRoot verifies +1 shifting and the fixed root pair.
func TestNew_ShiftAndRoot(t *testing.T) {
	t.Parallel()
	a, err := align.New(2, 3, []align.Link{{Source: 0, Target: 2, Prob: 0.4}, {Source: 1, Target: 0, Prob: 0}})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Rows())
	assert.Equal(t, 4, a.Cols())

	c, err := a.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, matrix.Some(1), c)

	v, ok := a.Value(1, 3)
	assert.True(t, ok)
	assert.Equal(t, 0.4, v)

	v, ok = a.Value(2, 1)
	assert.True(t, ok, "a zero-probability link is present")
	assert.Equal(t, 0.0, v)

	_, ok = a.Value(1, 1)
	assert.False(t, ok)
	assert.Equal(t, 3, a.Count())

	assert.Equal(t, []align.Entry{{Target: 3, Prob: 0.4}}, a.FanOut(1))
	assert.Empty(t, a.FanOut(0)[1:])
}

// TestNew_Binary sets present pairs to one.
func TestNew_Binary(t *testing.T) {
	t.Parallel()
	a, err := align.New(1, 1, []align.Link{{Source: 0, Target: 0, Prob: 0.3}}, align.WithBinary())
	require.NoError(t, err)
	v, _ := a.Value(1, 1)
	assert.Equal(t, 1.0, v)
}

// TestNew_Errors covers index and probability validation.
func TestNew_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		m, n  int
		links []align.Link
		want  error
	}{
		{"source out of range", 1, 1, []align.Link{{Source: 1, Target: 0, Prob: 1}}, matrix.ErrOutOfRange},
		{"target negative", 1, 1, []align.Link{{Source: 0, Target: -1, Prob: 1}}, matrix.ErrOutOfRange},
		{"prob above one", 1, 1, []align.Link{{Source: 0, Target: 0, Prob: 1.5}}, align.ErrInvalidProbability},
		{"negative size", -1, 1, nil, matrix.ErrInvalidDimensions},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := align.New(tc.m, tc.n, tc.links)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestIdentity pairs every index with itself.
func TestIdentity(t *testing.T) {
	t.Parallel()
	a, err := align.Identity(3)
	require.NoError(t, err)
	for i := 0; i <= 3; i++ {
		assert.Equal(t, []align.Entry{{Target: i, Prob: 1}}, a.FanOut(i))
	}
}

// TestFromMasked validates range and forces the root pair.
func TestFromMasked(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewMasked(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(1, 1, 0.5))
	a, err := align.FromMasked(m)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Count())

	require.NoError(t, m.Set(1, 0, 2))
	_, err = align.FromMasked(m)
	assert.ErrorIs(t, err, align.ErrInvalidProbability)
}

// TestParseLinks covers format, reverse and malformed input.
func TestParseLinks(t *testing.T) {
	t.Parallel()
	links, err := align.ParseLinks("0-1 0.5 2-0 1")
	require.NoError(t, err)
	assert.Equal(t, []align.Link{{Source: 0, Target: 1, Prob: 0.5}, {Source: 2, Target: 0, Prob: 1}}, links)
	assert.Equal(t, "0-1 0.5 2-0 1", align.FormatLinks(links))

	rev, err := align.ParseLinks("0-1 0.5", align.WithReverse())
	require.NoError(t, err)
	assert.Equal(t, []align.Link{{Source: 1, Target: 0, Prob: 0.5}}, rev)

	for _, bad := range []string{"0-1", "01 0.5", "a-1 0.5", "0-1 x"} {
		_, err = align.ParseLinks(bad)
		assert.ErrorIs(t, err, align.ErrMalformed, bad)
	}
	_, err = align.ParseLinks("0-1 2")
	assert.ErrorIs(t, err, align.ErrInvalidProbability)

	empty, err := align.ParseLinks("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestReadWordAlignments keeps blank lines and averages probabilities.
func TestReadWordAlignments(t *testing.T) {
	t.Parallel()
	wa, err := align.ReadWordAlignments(strings.NewReader("0-0 0.5 1-1 1\n\n0-0 0.6\n"))
	require.NoError(t, err)
	require.Len(t, wa.Sentences, 3)
	assert.Nil(t, wa.Sentences[1])
	assert.InDelta(t, 0.7, wa.Similarity, 1e-12)

	_, err = align.ReadWordAlignments(strings.NewReader("0-0\n"))
	assert.ErrorIs(t, err, align.ErrMalformed)
	assert.Contains(t, err.Error(), "line 1")
}

// TestReadSentenceAlignments indexes by target id.
func TestReadSentenceAlignments(t *testing.T) {
	t.Parallel()
	sa, err := align.ReadSentenceAlignments(strings.NewReader("0 1 0.9\nbogus\n3 0 0.2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[int]align.SentencePair{
		1: {Source: 0, Confidence: 0.9},
		0: {Source: 3, Confidence: 0.2},
	}, sa)

	_, err = align.ReadSentenceAlignments(strings.NewReader("a b c\n"))
	assert.ErrorIs(t, err, align.ErrMalformed)
}

// TestProjectLabels checks weighted and unit votes.
func TestProjectLabels(t *testing.T) {
	t.Parallel()
	voc := vocab.New()
	links := []align.Link{
		{Source: 0, Target: 0, Prob: 0.9},
		{Source: 1, Target: 0, Prob: 0.4},
		{Source: 2, Target: 0, Prob: 0.4},
		{Source: 1, Target: 1, Prob: 1},
	}
	votes, err := align.ProjectLabels([]string{"NOUN", "VERB", "VERB"}, links, voc, true)
	require.NoError(t, err)
	id, mass, ok := votes[1].Best()
	require.True(t, ok)
	assert.Equal(t, voc.ID("NOUN"), id)
	assert.InDelta(t, 0.9, mass, 1e-12)

	unit, err := align.ProjectLabels([]string{"NOUN", "VERB", "VERB"}, links, voc, false)
	require.NoError(t, err)
	id, mass, _ = unit[1].Best()
	assert.Equal(t, voc.ID("VERB"), id)
	assert.Equal(t, 2.0, mass)
	assert.Equal(t, []int{voc.ID("VERB"), voc.ID("NOUN")}, unit[1].Ranked())

	_, _, ok = align.Votes{}.Best()
	assert.False(t, ok)

	_, err = align.ProjectLabels([]string{"X"}, []align.Link{{Source: 3, Target: 0, Prob: 1}}, voc, true)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}
