// SPDX-License-Identifier: MIT
package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/katalvlaran/treeproj/pipeline"
	"github.com/katalvlaran/treeproj/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(t *testing.T) *digraph.Graph {
	t.Helper()
	g, err := digraph.FromArcs(2, []digraph.Arc{
		{Dep: 1, Head: 0, Weight: 0.9},
		{Dep: 2, Head: 1, Weight: 0.8},
		{Dep: 2, Head: 0, Weight: 0.1},
	})
	require.NoError(t, err)

	return g
}

// gapped aligns two source tokens onto three target tokens, leaving the
// last target token without evidence.
func gapped(t *testing.T) *align.Matrix {
	t.Helper()
	A, err := align.New(2, 3, []align.Link{{Source: 0, Target: 0, Prob: 1}, {Source: 1, Target: 1, Prob: 1}})
	require.NoError(t, err)

	return A
}

func TestRun_Identity(t *testing.T) {
	t.Parallel()
	A, err := align.Identity(2)
	require.NoError(t, err)

	res, err := pipeline.Pipeline{}.Run(source(t), A)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, res.Tree.Heads)
	assert.InDelta(t, 1.7, res.Tree.Weight, 1e-12)
	assert.Equal(t, 2, res.Target.Tokens())
}

func TestRun_PoliciesAndOptions(t *testing.T) {
	t.Parallel()
	A, err := align.Identity(2)
	require.NoError(t, err)

	p := pipeline.Pipeline{
		Before:  normalize.Softmax(1),
		After:   normalize.Rank(false),
		Project: []project.Option{project.WithStrategy(project.Dense)},
		Decoder: arborescence.New(arborescence.WithPathCompression()),
	}
	res, err := p.Run(source(t), A)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, res.Tree.Heads)
	require.NoError(t, arborescence.Validate(res.Tree.Heads))
}

func TestRun_StageErrors(t *testing.T) {
	t.Parallel()
	A, err := align.Identity(2)
	require.NoError(t, err)

	_, err = pipeline.Pipeline{}.Run(nil, A)
	assert.ErrorIs(t, err, digraph.ErrNilGraph)

	_, err = pipeline.Pipeline{}.Run(source(t), nil)
	assert.ErrorIs(t, err, pipeline.ErrNilAlignment)

	// a single present cell has no spread
	one, err := digraph.FromArcs(1, []digraph.Arc{{Dep: 1, Head: 0, Weight: 0.5}})
	require.NoError(t, err)
	A1, err := align.Identity(1)
	require.NoError(t, err)
	_, err = pipeline.Pipeline{Before: normalize.Standardize()}.Run(one, A1)
	require.ErrorIs(t, err, normalize.ErrDegenerateInput)
	var se *pipeline.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, pipeline.StageBefore, se.Stage)

	// alignment built for a different source length
	A3, err := align.Identity(3)
	require.NoError(t, err)
	_, err = pipeline.Pipeline{}.Run(source(t), A3)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, pipeline.StageProject, se.Stage)
}

// TestRun_UnalignedTokenIsInfeasible keeps the projected graph on decode failure.
func TestRun_UnalignedTokenIsInfeasible(t *testing.T) {
	t.Parallel()
	res, err := pipeline.Pipeline{}.Run(source(t), gapped(t))
	require.ErrorIs(t, err, arborescence.ErrInfeasibleGraph)
	var se *pipeline.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, pipeline.StageDecode, se.Stage)
	require.NotNil(t, res)
	assert.Nil(t, res.Tree)
	assert.Equal(t, 3, res.Target.Tokens())
}

func TestRunner_IsolatesFailures(t *testing.T) {
	t.Parallel()
	A, err := align.Identity(2)
	require.NoError(t, err)

	var items []pipeline.Item
	for i := 0; i < 20; i++ {
		it := pipeline.Item{ID: i, Source: source(t), Align: A}
		if i%4 == 3 {
			it.Align = gapped(t)
		}
		items = append(items, it)
	}

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := pipeline.NewRunner(pipeline.Pipeline{}, pipeline.WithWorkers(3), pipeline.WithLogger(log))
	assert.Equal(t, 3, r.Workers())

	out := r.RunBatch(context.Background(), items)
	require.Len(t, out, len(items))
	for i, o := range out {
		assert.Equal(t, i, o.ID)
		if i%4 == 3 {
			assert.ErrorIs(t, o.Err, arborescence.ErrInfeasibleGraph, "item %d", i)
			continue
		}
		require.NoError(t, o.Err, "item %d", i)
		assert.Equal(t, []int{-1, 0, 1}, o.Result.Tree.Heads)
	}

	logs := buf.String()
	assert.Contains(t, logs, `"run_id"`)
	assert.Contains(t, logs, "batch finished")
	assert.Contains(t, logs, `"failed":5`)
}

func TestRunner_CancelledContext(t *testing.T) {
	t.Parallel()
	A, err := align.Identity(2)
	require.NoError(t, err)
	items := []pipeline.Item{{ID: 7, Source: source(t), Align: A}, {ID: 8, Source: source(t), Align: A}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := pipeline.NewRunner(pipeline.Pipeline{}).RunBatch(ctx, items)
	require.Len(t, out, 2)
	for _, o := range out {
		assert.ErrorIs(t, o.Err, context.Canceled)
		assert.Nil(t, o.Result)
	}
	assert.Equal(t, 7, out[0].ID)
}

func TestNewRunner_DefaultWorkers(t *testing.T) {
	t.Parallel()
	r := pipeline.NewRunner(pipeline.Pipeline{}, pipeline.WithWorkers(0), pipeline.WithLogger(nil))
	assert.GreaterOrEqual(t, r.Workers(), 1)
	assert.Empty(t, r.RunBatch(context.Background(), nil))
}

func TestDecode_ScaleKeepsTree(t *testing.T) {
	t.Parallel()
	p := pipeline.Pipeline{Scale: 0.5}
	res, err := p.Decode(source(t))
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, res.Tree.Heads)
	assert.InDelta(t, 0.85, res.Tree.Weight, 1e-12)
	w, ok := res.Target.Value(2, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.05, w, 1e-12)

	_, err = p.Decode(nil)
	assert.ErrorIs(t, err, digraph.ErrNilGraph)
}

func TestRunner_DecodeOnlyItems(t *testing.T) {
	t.Parallel()
	items := []pipeline.Item{{ID: 1, Source: source(t)}}
	out := pipeline.NewRunner(pipeline.Pipeline{}, pipeline.WithWorkers(1)).RunBatch(context.Background(), items)
	require.NoError(t, out[0].Err)
	assert.Equal(t, []int{-1, 0, 1}, out[0].Result.Tree.Heads)
}
