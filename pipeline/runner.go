// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/digraph"
)

// Item is one sentence of a batch. An Item without Align is decoded as is
// (Pipeline.Decode); Before and projection are skipped.
type Item struct {
	ID     int
	Source *digraph.Graph
	Align  *align.Matrix
}

// Outcome is the result for the Item at the same index.
// Exactly one of Result.Tree and Err describes the decode; Result may be
// non-nil with an error when projection succeeded and decoding did not.
type Outcome struct {
	ID     int
	Result *Result
	Err    error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers bounds the number of sentences processed at once.
// Values below 1 mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) RunnerOption { return func(r *Runner) { r.workers = n } }

// WithLogger sets the logger for batch summaries and per-sentence failures.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner applies a Pipeline to batches.
type Runner struct {
	p       Pipeline
	workers int
	log     *slog.Logger
}

// NewRunner returns a Runner for p. The default logger discards output.
func NewRunner(p Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		p:   p,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}

	return r
}

// Workers reports the worker bound.
func (r *Runner) Workers() int { return r.workers }

// RunBatch runs every item and returns one Outcome per item, in order.
// A failing sentence never stops the others. Once ctx is done, items not
// yet started get ctx.Err().
func (r *Runner) RunBatch(ctx context.Context, items []Item) []Outcome {
	runID := uuid.New().String()
	log := r.log.With("run_id", runID)
	start := time.Now()

	out := make([]Outcome, len(items))
	var failed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range items {
		i := i
		it := items[i]
		out[i].ID = it.ID
		if err := gctx.Err(); err != nil {
			out[i].Err = err
			atomic.AddInt32(&failed, 1)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i].Err = err
				atomic.AddInt32(&failed, 1)
				return nil
			}
			var (
				res *Result
				err error
			)
			if it.Align == nil {
				res, err = r.p.Decode(it.Source)
			} else {
				res, err = r.p.Run(it.Source, it.Align)
			}
			out[i].Result = res
			if err != nil {
				out[i].Err = err
				atomic.AddInt32(&failed, 1)
				log.Warn("sentence failed", "sentence", it.ID, "error", err)
				return nil
			}
			if n := len(res.Tree.Warnings); n > 0 {
				log.Debug("sentence decoded with warnings", "sentence", it.ID, "warnings", n)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	log.Info("batch finished",
		"sentences", len(items),
		"failed", atomic.LoadInt32(&failed),
		"workers", r.workers,
		"elapsed", time.Since(start))

	return out
}
