// Package vote merges several projections of the same target sentence.
//
// Each source language contributes a weighted graph (or a one-hot tree) and
// a POS tag per token. Sum adds the graphs cell by cell, FillEmpty gives
// tokens that no source reached a flat set of candidate heads, and POS picks
// the majority tag. Decoding the summed graph is left to pipeline.Decode.
package vote

import (
	"errors"
	"fmt"
	"math"
	"unicode"

	"github.com/katalvlaran/treeproj/align"
	"github.com/katalvlaran/treeproj/conll"
	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/vocab"
)

// PunctTag is the tag Punct assigns to punctuation-only forms.
const PunctTag = "PUNCT"

var (
	// ErrNoSources indicates that no graph carried any present cell.
	ErrNoSources = errors.New("vote: no contributing source")

	// ErrLengthMismatch indicates graphs or tag lists of different sentence lengths.
	ErrLengthMismatch = errors.New("vote: sentence lengths differ")
)

// Sum adds the present arcs of every graph. A cell of the result is present
// when at least one graph has it. Nil graphs and graphs without arcs do not
// contribute; used reports how many did.
// Errors: ErrNoSources, ErrLengthMismatch.
// Complexity: O(k·n²) for k graphs of n tokens.
func Sum(graphs []*digraph.Graph) (sum *digraph.Graph, used int, err error) {
	n := -1
	for _, g := range graphs {
		if g == nil {
			continue
		}
		if n < 0 {
			n = g.Tokens()
		} else if g.Tokens() != n {
			return nil, 0, fmt.Errorf("vote.Sum: %d vs %d tokens: %w", g.Tokens(), n, ErrLengthMismatch)
		}
	}
	if n < 0 {
		return nil, 0, ErrNoSources
	}

	size := n + 1
	acc := make([]float64, size*size)
	seen := make([]bool, size*size)
	for _, g := range graphs {
		if g == nil {
			continue
		}
		arcs := g.Arcs()
		if len(arcs) == 0 {
			continue
		}
		used++
		for _, a := range arcs {
			k := a.Dep*size + a.Head
			acc[k] += a.Weight
			seen[k] = true
		}
	}
	if used == 0 {
		return nil, 0, ErrNoSources
	}

	if sum, err = digraph.New(n); err != nil {
		return nil, 0, err
	}
	for k, ok := range seen {
		if ok {
			if err = sum.SetWeight(k/size, k%size, acc[k]); err != nil {
				return nil, 0, err
			}
		}
	}

	return sum, used, nil
}

// FillEmpty returns a copy of g in which every dependent without a
// candidate head gets all heads, each at the smallest weight present in g.
// A graph with no arcs is returned unchanged.
func FillEmpty(g *digraph.Graph) (*digraph.Graph, error) {
	if g == nil {
		return nil, digraph.ErrNilGraph
	}
	out := g.Clone()
	lo := math.Inf(1)
	for _, a := range g.Arcs() {
		lo = math.Min(lo, a.Weight)
	}
	if math.IsInf(lo, 1) {
		return out, nil
	}
	for d := 1; d < g.Size(); d++ {
		if len(g.Incoming(d)) > 0 {
			continue
		}
		for h := 0; h < g.Size(); h++ {
			if h == d {
				continue
			}
			if err := out.SetWeight(d, h, lo); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// POS majority-votes one tag per token over the tag lists of every source.
// Placeholder tags do not vote; a token without votes keeps the placeholder.
// Ties go to the tag voc saw first. Nil lists are skipped.
// Errors: ErrLengthMismatch.
func POS(sources [][]string, voc *vocab.Vocab) ([]string, error) {
	n := -1
	for _, tags := range sources {
		if tags == nil {
			continue
		}
		if n < 0 {
			n = len(tags)
		} else if len(tags) != n {
			return nil, fmt.Errorf("vote.POS: %d vs %d tags: %w", len(tags), n, ErrLengthMismatch)
		}
	}
	if n < 0 {
		return nil, nil
	}

	votes := make([]align.Votes, n)
	for _, tags := range sources {
		for i, tag := range tags {
			if tag == conll.Placeholder || tag == "" {
				continue
			}
			if votes[i] == nil {
				votes[i] = make(align.Votes)
			}
			votes[i][voc.ID(tag)]++
		}
	}
	out := make([]string, n)
	for i, v := range votes {
		out[i] = conll.Placeholder
		if id, _, ok := v.Best(); ok {
			out[i], _ = voc.Label(id)
		}
	}

	return out, nil
}

// Punct reports whether form consists only of punctuation or symbols.
func Punct(form string) bool {
	if form == "" {
		return false
	}
	for _, r := range form {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}

	return true
}
