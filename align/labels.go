package align

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/treeproj/matrix"
	"github.com/katalvlaran/treeproj/vocab"
)

// Votes maps a label id to the vote mass it collected for one target token.
type Votes map[int]float64

// Best returns the label id with the largest mass; ties go to the lower id.
// ok=false when there are no votes.
func (v Votes) Best() (id int, mass float64, ok bool) {
	for k, m := range v {
		if !ok || m > mass || (m == mass && k < id) {
			id, mass, ok = k, m, true
		}
	}

	return id, mass, ok
}

// Ranked returns label ids ordered by descending mass, ties by ascending id.
func (v Votes) Ranked() []int {
	ids := make([]int, 0, len(v))
	for k := range v {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(a, b int) bool {
		if v[ids[a]] != v[ids[b]] {
			return v[ids[a]] > v[ids[b]]
		}
		return ids[a] < ids[b]
	})

	return ids
}

// ProjectLabels projects source token labels (0-indexed, one per source
// token) onto target tokens. The result is keyed by internal target index
// (external index + 1, the CoNLL token id). With weighted, each link votes
// with its probability; otherwise with 1.
// Label ids come from voc, which the caller owns.
// Errors: matrix.ErrOutOfRange for a link whose source has no label.
func ProjectLabels(labels []string, links []Link, voc *vocab.Vocab, weighted bool) (map[int]Votes, error) {
	out := make(map[int]Votes)
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(labels) || l.Target < 0 {
			return nil, fmt.Errorf("ProjectLabels: link %d-%d: %w", l.Source, l.Target, matrix.ErrOutOfRange)
		}
		t := l.Target + 1
		if out[t] == nil {
			out[t] = make(Votes)
		}
		w := 1.0
		if weighted {
			w = l.Prob
		}
		out[t][voc.ID(labels[l.Source])] += w
	}

	return out, nil
}
