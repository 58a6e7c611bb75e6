package normalize

import (
	"sort"

	"github.com/katalvlaran/treeproj/matrix"
)

type rank struct{ integers bool }

// Rank returns the row-wise rank policy. Present cells of a row are stably
// sorted ascending; the k-th smallest (1-based) gets rank k. Equal values keep
// their column order, so ties get distinct consecutive ranks.
// With integers=false, ranks are divided by p(p+1)/2 (p = present cells in
// the row) so each row sums to 1.
func Rank(integers bool) Policy { return rank{integers: integers} }

func (r rank) Name() string {
	if r.integers {
		return NameIntRank
	}

	return NameRank
}

type rankCell struct {
	col int
	v   float64
}

// Normalize implements Policy.
// Complexity: O(r · c log c).
func (r rank) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}
	rows, cols := m.Shape()
	ranks := make([]float64, rows*cols)
	buf := make([]rankCell, 0, cols)
	var i, j, k int
	var v, denom float64
	var ok bool
	for i = 0; i < rows; i++ {
		buf = buf[:0]
		for j = 0; j < cols; j++ {
			if v, ok = m.Value(i, j); ok {
				buf = append(buf, rankCell{col: j, v: v})
			}
		}
		sort.SliceStable(buf, func(a, b int) bool { return buf[a].v < buf[b].v })
		denom = 1
		if !r.integers {
			p := float64(len(buf))
			denom = p * (p + 1) / 2
		}
		for k = range buf {
			ranks[i*cols+buf[k].col] = float64(k+1) / denom
		}
	}

	return m.Map(func(i, j int, _ float64) (float64, bool) { return ranks[i*cols+j], true })
}
