// Package eval scores system dependency output against a gold standard.
package eval

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treeproj/conll"
)

// ErrLengthMismatch indicates gold and system disagree on sentence or token counts.
var ErrLengthMismatch = errors.New("eval: gold and system lengths differ")

// Scores holds percentages in [0, 100].
type Scores struct {
	POS float64 // coarse tag accuracy
	LAS float64 // head and relation correct
	UAS float64 // head correct
	LA  float64 // relation correct
}

// String formats the scores the way the eval command prints them.
func (s Scores) String() string {
	return fmt.Sprintf("POS %.2f LAS %.2f UAS %.2f LA %.2f", s.POS, s.LAS, s.UAS, s.LA)
}

// Scorer accumulates token-level counts. The zero value is ready to use.
type Scorer struct {
	tokens  int
	pos     int
	heads   int
	rels    int
	labeled int
}

// Update counts one token pair.
func (s *Scorer) Update(gold, system conll.Token) {
	s.tokens++
	if system.CPOS == gold.CPOS {
		s.pos++
	}
	head := system.Head == gold.Head
	rel := system.DepRel == gold.DepRel
	if head {
		s.heads++
	}
	if rel {
		s.rels++
	}
	if head && rel {
		s.labeled++
	}
}

// Tokens returns the number of tokens counted.
func (s *Scorer) Tokens() int { return s.tokens }

// Reset clears all counts.
func (s *Scorer) Reset() { *s = Scorer{} }

// Scores returns the percentages; ok is false when no token was counted.
func (s *Scorer) Scores() (Scores, bool) {
	if s.tokens == 0 {
		return Scores{}, false
	}
	pct := func(c int) float64 { return 100 * float64(c) / float64(s.tokens) }

	return Scores{POS: pct(s.pos), LAS: pct(s.labeled), UAS: pct(s.heads), LA: pct(s.rels)}, true
}

// ScoreSentences scores parallel sentence lists token by token.
func ScoreSentences(gold, system []*conll.Sentence) (Scores, bool, error) {
	if len(gold) != len(system) {
		return Scores{}, false, fmt.Errorf("%d vs %d sentences: %w", len(gold), len(system), ErrLengthMismatch)
	}
	var sc Scorer
	for i := range gold {
		if gold[i].Len() != system[i].Len() {
			return Scores{}, false, fmt.Errorf("sentence %d: %d vs %d tokens: %w", i, gold[i].Len(), system[i].Len(), ErrLengthMismatch)
		}
		for j, g := range gold[i].Tokens {
			sc.Update(g, system[i].Tokens[j])
		}
	}
	s, ok := sc.Scores()

	return s, ok, nil
}
