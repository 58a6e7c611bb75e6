package conll

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/treeproj/digraph"
)

// Writer emits sentences in CoNLL-2006 layout. Call Flush when done.
type Writer struct {
	w *bufio.Writer
}

// NewWriter buffers output to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: bufio.NewWriter(w)} }

// WriteSentence writes tokens followed by a blank line.
//
// heads, when non-nil, is root-inclusive (len(tokens)+1) and overrides the
// HEAD column; negative entries print as "_". A nil heads writes "_" for
// every token, which is how sentences without a tree are emitted. pos, when
// non-nil, overrides CPOSTAG and POSTAG.
func (w *Writer) WriteSentence(tokens []Token, heads []int, pos []string) error {
	return w.write(tokens, heads, pos, nil)
}

// WriteGraph is WriteSentence plus the incoming arcs of every token as
// "head:confidence" pairs from column 9 onward, readable in Graph mode.
func (w *Writer) WriteGraph(tokens []Token, heads []int, pos []string, g *digraph.Graph) error {
	if g == nil {
		return digraph.ErrNilGraph
	}
	if g.Tokens() != len(tokens) {
		return fmt.Errorf("conll: graph over %d tokens for %d-token sentence: %w", g.Tokens(), len(tokens), ErrMalformed)
	}

	return w.write(tokens, heads, pos, g)
}

func (w *Writer) write(tokens []Token, heads []int, pos []string, g *digraph.Graph) error {
	if heads != nil && len(heads) != len(tokens)+1 {
		return fmt.Errorf("conll: %d heads for %d tokens: %w", len(heads), len(tokens), ErrMalformed)
	}
	if pos != nil && len(pos) != len(tokens) {
		return fmt.Errorf("conll: %d tags for %d tokens: %w", len(pos), len(tokens), ErrMalformed)
	}

	var sb strings.Builder
	for i, t := range tokens {
		t.ID = i + 1
		t.Head = -1
		if heads != nil {
			t.Head = heads[i+1]
		}
		if pos != nil {
			t.CPOS, t.FPOS = pos[i], pos[i]
		}
		sb.Reset()
		if g == nil {
			sb.WriteString(t.String())
		} else {
			// PHEAD and PDEPREL are dropped so columns 9+ hold only pairs
			sb.WriteString(strings.Join(t.columns(), "\t"))
			for _, a := range g.Incoming(t.ID) {
				sb.WriteByte('\t')
				sb.WriteString(strconv.Itoa(a.Head))
				sb.WriteByte(':')
				sb.WriteString(strconv.FormatFloat(a.Weight, 'g', -1, 64))
			}
		}
		sb.WriteByte('\n')
		if _, err := w.w.WriteString(sb.String()); err != nil {
			return err
		}
	}

	return w.w.WriteByte('\n')
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }
