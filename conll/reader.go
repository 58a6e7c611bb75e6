package conll

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
)

// Mode selects what a Reader builds besides the tokens.
type Mode int

const (
	// Plain reads tokens only.
	Plain Mode = iota
	// Graph reads "head:confidence" pairs from columns 9 onward.
	Graph
	// Tree builds a one-hot graph from the HEAD column.
	Tree
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Graph:
		return "graph"
	case Tree:
		return "tree"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Sentence is one block of tokens. Graph is nil in Plain mode.
type Sentence struct {
	Tokens []Token
	Graph  *digraph.Graph
}

// Len returns the number of tokens.
func (s *Sentence) Len() int { return len(s.Tokens) }

// POS returns the CPOSTAG column.
func (s *Sentence) POS() []string {
	out := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		out[i] = t.CPOS
	}

	return out
}

// Heads returns the HEAD column as a root-inclusive array: out[0] is
// arborescence.NoHead and out[i] is the head of token i.
func (s *Sentence) Heads() []int {
	out := make([]int, len(s.Tokens)+1)
	out[0] = arborescence.NoHead
	for i, t := range s.Tokens {
		out[i+1] = t.Head
	}

	return out
}

type pair struct {
	dep, head int
	conf      float64
}

// Reader yields sentences one at a time.
type Reader struct {
	sc   *bufio.Scanner
	mode Mode
	line int
}

// NewReader wraps r. Lines may be long in Graph mode, so the scanner buffer
// grows up to 16 MiB.
func NewReader(r io.Reader, mode Mode) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	return &Reader{sc: sc, mode: mode}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Next returns the next sentence, or io.EOF once input is exhausted.
// Runs of blank lines and lines starting with '#' are skipped.
// Errors carry the 1-based line number and wrap ErrMalformed.
func (r *Reader) Next() (*Sentence, error) {
	var (
		s     Sentence
		pairs []pair
	)
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" {
			if len(s.Tokens) == 0 {
				continue
			}
			return r.finish(&s, pairs)
		}
		if strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		tok, err := ParseToken(fields)
		if err != nil {
			return nil, fmt.Errorf("conll: line %d: %w", r.line, err)
		}
		if tok.ID != len(s.Tokens)+1 {
			return nil, fmt.Errorf("conll: line %d: ID %d out of sequence: %w", r.line, tok.ID, ErrMalformed)
		}
		switch r.mode {
		case Plain:
			if len(fields) != MinFields && len(fields) != NumFields {
				return nil, fmt.Errorf("conll: line %d: %d fields: %w", r.line, len(fields), ErrMalformed)
			}
		case Graph:
			for _, f := range fields[MinFields:] {
				if f == Placeholder {
					continue
				}
				p, err := parsePair(f)
				if err != nil {
					return nil, fmt.Errorf("conll: line %d: %w", r.line, err)
				}
				p.dep = tok.ID
				pairs = append(pairs, p)
			}
		}
		s.Tokens = append(s.Tokens, tok)
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	if len(s.Tokens) == 0 {
		return nil, io.EOF
	}

	return r.finish(&s, pairs)
}

func (r *Reader) finish(s *Sentence, pairs []pair) (*Sentence, error) {
	var err error
	switch r.mode {
	case Graph:
		n := len(s.Tokens)
		if s.Graph, err = digraph.New(n); err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if p.head > n {
				return nil, fmt.Errorf("conll: sentence ending line %d: head %d of token %d: %w", r.line, p.head, p.dep, ErrMalformed)
			}
			if err = s.Graph.SetWeight(p.dep, p.head, p.conf); err != nil {
				return nil, fmt.Errorf("conll: sentence ending line %d: %w", r.line, err)
			}
		}
	case Tree:
		if s.Graph, err = digraph.FromHeads(s.Heads()); err != nil {
			return nil, fmt.Errorf("conll: sentence ending line %d: %w: %w", r.line, ErrMalformed, err)
		}
	}

	return s, nil
}

func parsePair(f string) (pair, error) {
	h, c, ok := strings.Cut(f, ":")
	if !ok {
		return pair{}, fmt.Errorf("pair %q: %w", f, ErrMalformed)
	}
	head, err := strconv.Atoi(h)
	if err != nil || head < 0 {
		return pair{}, fmt.Errorf("pair %q: %w", f, ErrMalformed)
	}
	conf, err := strconv.ParseFloat(c, 64)
	if err != nil {
		return pair{}, fmt.Errorf("pair %q: %w", f, ErrMalformed)
	}

	return pair{head: head, conf: conf}, nil
}

// ReadAll reads every sentence of r.
func ReadAll(r io.Reader, mode Mode) ([]*Sentence, error) {
	rd := NewReader(r, mode)
	var out []*Sentence
	for {
		s, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}
