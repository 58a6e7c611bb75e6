// SPDX-License-Identifier: MIT

package align

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseOption configures ParseLinks and ReadWordAlignments.
type ParseOption func(*parseOptions)

type parseOptions struct {
	reverse bool
}

// WithReverse swaps every "s-t" pair to "t-s", for alignments produced in
// the opposite direction.
func WithReverse() ParseOption { return func(o *parseOptions) { o.reverse = true } }

// ParseLinks parses one fast_align line with posteriors:
//
//	0-0 0.93 1-2 0.41 2-1 0.88
//
// Pairs and probabilities alternate. An empty line yields no links.
// Errors: ErrMalformed (odd token count, bad pair, bad number),
// ErrInvalidProbability.
func ParseLinks(line string, opts ...ParseOption) ([]Link, error) {
	var o parseOptions
	for _, fn := range opts {
		fn(&o)
	}
	fields := strings.Fields(line)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("ParseLinks: %d fields: %w", len(fields), ErrMalformed)
	}
	links := make([]Link, 0, len(fields)/2)
	for k := 0; k < len(fields); k += 2 {
		src, trg, ok := strings.Cut(fields[k], "-")
		if !ok {
			return nil, fmt.Errorf("ParseLinks: pair %q: %w", fields[k], ErrMalformed)
		}
		s, err := strconv.Atoi(src)
		if err != nil {
			return nil, fmt.Errorf("ParseLinks: pair %q: %w", fields[k], ErrMalformed)
		}
		t, err := strconv.Atoi(trg)
		if err != nil {
			return nil, fmt.Errorf("ParseLinks: pair %q: %w", fields[k], ErrMalformed)
		}
		p, err := strconv.ParseFloat(fields[k+1], 64)
		if err != nil {
			return nil, fmt.Errorf("ParseLinks: prob %q: %w", fields[k+1], ErrMalformed)
		}
		if !(p >= 0 && p <= 1) {
			return nil, fmt.Errorf("ParseLinks: prob %g: %w", p, ErrInvalidProbability)
		}
		if o.reverse {
			s, t = t, s
		}
		links = append(links, Link{Source: s, Target: t, Prob: p})
	}

	return links, nil
}

// FormatLinks renders links back into the fast_align posterior format.
func FormatLinks(links []Link) string {
	var b strings.Builder
	for k, l := range links {
		if k > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d-%d %g", l.Source, l.Target, l.Prob)
	}

	return b.String()
}

// WordAlignments holds one link list per input line (nil for blank lines)
// and the corpus-wide mean link probability, used as a language-similarity
// proxy.
type WordAlignments struct {
	Sentences  [][]Link
	Similarity float64
}

// ReadWordAlignments reads a fast_align posterior file.
// Similarity is 0 when the file holds no links.
// Errors: ErrMalformed wrapped with the line number, I/O errors.
func ReadWordAlignments(r io.Reader, opts ...ParseOption) (*WordAlignments, error) {
	out := &WordAlignments{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var sum float64
	var cnt, lineNo int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			out.Sentences = append(out.Sentences, nil)
			continue
		}
		links, err := ParseLinks(line, opts...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, l := range links {
			sum += l.Prob
		}
		cnt += len(links)
		out.Sentences = append(out.Sentences, links)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if cnt > 0 {
		out.Similarity = sum / float64(cnt)
	}

	return out, nil
}

// SentencePair is the source side of a 1:1 sentence alignment.
type SentencePair struct {
	Source     int
	Confidence float64
}

// ReadSentenceAlignments reads hunalign-style "src trg conf" lines into a
// map keyed by target sentence id. Lines without exactly three fields are
// skipped; later lines overwrite earlier ones for the same target.
func ReadSentenceAlignments(r io.Reader) (map[int]SentencePair, error) {
	out := make(map[int]SentencePair)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		f := strings.Fields(sc.Text())
		if len(f) != 3 {
			continue
		}
		src, err1 := strconv.Atoi(f[0])
		trg, err2 := strconv.Atoi(f[1])
		conf, err3 := strconv.ParseFloat(f[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("line %d: %q: %w", lineNo, sc.Text(), ErrMalformed)
		}
		out[trg] = SentencePair{Source: src, Confidence: conf}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
