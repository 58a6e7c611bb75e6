// Package conll reads and writes CoNLL-2006 dependency files.
//
// A sentence is a block of token lines separated by a blank line. Each token
// line carries tab- or space-separated columns:
//
//	ID FORM LEMMA CPOSTAG POSTAG FEATS HEAD DEPREL [PHEAD PDEPREL]
//
// Three reading modes exist. Plain keeps tokens only. Graph additionally
// reads columns 9 onward as "head:confidence" pairs, which is how projected
// weight matrices travel between commands. Tree turns the HEAD column into a
// one-hot graph.
package conll

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/treeproj/arborescence"
)

// Column layout.
const (
	MinFields   = 8
	NumFields   = 10
	Placeholder = "_"

	featuresSeparator  = "|"
	featureSeparator   = "="
	featureConcatDelim = ","
)

// ErrMalformed indicates a line that cannot be parsed as a token.
var ErrMalformed = errors.New("conll: malformed line")

// Token is one CoNLL row. Head is arborescence.NoHead when the HEAD column
// holds a placeholder.
type Token struct {
	ID     int
	Form   string
	Lemma  string
	CPOS   string
	FPOS   string
	Feats  string
	Head   int
	DepRel string
}

// ParseToken reads the first eight fields of a row.
func ParseToken(fields []string) (Token, error) {
	var t Token
	if len(fields) < MinFields {
		return t, fmt.Errorf("%d fields, want at least %d: %w", len(fields), MinFields, ErrMalformed)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 1 {
		return t, fmt.Errorf("ID %q: %w", fields[0], ErrMalformed)
	}
	t = Token{
		ID:     id,
		Form:   fields[1],
		Lemma:  fields[2],
		CPOS:   fields[3],
		FPOS:   fields[4],
		Feats:  fields[5],
		Head:   arborescence.NoHead,
		DepRel: fields[7],
	}
	if fields[6] != Placeholder {
		if t.Head, err = strconv.Atoi(fields[6]); err != nil || t.Head < 0 {
			return t, fmt.Errorf("HEAD %q: %w", fields[6], ErrMalformed)
		}
	}

	return t, nil
}

// String formats the token as a ten-column CoNLL-2006 row.
func (t Token) String() string {
	return strings.Join(append(t.columns(), Placeholder, Placeholder), "\t")
}

// columns returns the first eight fields.
func (t Token) columns() []string {
	return []string{
		strconv.Itoa(t.ID), orPlaceholder(t.Form), orPlaceholder(t.Lemma),
		orPlaceholder(t.CPOS), orPlaceholder(t.FPOS), orPlaceholder(t.Feats),
		formatHead(t.Head), orPlaceholder(t.DepRel),
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}

	return s
}

func formatHead(h int) string {
	if h < 0 {
		return Placeholder
	}

	return strconv.Itoa(h)
}

// Features is the parsed FEATS column. Repeated names are joined with ",".
type Features map[string]string

// ParseFeatures splits "a=b|c=d". The placeholder yields a nil map.
func ParseFeatures(s string) (Features, error) {
	if s == Placeholder || s == "" {
		return nil, nil
	}
	parts := strings.Split(s, featuresSeparator)
	f := make(Features, len(parts))
	for _, p := range parts {
		kv := strings.Split(p, featureSeparator)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("feature %q: %w", p, ErrMalformed)
		}
		if old, ok := f[kv[0]]; ok {
			f[kv[0]] = old + featureConcatDelim + kv[1]
		} else {
			f[kv[0]] = kv[1]
		}
	}

	return f, nil
}

// String renders the features sorted by name, or the placeholder.
func (f Features) String() string {
	if len(f) == 0 {
		return Placeholder
	}
	strs := make([]string, 0, len(f))
	for k, v := range f {
		strs = append(strs, k+featureSeparator+v)
	}
	sort.Strings(strs)

	return strings.Join(strs, featuresSeparator)
}
