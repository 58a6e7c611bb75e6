// Package normalize defines pluggable rescaling policies for confidence matrices.
//
// A Policy is a pure function from a masked matrix to a new masked matrix.
// Policies never mutate their input and never turn an absent cell into a
// present one. Row-wise policies operate on storage rows; graphs are
// normalized through their dependent-major view (see Graph), so a row is the
// candidate-head distribution of one dependent.
//
// Recognized names (ByName):
//
//	softmax      row-wise exp(x/T)/Σexp(x/T) over present cells
//	rank         row-wise rank order, rescaled to sum to 1
//	intrank      row-wise integer ranks 1..p
//	standardize  global z-score over present cells
//	stdev        row-wise clip01(0.5 + x − mean/(2·std + 1e-7))
//	threshold    values below a cutoff become 0 (optionally survivors become 1)
//	identity     clone
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/matrix"
)

// Sentinel errors.
var (
	// ErrDegenerateInput indicates the input carries no usable spread
	// (no present cells, or zero standard deviation) for the policy.
	ErrDegenerateInput = errors.New("normalize: degenerate input")

	// ErrUnknownPolicy indicates ByName got a name it does not recognize.
	ErrUnknownPolicy = errors.New("normalize: unknown policy")

	// ErrInvalidParameter indicates a tunable outside its domain.
	ErrInvalidParameter = errors.New("normalize: invalid parameter")
)

// Policy names.
const (
	NameSoftmax     = "softmax"
	NameRank        = "rank"
	NameIntRank     = "intrank"
	NameStandardize = "standardize"
	NameStdev       = "stdev"
	NameThreshold   = "threshold"
	NameIdentity    = "identity"
)

// Policy rescales a confidence matrix.
type Policy interface {
	// Name identifies the policy in logs and configuration.
	Name() string

	// Normalize returns a new matrix; m is left untouched.
	Normalize(m *matrix.Masked) (*matrix.Masked, error)
}

// Params carries the tunables ByName needs.
type Params struct {
	Temperature float64 // softmax; 0 means 1
	Cutoff      float64 // threshold
	Binary      bool    // threshold
}

// ByName resolves a configuration string to a Policy. "primary|alt" builds
// WithFallback(primary, alt).
// Errors: ErrUnknownPolicy, ErrInvalidParameter.
func ByName(name string, p Params) (Policy, error) {
	if primary, alt, ok := strings.Cut(name, "|"); ok {
		first, err := ByName(primary, p)
		if err != nil {
			return nil, err
		}
		second, err := ByName(alt, p)
		if err != nil {
			return nil, err
		}
		return WithFallback(first, second), nil
	}

	switch name {
	case NameSoftmax:
		t := p.Temperature
		if t == 0 {
			t = 1
		}
		if !(t > 0) || math.IsInf(t, 1) {
			return nil, fmt.Errorf("ByName(%q): temperature %g: %w", name, t, ErrInvalidParameter)
		}
		return Softmax(t), nil
	case NameRank:
		return Rank(false), nil
	case NameIntRank:
		return Rank(true), nil
	case NameStandardize:
		return Standardize(), nil
	case NameStdev:
		return RowStdev(), nil
	case NameThreshold:
		return Threshold(p.Cutoff, p.Binary), nil
	case NameIdentity, "":
		return Identity(), nil
	}

	return nil, fmt.Errorf("ByName(%q): %w", name, ErrUnknownPolicy)
}

// Names lists every name ByName accepts.
func Names() []string {
	return []string{NameSoftmax, NameRank, NameIntRank, NameStandardize, NameStdev, NameThreshold, NameIdentity}
}

// Graph applies p to the dependent-major view of g and returns a
// dependent-major graph. A nil policy is the identity.
func Graph(p Policy, g *digraph.Graph) (*digraph.Graph, error) {
	if g == nil {
		return nil, digraph.ErrNilGraph
	}
	can := g.Canonical()
	if p == nil {
		return can, nil
	}
	out, err := p.Normalize(can.Matrix())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	return digraph.FromMatrix(out, digraph.DependentMajor)
}
