package normalize

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/treeproj/matrix"
)

type threshold struct {
	cutoff float64
	binary bool
}

// Threshold returns the cutoff policy: present values below cutoff become a
// present 0; with binary, the surviving values become 1.
func Threshold(cutoff float64, binary bool) Policy { return threshold{cutoff: cutoff, binary: binary} }

func (threshold) Name() string { return NameThreshold }

// Normalize implements Policy.
func (t threshold) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}

	return m.Map(func(_, _ int, v float64) (float64, bool) {
		switch {
		case v < t.cutoff:
			return 0, true
		case t.binary:
			return 1, true
		}
		return v, true
	})
}

type identity struct{}

// Identity returns the no-op policy (a clone). Use it for one-hot tree
// inputs that must not be rescaled.
func Identity() Policy { return identity{} }

func (identity) Name() string { return NameIdentity }

// Normalize implements Policy.
func (identity) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}

	return m.Clone(), nil
}

type fallback struct {
	primary, alt Policy
}

// WithFallback returns a policy that runs primary and, only when it fails
// with ErrDegenerateInput, runs alt instead. Other errors pass through.
// Degeneracy is never recovered unless the caller builds this wrapper.
func WithFallback(primary, alt Policy) Policy {
	if alt == nil {
		alt = Identity()
	}

	return fallback{primary: primary, alt: alt}
}

func (f fallback) Name() string { return fmt.Sprintf("%s|%s", f.primary.Name(), f.alt.Name()) }

// Normalize implements Policy.
func (f fallback) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	out, err := f.primary.Normalize(m)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, ErrDegenerateInput) {
		return nil, err
	}

	return f.alt.Normalize(m)
}
