// SPDX-License-Identifier: MIT

package matrix

import "math"

// AllCloseMasked reports whether a and b have the same shape, the same
// presence mask, and present values with |a-b| ≤ atol + rtol*|b|.
// A mask disagreement is never "close": an absent cell and a present zero
// are different answers.
// Errors: ErrNilMatrix, ErrShapeMismatch.
// Complexity: O(r*c).
func AllCloseMasked(a, b *Masked, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, err
	}
	for k := range a.mask {
		if a.mask[k] != b.mask[k] {
			return false, nil
		}
		if !a.mask[k] {
			continue
		}
		if math.Abs(a.vals.data[k]-b.vals.data[k]) > atol+rtol*math.Abs(b.vals.data[k]) {
			return false, nil
		}
	}

	return true, nil
}

// EqualMasked is AllCloseMasked with zero tolerances.
func EqualMasked(a, b *Masked) (bool, error) { return AllCloseMasked(a, b, 0, 0) }
