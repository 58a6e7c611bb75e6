// SPDX-License-Identifier: MIT

// Package matrix - statistics over present cells.
//
// Absent cells never contribute to a sum, a count or a deviation. A matrix
// (or row) without present cells has no mean; callers get ok=false instead
// of a NaN they would have to detect later.

package matrix

import "math"

// MaskedMean returns the arithmetic mean of all present cells.
// ok=false when no cell is present.
// Complexity: O(r*c).
func MaskedMean(m *Masked) (mean float64, ok bool) {
	if m == nil || m.n == 0 {
		return 0, false
	}
	var sum float64
	for k, p := range m.mask {
		if p {
			sum += m.vals.data[k]
		}
	}

	return sum / float64(m.n), true
}

// MaskedStd returns the population standard deviation of all present cells
// (two-pass, numerically stable for the sizes we handle).
// ok=false when no cell is present.
// Complexity: O(r*c).
func MaskedStd(m *Masked) (std float64, ok bool) {
	mean, ok := MaskedMean(m)
	if !ok {
		return 0, false
	}
	var ss, d float64
	for k, p := range m.mask {
		if p {
			d = m.vals.data[k] - mean
			ss += d * d
		}
	}

	return math.Sqrt(ss / float64(m.n)), true
}

// RowMeanStd returns the mean and population std of the present cells of
// row i, and their count. cnt == 0 means the row carries no evidence.
// Caller guarantees 0 ≤ i < Rows().
// Complexity: O(c).
func RowMeanStd(m *Masked, i int) (mean, std float64, cnt int) {
	base := i * m.vals.c
	var j int
	var sum float64
	for j = 0; j < m.vals.c; j++ {
		if m.mask[base+j] {
			sum += m.vals.data[base+j]
			cnt++
		}
	}
	if cnt == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(cnt)
	var ss, d float64
	for j = 0; j < m.vals.c; j++ {
		if m.mask[base+j] {
			d = m.vals.data[base+j] - mean
			ss += d * d
		}
	}

	return mean, math.Sqrt(ss / float64(cnt)), cnt
}

// RowMax returns the largest present value of row i and its column.
// col == -1 when the row has no present cells. Ties keep the lowest column.
// Complexity: O(c).
func RowMax(m *Masked, i int) (maxVal float64, col int) {
	col = -1
	base := i * m.vals.c
	for j := 0; j < m.vals.c; j++ {
		if !m.mask[base+j] {
			continue
		}
		if col < 0 || m.vals.data[base+j] > maxVal {
			maxVal, col = m.vals.data[base+j], j
		}
	}

	return maxVal, col
}
