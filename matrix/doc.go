// Package matrix offers the numeric storage shared by graphs and alignments.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 buffer with safe accessors and a numeric
//     policy (NaN/Inf rejection) resolved from functional options.
//   - Masked: Dense plus a presence mask. A cell is either a present value
//     (possibly zero) or absent ("no evidence"). Absence is never encoded as
//     a float sentinel.
//   - Statistics and comparison over present cells (MaskedMean, MaskedStd,
//     AllCloseMasked).
//
// Absent cells:
//
//	   0    1    2
//	0 [·,   ·,   ·  ]
//	1 [0.9, ·,   0  ]   W[1,2] is a present zero, W[1,1] is absent
//	2 [·,   0.8, ·  ]
//
// Public accessors return sentinel errors (errors.Is) and never panic on
// user input. Value/Present are the unchecked kernel fast paths.
package matrix
