package normalize

import (
	"fmt"

	"github.com/katalvlaran/treeproj/matrix"
)

type standardize struct{}

// Standardize returns the global z-score policy: every present cell becomes
// (x − mean)/std with mean and population std taken over all present cells.
// No present cells, or std ≤ eps (the matrix's numeric tolerance), is
// ErrDegenerateInput; the policy never emits NaN.
func Standardize() Policy { return standardize{} }

func (standardize) Name() string { return NameStandardize }

// Normalize implements Policy.
// Complexity: O(r*c).
func (standardize) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}
	mean, ok := matrix.MaskedMean(m)
	if !ok {
		return nil, fmt.Errorf("standardize: no present cells: %w", ErrDegenerateInput)
	}
	std, _ := matrix.MaskedStd(m)
	if std <= m.Options().Epsilon() {
		return nil, fmt.Errorf("standardize: std=%g: %w", std, ErrDegenerateInput)
	}

	return m.Map(func(_, _ int, v float64) (float64, bool) { return (v - mean) / std, true })
}

// rowStdevGuard keeps the row-stdev denominator away from zero.
const rowStdevGuard = 1e-7

type rowStdev struct{}

// RowStdev returns the row-wise stdev policy:
//
//	x' = clip01(0.5 + x − mean/(2·std + 1e-7))
//
// with mean and population std taken over the present cells of the row.
// The guard term keeps single-candidate rows finite.
func RowStdev() Policy { return rowStdev{} }

func (rowStdev) Name() string { return NameStdev }

// Normalize implements Policy.
// Complexity: O(r*c).
func (rowStdev) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}
	rows := m.Rows()
	shift := make([]float64, rows)
	for i := 0; i < rows; i++ {
		mean, std, _ := matrix.RowMeanStd(m, i)
		shift[i] = mean / (2*std + rowStdevGuard)
	}

	return m.Map(func(i, _ int, v float64) (float64, bool) { return clip01(0.5 + v - shift[i]), true })
}

func clip01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}

	return x
}
