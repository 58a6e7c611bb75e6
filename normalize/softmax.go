package normalize

import (
	"fmt"
	"math"

	"github.com/katalvlaran/treeproj/matrix"
)

const panicTemperature = "normalize: Softmax: temperature must be finite and > 0"

type softmax struct{ temp float64 }

// Softmax returns the row-wise softmax policy with temperature T.
// Each row is shifted by its present maximum before exponentiation, so large
// scores cannot overflow. Rows without present cells stay empty.
// Panics when T is not finite and positive.
func Softmax(temperature float64) Policy {
	if !(temperature > 0) || math.IsInf(temperature, 1) {
		panic(panicTemperature)
	}

	return softmax{temp: temperature}
}

func (s softmax) Name() string { return NameSoftmax }

// Normalize implements Policy.
// Complexity: O(r*c).
func (s softmax) Normalize(m *matrix.Masked) (*matrix.Masked, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, err
	}
	rows := m.Rows()
	shift := make([]float64, rows)
	sums := make([]float64, rows)
	var i int
	for i = 0; i < rows; i++ {
		shift[i], _ = matrix.RowMax(m, i)
	}
	m.DoPresent(func(i, j int, v float64) bool {
		sums[i] += math.Exp((v - shift[i]) / s.temp)
		return true
	})

	out, err := m.Map(func(i, j int, v float64) (float64, bool) {
		return math.Exp((v-shift[i])/s.temp) / sums[i], true
	})
	if err != nil {
		return nil, fmt.Errorf("softmax: %w", err)
	}

	return out, nil
}
