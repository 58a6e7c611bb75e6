// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/treeproj/matrix"
	"github.com/stretchr/testify/require"
)

// TestDense_Basics covers construction, bounds, policy and Clone.
func TestDense_Basics(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDense(-1, 2)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	d, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	v, err := d.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	_, err = d.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, d.Set(0, 0, math.NaN()), matrix.ErrNaNInf)

	loose, err := matrix.NewDense(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.Inf(-1)))

	require.NoError(t, d.Set(0, 0, -1))

	cp := d.Clone()
	require.NoError(t, cp.Set(0, 0, 100))
	v, _ = d.At(0, 0)
	require.Equal(t, -1.0, v)

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, math.NaN(), 0, 0})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestOptions_Panics verifies invalid epsilon is a programmer error.
func TestOptions_Panics(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	o := matrix.ResolveOptions(matrix.WithEpsilon(1e-6), nil)
	require.Equal(t, 1e-6, o.Epsilon())
	require.True(t, o.ValidateNaNInf())
}
