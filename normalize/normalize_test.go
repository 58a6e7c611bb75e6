package normalize_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/treeproj/digraph"
	"github.com/katalvlaran/treeproj/matrix"
	"github.com/katalvlaran/treeproj/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowOf builds a 1×len(vals) matrix where NaN marks an absent cell.
func rowOf(t *testing.T, vals ...float64) *matrix.Masked {
	t.Helper()
	m, err := matrix.FromNaN(1, len(vals), vals)
	require.NoError(t, err)

	return m
}

func value(t *testing.T, m *matrix.Masked, i, j int) float64 {
	t.Helper()
	v, ok := m.Value(i, j)
	require.Truef(t, ok, "cell (%d,%d) should be present", i, j)

	return v
}

func TestSoftmax_RowSumsAndAbsence(t *testing.T) {
	nan := math.NaN()
	in := rowOf(t, 1, nan, 2, 3)
	out, err := normalize.Softmax(1).Normalize(in)
	require.NoError(t, err)

	assert.False(t, out.Present(0, 1))
	sum := value(t, out, 0, 0) + value(t, out, 0, 2) + value(t, out, 0, 3)
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, value(t, out, 0, 3), value(t, out, 0, 2))

	e := math.Exp(1) + math.Exp(2) + math.Exp(3)
	assert.InDelta(t, math.Exp(1)/e, value(t, out, 0, 0), 1e-12)

	// input untouched
	assert.Equal(t, 1.0, value(t, in, 0, 0))
}

func TestSoftmax_TemperatureAndOverflow(t *testing.T) {
	out, err := normalize.Softmax(1).Normalize(rowOf(t, 1000, 1000))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, value(t, out, 0, 0), 1e-12)

	hot, err := normalize.Softmax(100).Normalize(rowOf(t, 0, 1))
	require.NoError(t, err)
	cold, err := normalize.Softmax(0.01).Normalize(rowOf(t, 0, 1))
	require.NoError(t, err)
	assert.Less(t, value(t, hot, 0, 1), value(t, cold, 0, 1))

	assert.Panics(t, func() { normalize.Softmax(0) })
}

func TestSoftmax_EmptyRowStaysEmpty(t *testing.T) {
	m, err := matrix.NewMasked(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 5))
	out, err := normalize.Softmax(1).Normalize(m)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count())
	assert.Equal(t, 1.0, value(t, out, 0, 0))
}

func TestRank(t *testing.T) {
	nan := math.NaN()
	in := rowOf(t, 0.3, nan, 0.1, 0.3)

	ints, err := normalize.Rank(true).Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, value(t, ints, 0, 0))
	assert.Equal(t, 1.0, value(t, ints, 0, 2))
	assert.Equal(t, 3.0, value(t, ints, 0, 3), "ties keep column order")
	assert.False(t, ints.Present(0, 1))

	frac, err := normalize.Rank(false).Normalize(in)
	require.NoError(t, err)
	sum := value(t, frac, 0, 0) + value(t, frac, 0, 2) + value(t, frac, 0, 3)
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 1.0/6, value(t, frac, 0, 2), 1e-12)

	assert.Equal(t, "intrank", normalize.Rank(true).Name())
}

func TestStandardize(t *testing.T) {
	nan := math.NaN()
	m, err := matrix.FromNaN(2, 2, []float64{1, nan, 3, nan})
	require.NoError(t, err)
	out, err := normalize.Standardize().Normalize(m)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, value(t, out, 0, 0), 1e-12)
	assert.InDelta(t, 1.0, value(t, out, 1, 0), 1e-12)
	assert.Equal(t, 2, out.Count())
}

func TestStandardize_Degenerate(t *testing.T) {
	_, err := normalize.Standardize().Normalize(rowOf(t, 2, 2, 2))
	assert.ErrorIs(t, err, normalize.ErrDegenerateInput)

	empty, err := matrix.NewMasked(2, 2)
	require.NoError(t, err)
	_, err = normalize.Standardize().Normalize(empty)
	assert.ErrorIs(t, err, normalize.ErrDegenerateInput)
}

func TestRowStdev(t *testing.T) {
	out, err := normalize.RowStdev().Normalize(rowOf(t, 0.2, 0.6))
	require.NoError(t, err)
	// mean 0.4, std 0.2 → shift = 0.4/(0.4+1e-7)
	shift := 0.4 / (0.4 + 1e-7)
	assert.InDelta(t, 0.5+0.6-shift, value(t, out, 0, 1), 1e-12)
	assert.Equal(t, 0.0, value(t, out, 0, 0))

	single, err := normalize.RowStdev().Normalize(rowOf(t, 0.7))
	require.NoError(t, err)
	assert.Equal(t, 0.0, value(t, single, 0, 0))
}

func TestThreshold(t *testing.T) {
	nan := math.NaN()
	in := rowOf(t, 0.1, 0.5, nan, 0.9)

	out, err := normalize.Threshold(0.5, false).Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value(t, out, 0, 0), "below cutoff is a present zero")
	assert.Equal(t, 0.5, value(t, out, 0, 1))
	assert.False(t, out.Present(0, 2))

	bin, err := normalize.Threshold(0.5, true).Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, value(t, bin, 0, 3))
	assert.Equal(t, 0.0, value(t, bin, 0, 0))
}

func TestIdentity_Idempotent(t *testing.T) {
	nan := math.NaN()
	in := rowOf(t, 0.1, nan, -4)
	id := normalize.Identity()
	once, err := id.Normalize(in)
	require.NoError(t, err)
	twice, err := id.Normalize(once)
	require.NoError(t, err)

	eq, err := matrix.EqualMasked(twice, in)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestWithFallback(t *testing.T) {
	flat := rowOf(t, 2, 2)
	_, err := normalize.Standardize().Normalize(flat)
	require.ErrorIs(t, err, normalize.ErrDegenerateInput)

	p := normalize.WithFallback(normalize.Standardize(), normalize.Identity())
	out, err := p.Normalize(flat)
	require.NoError(t, err)
	assert.Equal(t, 2.0, value(t, out, 0, 0))
	assert.Equal(t, "standardize|identity", p.Name())

	// non-degenerate input uses the primary
	out, err = p.Normalize(rowOf(t, 1, 3))
	require.NoError(t, err)
	assert.InDelta(t, -1.0, value(t, out, 0, 0), 1e-12)

	// other errors pass through
	_, err = p.Normalize(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestByName(t *testing.T) {
	for _, name := range normalize.Names() {
		p, err := normalize.ByName(name, normalize.Params{})
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
	_, err := normalize.ByName("quantile", normalize.Params{})
	assert.ErrorIs(t, err, normalize.ErrUnknownPolicy)
	_, err = normalize.ByName("softmax", normalize.Params{Temperature: -1})
	assert.ErrorIs(t, err, normalize.ErrInvalidParameter)

	p, err := normalize.ByName("standardize|rank", normalize.Params{})
	require.NoError(t, err)
	assert.Equal(t, "standardize|rank", p.Name())
	_, err = normalize.ByName("standardize|quantile", normalize.Params{})
	assert.ErrorIs(t, err, normalize.ErrUnknownPolicy)
}

func TestGraph_NormalizesDependentRows(t *testing.T) {
	g, err := digraph.New(2, digraph.WithOrientation(digraph.HeadMajor))
	require.NoError(t, err)
	require.NoError(t, g.SetWeight(1, 0, 1))
	require.NoError(t, g.SetWeight(1, 2, 1))
	require.NoError(t, g.SetWeight(2, 0, 3))

	out, err := normalize.Graph(normalize.Softmax(1), g)
	require.NoError(t, err)
	assert.Equal(t, digraph.DependentMajor, out.Orientation())
	c, err := out.Weight(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Value, 1e-12)
	c, err = out.Weight(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Value, 1e-12)

	_, err = normalize.Graph(nil, nil)
	assert.ErrorIs(t, err, digraph.ErrNilGraph)
}
