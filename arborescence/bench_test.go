package arborescence_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/treeproj/arborescence"
	"github.com/katalvlaran/treeproj/digraph"
)

func buildDense(n int) *digraph.Graph {
	rng := rand.New(rand.NewSource(int64(n)))
	g, _ := digraph.New(n)
	for d := 1; d <= n; d++ {
		for h := 0; h <= n; h++ {
			if h != d {
				_ = g.SetWeight(d, h, rng.Float64())
			}
		}
	}

	return g
}

// BenchmarkDecode measures a fully dense 60-token sentence.
func BenchmarkDecode(b *testing.B) {
	g := buildDense(60) // pre-build graph once
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = arborescence.Decode(g)
	}
}

// BenchmarkDecodeCompressed is BenchmarkDecode with path compression.
func BenchmarkDecodeCompressed(b *testing.B) {
	g := buildDense(60)
	dec := arborescence.New(arborescence.WithPathCompression())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dec.Decode(g)
	}
}
