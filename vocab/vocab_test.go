package vocab_test

import (
	"testing"

	"github.com/katalvlaran/treeproj/vocab"
	"github.com/stretchr/testify/assert"
)

func TestVocab_AssignAndReverse(t *testing.T) {
	v := vocab.New()
	assert.Equal(t, 0, v.ID("NOUN"))
	assert.Equal(t, 1, v.ID("VERB"))
	assert.Equal(t, 0, v.ID("NOUN"))
	assert.Equal(t, 2, v.Len())

	l, ok := v.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "VERB", l)

	_, ok = v.Lookup("ADJ")
	assert.False(t, ok)
	assert.Equal(t, 2, v.Len(), "Lookup must not assign")
}

func TestVocab_SetKeepsBijection(t *testing.T) {
	v := vocab.Of("a", "b")
	v.Set("c", 1)
	_, ok := v.Lookup("b")
	assert.False(t, ok)
	l, _ := v.Label(1)
	assert.Equal(t, "c", l)

	// explicit ids are skipped by later assignment
	v.Set("z", 2)
	assert.Equal(t, 3, v.ID("d"))
	assert.Equal(t, 4, v.Len())
}

func TestVocab_Independent(t *testing.T) {
	a, b := vocab.New(), vocab.New()
	a.ID("x")
	assert.Equal(t, 0, b.ID("y"))
	assert.Equal(t, 1, a.Len())
}
