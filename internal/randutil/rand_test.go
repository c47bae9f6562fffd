package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestDerive(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		s := Derive(7, i)
		assert.False(t, seen[s], "index %d repeats a seed", i)
		seen[s] = true
		assert.Equal(t, s, Derive(7, i))
	}
	assert.NotEqual(t, Derive(7, 0), Derive(8, 0))
}
