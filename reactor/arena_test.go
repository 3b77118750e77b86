package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertGetRemove(t *testing.T) {
	a := newArena[int](4)

	k1 := a.insert(10)
	k2 := a.insert(20)

	v1, ok := a.get(k1)
	require.True(t, ok)
	assert.Equal(t, 10, *v1)

	a.remove(k1)
	_, ok = a.get(k1)
	assert.False(t, ok, "removed key must not resolve")

	v2, ok := a.get(k2)
	require.True(t, ok)
	assert.Equal(t, 20, *v2)
}

func TestArenaGenerationPreventsStaleAlias(t *testing.T) {
	a := newArena[string](1)

	k1 := a.insert("first")
	a.remove(k1)
	k2 := a.insert("second")

	assert.Equal(t, k1.idx, k2.idx, "freed slot should be reused")
	assert.NotEqual(t, k1.gen, k2.gen, "reused slot must bump its generation")

	_, ok := a.get(k1)
	assert.False(t, ok, "stale key must not alias the new occupant")

	v2, ok := a.get(k2)
	require.True(t, ok)
	assert.Equal(t, "second", *v2)
}

func TestArenaInsertNeverReturnsZeroKey(t *testing.T) {
	a := newArena[int](4)

	k1 := a.insert(1)
	assert.NotEqual(t, zeroKey, k1, "first insert must not alias the nil-link sentinel")
	assert.True(t, k1.valid())

	k2 := a.insert(2)
	assert.NotEqual(t, zeroKey, k2)

	a.remove(k1)
	a.remove(k2)
	k3 := a.insert(3)
	assert.NotEqual(t, zeroKey, k3, "a freed-and-reused slot must still avoid the sentinel")
}

func TestArenaLen(t *testing.T) {
	a := newArena[int](4)
	assert.Equal(t, 0, a.len())

	k1 := a.insert(1)
	a.insert(2)
	assert.Equal(t, 2, a.len())

	a.remove(k1)
	assert.Equal(t, 1, a.len())
}
