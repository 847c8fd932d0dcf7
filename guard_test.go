package prison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefGuard_ReleaseIsIdempotent(t *testing.T) {
	p := New[int]()
	k, err := p.Insert(1)
	require.NoError(t, err)

	g, err := p.GuardRef(k)
	require.NoError(t, err)
	assert.Equal(t, 1, *g.Get())

	g.Release()
	assert.Equal(t, uint64(0), p.ActiveRefs())

	assert.NotPanics(t, g.Release, "a second Release must be a no-op, not a double-decrement")
	assert.Equal(t, uint64(0), p.ActiveRefs())
}

func TestMutGuard_MutatesThroughGet(t *testing.T) {
	p := New[int]()
	k, err := p.Insert(1)
	require.NoError(t, err)

	g, err := p.GuardMut(k)
	require.NoError(t, err)
	*g.Get() = 99
	g.Release()

	v, err := p.CloneVal(k)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestGuardManyRefIdx_CoversAllRequestedIndices(t *testing.T) {
	p := New[int]()
	var idx []uint64
	for i := 0; i < 3; i++ {
		k, err := p.Insert(i * 2)
		require.NoError(t, err)
		idx = append(idx, k.Index)
	}

	g, err := p.GuardManyRefIdx(idx)
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())
	assert.Equal(t, 4, *g.At(2))

	g.Release()
	assert.Equal(t, uint64(0), p.ActiveRefs())
}

func TestGuardManyMutIdx_RejectsDuplicatesWithoutSideEffects(t *testing.T) {
	p := New[int]()
	for i := 0; i < 2; i++ {
		_, err := p.Insert(i)
		require.NoError(t, err)
	}

	_, err := p.GuardManyMutIdx([]uint64{0, 0})
	assert.ErrorIs(t, err, ErrDuplicateIndex)
	assert.Equal(t, uint64(0), p.ActiveRefs())
}

func TestGuardRefIdx_ValidatesIndex(t *testing.T) {
	p := New[int]()
	_, err := p.GuardRefIdx(0)
	assert.True(t, IsIndexOutOfRange(err))
}
