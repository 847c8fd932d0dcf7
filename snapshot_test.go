package prison

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	p := New[string]()
	_, err := p.Insert("a")
	require.NoError(t, err)
	_, err = p.Insert("b")
	require.NoError(t, err)
	k2, err := p.Insert("c")
	require.NoError(t, err)
	_, err = p.Remove(k2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf))

	restored, err := Import[string](&buf)
	require.NoError(t, err)

	assert.Equal(t, p.Len(), restored.Len())
	assert.Equal(t, p.Cap(), restored.Cap())
	assert.Equal(t, p.Generation(), restored.Generation())

	v, err := restored.CloneValIdx(0)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	assert.False(t, restored.IsValidIndex(k2.Index) && restored.IsValidKey(k2))
}

func TestSnapshot_RoundTripWithCompression(t *testing.T) {
	p := New[int]()
	for i := 0; i < 50; i++ {
		_, err := p.Insert(i)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf, WithCompression()))

	restored, err := Import[int](&buf)
	require.NoError(t, err)
	assert.Equal(t, p.Len(), restored.Len())

	for i := 0; i < 50; i++ {
		v, err := restored.CloneValIdx(uint64(i))
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestSnapshot_ExportRejectsWhileReferenced(t *testing.T) {
	p := New[int]()
	k, err := p.Insert(1)
	require.NoError(t, err)

	g, err := p.GuardRef(k)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, p.Export(&buf), ErrAnyReferenceOutstanding)

	g.Release()
	assert.NoError(t, p.Export(&buf))
}

func TestSnapshot_PreservesPerSlotGenerations(t *testing.T) {
	p := New[string]()
	k0, err := p.Insert("a")
	require.NoError(t, err)
	_, err = p.Remove(k0)
	require.NoError(t, err)
	k1, err := p.Insert("b")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), k1.Generation)

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf))

	restored, err := Import[string](&buf)
	require.NoError(t, err)

	assert.True(t, restored.IsValidKey(k1))
	assert.False(t, restored.IsValidKey(k0))
}
