package prison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_VisitRefAndMut(t *testing.T) {
	c := NewCell(10)

	require.NoError(t, c.VisitRef(func(v *int) error {
		assert.Equal(t, 10, *v)
		return nil
	}))

	require.NoError(t, c.VisitMut(func(v *int) error {
		*v = 20
		return nil
	}))
	assert.Equal(t, 20, c.CloneVal())
}

func TestCell_ExclusiveExcludesShared(t *testing.T) {
	c := NewCell("x")
	g, err := c.GuardMut()
	require.NoError(t, err)

	_, err = c.GuardRef()
	assert.ErrorIs(t, err, ErrExclusiveAlreadyHeld)

	g.Release()

	gr, err := c.GuardRef()
	require.NoError(t, err)
	_, err = c.GuardMut()
	assert.ErrorIs(t, err, ErrSharedOutstanding)
	gr.Release()
}

func TestCell_ReplaceRequiresUnreferenced(t *testing.T) {
	c := NewCell(1)
	g, err := c.GuardRef()
	require.NoError(t, err)

	_, err = c.Replace(2)
	assert.ErrorIs(t, err, ErrExtantReferenceOnSlot)

	g.Release()

	old, err := c.Replace(2)
	require.NoError(t, err)
	assert.Equal(t, 1, old)
	assert.Equal(t, 2, c.CloneVal())
}

func TestCell_ActiveRefsTracksSharedAndExclusive(t *testing.T) {
	c := NewCell(1)
	assert.Equal(t, uint64(0), c.ActiveRefs())

	g1, err := c.GuardRef()
	require.NoError(t, err)
	g2, err := c.GuardRef()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.ActiveRefs())

	g1.Release()
	g2.Release()

	gm, err := c.GuardMut()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.ActiveRefs())
	gm.Release()
	assert.Equal(t, uint64(0), c.ActiveRefs())
}

func TestCell_GuardReleaseIdempotent(t *testing.T) {
	c := NewCell(1)
	g, err := c.GuardRef()
	require.NoError(t, err)

	g.Release()
	assert.NotPanics(t, g.Release)
	assert.Equal(t, uint64(0), c.ActiveRefs())
}
