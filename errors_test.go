package prison

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessError_KindPredicates(t *testing.T) {
	oor := &AccessError{Kind: IndexOutOfRange, Index: 5}
	assert.True(t, IsIndexOutOfRange(oor))
	assert.False(t, IsGenerationMismatch(oor))
	assert.Contains(t, oor.Error(), "out of range")

	mismatch := &AccessError{Kind: GenerationMismatch, Index: 5, Generation: 0}
	assert.True(t, IsGenerationMismatch(mismatch))
	assert.False(t, IsIndexOutOfRange(mismatch))
	assert.Contains(t, mismatch.Error(), "generation mismatch")
}

func TestAccessError_WrappedStillDetected(t *testing.T) {
	base := &AccessError{Kind: IndexOutOfRange, Index: 1}
	wrapped := errors.Join(errors.New("context"), base)
	assert.True(t, IsIndexOutOfRange(wrapped))
}

func TestMajorMalfunction(t *testing.T) {
	mm := &MajorMalfunction{Reason: "corrupted free list"}
	assert.True(t, IsMajorMalfunction(mm))
	assert.False(t, IsMajorMalfunction(errors.New("unrelated")))
	assert.Contains(t, mm.Error(), "corrupted free list")
}
