package prison

import (
	"errors"
	"fmt"
)

// Sentinel errors for kinds that carry no useful payload beyond their
// identity. Kinds that need to report which index/key/slot was involved
// use AccessError instead (see below).
var (
	// ErrSlotIsFree is returned when an index is in range but the slot
	// at that index is currently Free.
	ErrSlotIsFree = errors.New("prison: slot is free")

	// ErrExclusiveAlreadyHeld is returned when any acquire is attempted
	// while an exclusive reference is outstanding on the target slot.
	ErrExclusiveAlreadyHeld = errors.New("prison: exclusive reference already held")

	// ErrSharedOutstanding is returned when an exclusive acquire is
	// attempted while one or more shared references are outstanding.
	ErrSharedOutstanding = errors.New("prison: shared reference(s) outstanding")

	// ErrExtantReferenceOnSlot is returned when mutate/remove/overwrite/
	// clear is attempted on a slot that is currently referenced.
	ErrExtantReferenceOnSlot = errors.New("prison: slot has an outstanding reference")

	// ErrAnyReferenceOutstanding is returned when growth that would
	// reallocate the backing slice is attempted while active_refs > 0.
	ErrAnyReferenceOutstanding = errors.New("prison: arena has outstanding references")

	// ErrDuplicateIndex is returned when a batched visit/guard call's
	// index list contains the same index twice.
	ErrDuplicateIndex = errors.New("prison: duplicate index in batch")

	// ErrRefCountOverflow is returned when a slot's refcount would
	// exceed the representable range.
	ErrRefCountOverflow = errors.New("prison: reference count overflow")
)

// AccessError reports an access failure that needs to carry the index
// and/or generation it failed against. The zero Generation paired with
// Kind == GenerationMismatch is a valid value (generation 0 is a real
// generation), so callers should branch on Kind/errors.Is, not on the
// presence of a nonzero Generation.
type AccessError struct {
	Kind       AccessErrorKind
	Index      uint64
	Generation uint64 // meaningful only for GenerationMismatch
}

// AccessErrorKind discriminates the reason an AccessError was produced.
type AccessErrorKind int

const (
	// IndexOutOfRange means index >= number of slots.
	IndexOutOfRange AccessErrorKind = iota
	// GenerationMismatch means the key's generation didn't match the slot's.
	GenerationMismatch
)

func (e *AccessError) Error() string {
	switch e.Kind {
	case IndexOutOfRange:
		return fmt.Sprintf("prison: index [%d] is out of range", e.Index)
	case GenerationMismatch:
		return fmt.Sprintf("prison: key generation mismatch at index [%d] (got generation %d)", e.Index, e.Generation)
	default:
		return fmt.Sprintf("prison: access error at index [%d]", e.Index)
	}
}

// IsIndexOutOfRange reports whether err is an AccessError of kind IndexOutOfRange.
func IsIndexOutOfRange(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae) && ae.Kind == IndexOutOfRange
}

// IsGenerationMismatch reports whether err is an AccessError of kind GenerationMismatch.
func IsGenerationMismatch(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae) && ae.Kind == GenerationMismatch
}

// MajorMalfunction reports that an internal invariant was observed
// broken. Delivery is governed by the Prison's MalfunctionPolicy
// (WithMalfunctionPolicy): by default it is returned as an error, but
// it can instead be configured to panic.
type MajorMalfunction struct {
	Reason string
}

func (e *MajorMalfunction) Error() string {
	return fmt.Sprintf("prison: major malfunction: %s", e.Reason)
}

// IsMajorMalfunction reports whether err is a *MajorMalfunction.
func IsMajorMalfunction(err error) bool {
	var mm *MajorMalfunction
	return errors.As(err, &mm)
}
