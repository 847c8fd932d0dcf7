package prison

// Slot header layout: two size-type words plus the value storage.
// discriminantBit, the top bit of dgenOrPrev, selects which
// interpretation applies to both words:
//
//	Occupied (discriminantBit clear):
//	  refsOrNext = refcount (exclusiveMark sentinel means "1 exclusive ref")
//	  dgenOrPrev = generation (bounded to the remaining 63 bits)
//	Free (discriminantBit set):
//	  refsOrNext = index of next free slot, or noIndex for "none"
//	  dgenOrPrev = discriminantBit | index of previous free slot (or noPrev)
//
// This packing keeps the header to two words; a tagged union with a
// separate bool discriminant would be simpler but costs a third word
// per slot.
const (
	discriminantBit = uint64(1) << 63
	genFieldMask    = discriminantBit - 1

	// maxGeneration is the largest generation value the packed header
	// can represent. Advancing past it is a MajorMalfunction (see
	// bumpGenerationIfCurrent).
	maxGeneration = genFieldMask

	// noIndex marks "no next free slot"; a full 64-bit field, so it can
	// use every bit.
	noIndex = ^uint64(0)

	// noPrev marks "no previous free slot"; must fit the 63 bits left
	// after the discriminant, so it cannot reuse noIndex's all-ones value.
	noPrev = genFieldMask

	// exclusiveMark is the refcount sentinel meaning "one exclusive
	// reference is outstanding". Any other value is a shared count.
	exclusiveMark = ^uint64(0)

	// maxSharedRefs is the largest representable shared refcount.
	maxSharedRefs = exclusiveMark - 1
)

// slot is one cell of a Prison's backing slice.
type slot[T any] struct {
	refsOrNext uint64
	dgenOrPrev uint64
	val        T
}

func (s *slot[T]) isFree() bool {
	return s.dgenOrPrev&discriminantBit != 0
}

func (s *slot[T]) generation() uint64 {
	return s.dgenOrPrev &^ discriminantBit
}

func (s *slot[T]) refcount() uint64 {
	return s.refsOrNext
}

func (s *slot[T]) isExclusive() bool {
	return s.refsOrNext == exclusiveMark
}

func (s *slot[T]) sharedCount() uint64 {
	if s.isExclusive() {
		return 0
	}
	return s.refsOrNext
}

func (s *slot[T]) isUnreferenced() bool {
	return s.refsOrNext == 0
}

func (s *slot[T]) prevFree() uint64 {
	return s.dgenOrPrev &^ discriminantBit
}

func (s *slot[T]) nextFree() uint64 {
	return s.refsOrNext
}

// makeOccupied transitions the slot (wherever it was) to Occupied with
// a fresh refcount of zero and the given generation and value.
func (s *slot[T]) makeOccupied(gen uint64, val T) {
	s.refsOrNext = 0
	s.dgenOrPrev = gen & genFieldMask
	s.val = val
}

// makeFree transitions the slot to Free, linking it at the given
// prev/next free-list neighbours. The value is cleared so it is not
// retained by the backing slice once the slot is logically
// uninitialized again.
func (s *slot[T]) makeFree(prev, next uint64) {
	var zero T
	s.val = zero
	s.refsOrNext = next
	s.dgenOrPrev = discriminantBit | (prev & genFieldMask)
}

func (s *slot[T]) setPrevFree(prev uint64) {
	s.dgenOrPrev = discriminantBit | (prev & genFieldMask)
}

func (s *slot[T]) setNextFree(next uint64) {
	s.refsOrNext = next
}

func (s *slot[T]) incShared() {
	s.refsOrNext++
}

func (s *slot[T]) decShared() {
	s.refsOrNext--
}

func (s *slot[T]) setExclusive() {
	s.refsOrNext = exclusiveMark
}

func (s *slot[T]) clearExclusive() {
	s.refsOrNext = 0
}
