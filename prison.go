package prison

// Prison is a generational arena: a growable slice of slots, each
// either Occupied (holding a T, a generation, and a per-slot refcount)
// or Free (linked into a doubly-linked free list). See doc.go for an
// overview and slot.go for the slot layout.
//
// Prison is not safe for concurrent use from multiple goroutines; it is
// meant to be held by a single owner and aliased only through Keys,
// indices, visits, and guards, all of which go through the same
// counters.
type Prison[T any] struct {
	slots      []slot[T]
	activeRefs uint64
	gen        uint64
	freeHead   uint64
	occupied   int
	opts       options
}

// New creates an empty Prison.
func New[T any](opts ...Option) *Prison[T] {
	return WithCapacity[T](0, opts...)
}

// WithCapacity creates a Prison with n pre-allocated Free slots, linked
// into a free list in increasing-index order.
func WithCapacity[T any](n int, opts ...Option) *Prison[T] {
	p := &Prison[T]{opts: resolveOptions(opts...), freeHead: noIndex}
	if n <= 0 {
		return p
	}

	p.slots = make([]slot[T], n)
	for i := 0; i < n; i++ {
		prev := noPrev
		if i > 0 {
			prev = uint64(i - 1)
		}
		next := noIndex
		if i+1 < n {
			next = uint64(i + 1)
		}
		p.slots[i].makeFree(prev, next)
	}
	p.freeHead = 0
	return p
}

// Len returns the number of Occupied slots.
func (p *Prison[T]) Len() int { return p.occupied }

// Cap returns the number of slots currently allocated (Occupied + Free).
func (p *Prison[T]) Cap() int { return len(p.slots) }

// IsEmpty reports whether Len() == 0.
func (p *Prison[T]) IsEmpty() bool { return p.occupied == 0 }

// IsValidIndex reports whether i names an Occupied slot.
func (p *Prison[T]) IsValidIndex(i uint64) bool {
	return p.validateIndex(i) == nil
}

// IsValidKey reports whether k names an Occupied slot whose generation
// matches k's.
func (p *Prison[T]) IsValidKey(k Key) bool {
	_, err := p.validateKey(k)
	return err == nil
}

// ActiveRefs returns the container-wide count of currently outstanding
// references.
func (p *Prison[T]) ActiveRefs() uint64 { return p.activeRefs }

// Generation returns the arena's generation counter: the generation the
// next inserted value receives. It is never less than any Occupied
// slot's generation.
func (p *Prison[T]) Generation() uint64 { return p.gen }

func (p *Prison[T]) validateIndex(i uint64) error {
	if i >= uint64(len(p.slots)) {
		return &AccessError{Kind: IndexOutOfRange, Index: i}
	}
	if p.slots[i].isFree() {
		return ErrSlotIsFree
	}
	return nil
}

func (p *Prison[T]) validateKey(k Key) (uint64, error) {
	if k.Index >= uint64(len(p.slots)) {
		return 0, &AccessError{Kind: IndexOutOfRange, Index: k.Index}
	}
	s := &p.slots[k.Index]
	if s.isFree() {
		return 0, ErrSlotIsFree
	}
	if s.generation() != k.Generation {
		return 0, &AccessError{Kind: GenerationMismatch, Index: k.Index, Generation: k.Generation}
	}
	return k.Index, nil
}

// bumpGenerationIfCurrent advances p.gen when a slot carrying oldGen is
// about to lose that generation (remove/overwrite), which is the
// minimal condition that prevents any previously issued key from ever
// matching a future occupant of the same index.
func (p *Prison[T]) bumpGenerationIfCurrent(oldGen uint64) error {
	if oldGen != p.gen {
		return nil
	}
	if p.gen >= maxGeneration {
		return p.malfunction("generation counter saturated at max representable value")
	}
	p.gen++
	return nil
}

// malfunction reports an observed invariant violation, logging it
// uniformly regardless of call site before delivering it per
// MalfunctionPolicy.
func (p *Prison[T]) malfunction(reason string) error {
	p.opts.logger.LogMalfunction(reason)
	mm := &MajorMalfunction{Reason: reason}
	if p.opts.malfunctionPolicy == PolicyPanic {
		panic(mm.Error())
	}
	return mm
}

// popFreeHead unlinks and returns the index at the head of the free
// list, or (0, false) if the free list is empty.
func (p *Prison[T]) popFreeHead() (uint64, bool) {
	if p.freeHead == noIndex {
		return 0, false
	}
	idx := p.freeHead
	next := p.slots[idx].nextFree()
	p.freeHead = next
	if next != noIndex {
		p.slots[next].setPrevFree(noPrev)
	}
	return idx, true
}

// unlinkFree removes slot i from the free list, wherever it sits
// (head or not) — the doubly-linked structure is what makes this O(1)
// for any free slot, not merely the head.
func (p *Prison[T]) unlinkFree(i uint64) {
	s := &p.slots[i]
	prev, next := s.prevFree(), s.nextFree()
	if prev == noPrev {
		p.freeHead = next
	} else {
		p.slots[prev].setNextFree(next)
	}
	if next != noIndex {
		p.slots[next].setPrevFree(prev)
	}
}

// pushFree links slot i in at the head of the free list.
func (p *Prison[T]) pushFree(i uint64) {
	oldHead := p.freeHead
	p.slots[i].makeFree(noPrev, oldHead)
	if oldHead != noIndex {
		p.slots[oldHead].setPrevFree(i)
	}
	p.freeHead = i
}

// growByOneOccupied appends a new slot, transitioning it directly to
// Occupied, gated on activeRefs when the append would reallocate the
// backing slice. A grow that fits the slice's existing capacity never
// reallocates and so is never gated.
func (p *Prison[T]) growByOneOccupied(v T) (uint64, error) {
	if len(p.slots) == cap(p.slots) && p.activeRefs != 0 {
		return 0, ErrAnyReferenceOutstanding
	}
	idx := uint64(len(p.slots))
	p.slots = append(p.slots, slot[T]{})
	p.slots[idx].makeOccupied(p.gen, v)
	p.occupied++
	return idx, nil
}

// ensureIndexFree grows the slice (as Free slots, pushed to the free
// list head) until index i exists.
func (p *Prison[T]) ensureIndexFree(i uint64) error {
	for uint64(len(p.slots)) <= i {
		if len(p.slots) == cap(p.slots) && p.activeRefs != 0 {
			return ErrAnyReferenceOutstanding
		}
		idx := uint64(len(p.slots))
		p.slots = append(p.slots, slot[T]{})
		p.pushFree(idx)
	}
	return nil
}

// Insert adds v to the arena, reusing a free slot if one exists, and
// returns a fresh Key for it.
func (p *Prison[T]) Insert(v T) (Key, error) {
	if idx, ok := p.popFreeHead(); ok {
		p.slots[idx].makeOccupied(p.gen, v)
		p.occupied++
		p.opts.logger.LogStructural("insert", nil)
		return Key{Index: idx, Generation: p.gen}, nil
	}

	idx, err := p.growByOneOccupied(v)
	if err != nil {
		p.opts.logger.LogStructural("insert", err)
		return Key{}, err
	}
	return Key{Index: idx, Generation: p.gen}, nil
}

// InsertAt inserts v at a caller-chosen index, growing the arena with
// Free placeholder slots if i is beyond the current length. i must not
// already name an Occupied slot.
func (p *Prison[T]) InsertAt(i uint64, v T) (Key, error) {
	if i < uint64(len(p.slots)) {
		s := &p.slots[i]
		if !s.isFree() {
			return Key{}, p.malfunction("insert_at target index is occupied")
		}
		p.unlinkFree(i)
		s.makeOccupied(p.gen, v)
		p.occupied++
		return Key{Index: i, Generation: p.gen}, nil
	}

	if err := p.ensureIndexFree(i); err != nil {
		p.opts.logger.LogStructural("insert_at", err)
		return Key{}, err
	}
	p.unlinkFree(i)
	p.slots[i].makeOccupied(p.gen, v)
	p.occupied++
	return Key{Index: i, Generation: p.gen}, nil
}

// Overwrite replaces the value at k's slot in place, returning a fresh
// Key (the generation may have advanced; see bumpGenerationIfCurrent).
// The target slot must currently have no outstanding references.
func (p *Prison[T]) Overwrite(k Key, v T) (Key, error) {
	idx, err := p.validateKey(k)
	if err != nil {
		return Key{}, err
	}
	s := &p.slots[idx]
	if !s.isUnreferenced() {
		return Key{}, ErrExtantReferenceOnSlot
	}
	if err := p.bumpGenerationIfCurrent(s.generation()); err != nil {
		return Key{}, err
	}
	s.makeOccupied(p.gen, v)
	return Key{Index: idx, Generation: p.gen}, nil
}

// Remove validates k, removes its slot (which must have no outstanding
// references), and returns the removed value.
func (p *Prison[T]) Remove(k Key) (T, error) {
	var zero T
	idx, err := p.validateKey(k)
	if err != nil {
		return zero, err
	}
	return p.removeAt(idx)
}

// RemoveIdx removes the slot at i (which must be Occupied and have no
// outstanding references) without checking a generation.
func (p *Prison[T]) RemoveIdx(i uint64) (T, error) {
	var zero T
	if err := p.validateIndex(i); err != nil {
		return zero, err
	}
	return p.removeAt(i)
}

func (p *Prison[T]) removeAt(idx uint64) (T, error) {
	var zero T
	s := &p.slots[idx]
	if !s.isUnreferenced() {
		return zero, ErrExtantReferenceOnSlot
	}
	if err := p.bumpGenerationIfCurrent(s.generation()); err != nil {
		return zero, err
	}
	val := s.val
	p.occupied--
	p.pushFree(idx)
	p.opts.logger.LogStructural("remove", nil)
	return val, nil
}

// Clear removes every Occupied slot, keeping the backing slice's
// capacity (it never shrinks the underlying allocation). It requires
// no outstanding references anywhere in the arena and is idempotent:
// calling Clear on an already-empty Prison is a no-op.
func (p *Prison[T]) Clear() error {
	if p.activeRefs != 0 {
		return ErrExtantReferenceOnSlot
	}
	if p.occupied == 0 {
		return nil
	}
	if p.gen >= maxGeneration {
		return p.malfunction("generation counter saturated")
	}
	p.gen++ // invalidate every previously issued key in one step

	n := len(p.slots)
	for i := 0; i < n; i++ {
		prev := noPrev
		if i > 0 {
			prev = uint64(i - 1)
		}
		next := noIndex
		if i+1 < n {
			next = uint64(i + 1)
		}
		p.slots[i].makeFree(prev, next)
	}
	if n > 0 {
		p.freeHead = 0
	} else {
		p.freeHead = noIndex
	}
	p.occupied = 0
	p.opts.logger.LogStructural("clear", nil)
	return nil
}

// CloneVal returns a copy of the value at k's slot. Unlike every other
// read, this bypasses the refcount discipline entirely — it neither
// hands out a borrow nor mutates, so it is legal even while the slot
// is exclusively guarded. For reference-shaped T (slices, maps,
// pointers) this is a shallow copy, same as Go's own
// slices.Clone/maps.Clone.
func (p *Prison[T]) CloneVal(k Key) (T, error) {
	var zero T
	idx, err := p.validateKey(k)
	if err != nil {
		return zero, err
	}
	return p.slots[idx].val, nil
}

// CloneValIdx is CloneVal addressed by raw index instead of a Key.
func (p *Prison[T]) CloneValIdx(i uint64) (T, error) {
	var zero T
	if err := p.validateIndex(i); err != nil {
		return zero, err
	}
	return p.slots[i].val, nil
}
