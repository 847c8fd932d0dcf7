package prison

// This file implements the gate predicates: the set of checks applied
// before granting any reference (shared or exclusive) and before any
// batched acquire. Both visit.go and guard.go build on
// these — a visit is just an acquire, a callback invocation, and a
// release on every exit path; a guard is the same acquire/release pair
// with the release deferred to the caller instead of to a defer.

func (p *Prison[T]) acquireShared(idx uint64) error {
	s := &p.slots[idx]
	if s.isExclusive() {
		return ErrExclusiveAlreadyHeld
	}
	if s.refcount() >= maxSharedRefs {
		return ErrRefCountOverflow
	}
	s.incShared()
	p.activeRefs++
	return nil
}

func (p *Prison[T]) releaseShared(idx uint64) {
	p.slots[idx].decShared()
	p.activeRefs--
}

func (p *Prison[T]) acquireExclusive(idx uint64) error {
	s := &p.slots[idx]
	if s.isExclusive() {
		return ErrExclusiveAlreadyHeld
	}
	if s.sharedCount() > 0 {
		return ErrSharedOutstanding
	}
	s.setExclusive()
	p.activeRefs++
	return nil
}

func (p *Prison[T]) releaseExclusive(idx uint64) {
	p.slots[idx].clearExclusive()
	p.activeRefs--
}

// validateBatch checks a batched index list for out-of-range entries,
// duplicates, and per-slot acquirability — all before any counter is
// touched, so a rejected batch leaves every slot's refcount exactly as
// it was. idxSeen is scratch space supplied by the caller and cleared
// before use; the batched acquire helpers pass a fresh map on each call.
func (p *Prison[T]) validateBatch(idx []uint64, exclusive bool, idxSeen map[uint64]struct{}) error {
	for k := range idxSeen {
		delete(idxSeen, k)
	}
	for _, i := range idx {
		if err := p.validateIndex(i); err != nil {
			return err
		}
		if _, dup := idxSeen[i]; dup {
			return ErrDuplicateIndex
		}
		idxSeen[i] = struct{}{}

		s := &p.slots[i]
		if exclusive {
			if s.isExclusive() {
				return ErrExclusiveAlreadyHeld
			}
			if s.sharedCount() > 0 {
				return ErrSharedOutstanding
			}
		} else {
			if s.isExclusive() {
				return ErrExclusiveAlreadyHeld
			}
			if s.refcount() >= maxSharedRefs {
				return ErrRefCountOverflow
			}
		}
	}
	return nil
}

func (p *Prison[T]) acquireManyShared(idx []uint64) error {
	if err := p.validateBatch(idx, false, make(map[uint64]struct{}, len(idx))); err != nil {
		return err
	}
	for _, i := range idx {
		p.slots[i].incShared()
		p.activeRefs++
	}
	return nil
}

func (p *Prison[T]) releaseManyShared(idx []uint64) {
	for _, i := range idx {
		p.slots[i].decShared()
		p.activeRefs--
	}
}

func (p *Prison[T]) acquireManyExclusive(idx []uint64) error {
	if err := p.validateBatch(idx, true, make(map[uint64]struct{}, len(idx))); err != nil {
		return err
	}
	for _, i := range idx {
		p.slots[i].setExclusive()
		p.activeRefs++
	}
	return nil
}

func (p *Prison[T]) releaseManyExclusive(idx []uint64) {
	for _, i := range idx {
		p.slots[i].clearExclusive()
		p.activeRefs--
	}
}
