package prison

// VisitRef validates k, acquires a shared reference to its slot, runs f
// with a pointer to the value, and releases the reference on every
// exit path — including when f returns an error or panics.
func (p *Prison[T]) VisitRef(k Key, f func(v *T) error) error {
	idx, err := p.validateKey(k)
	if err != nil {
		return err
	}
	return p.visitShared(idx, f)
}

// VisitMut is VisitRef's exclusive-reference counterpart: f receives a
// pointer it may mutate through.
func (p *Prison[T]) VisitMut(k Key, f func(v *T) error) error {
	idx, err := p.validateKey(k)
	if err != nil {
		return err
	}
	return p.visitExclusive(idx, f)
}

// VisitRefIdx is VisitRef addressed by raw index instead of a Key.
func (p *Prison[T]) VisitRefIdx(i uint64, f func(v *T) error) error {
	if err := p.validateIndex(i); err != nil {
		return err
	}
	return p.visitShared(i, f)
}

// VisitMutIdx is VisitMut addressed by raw index instead of a Key.
func (p *Prison[T]) VisitMutIdx(i uint64, f func(v *T) error) error {
	if err := p.validateIndex(i); err != nil {
		return err
	}
	return p.visitExclusive(i, f)
}

func (p *Prison[T]) visitShared(idx uint64, f func(v *T) error) error {
	if err := p.acquireShared(idx); err != nil {
		return err
	}
	defer p.releaseShared(idx)
	return f(&p.slots[idx].val)
}

func (p *Prison[T]) visitExclusive(idx uint64, f func(v *T) error) error {
	if err := p.acquireExclusive(idx); err != nil {
		return err
	}
	defer p.releaseExclusive(idx)
	return f(&p.slots[idx].val)
}

// VisitManyRefIdx validates the whole index list (range, duplicates,
// per-slot acquirability) before touching any counter, acquires shared
// references to every listed slot, and delivers the parallel slice of
// pointers to f in one call.
func (p *Prison[T]) VisitManyRefIdx(idx []uint64, f func(vs []*T) error) error {
	if err := p.acquireManyShared(idx); err != nil {
		return err
	}
	defer p.releaseManyShared(idx)
	return f(p.refsFor(idx))
}

// VisitManyMutIdx is VisitManyRefIdx's exclusive-reference counterpart.
func (p *Prison[T]) VisitManyMutIdx(idx []uint64, f func(vs []*T) error) error {
	if err := p.acquireManyExclusive(idx); err != nil {
		return err
	}
	defer p.releaseManyExclusive(idx)
	return f(p.refsFor(idx))
}

func (p *Prison[T]) refsFor(idx []uint64) []*T {
	refs := make([]*T, len(idx))
	for j, i := range idx {
		refs[j] = &p.slots[i].val
	}
	return refs
}

// VisitEachRef walks [start, end) by live index, visiting one Occupied
// slot at a time with a shared reference. Free slots in the range are
// skipped rather than erroring, since a ranged walk over a sparsely
// occupied arena has no other sensible behavior. Each index is visited
// independently, so re-entrant structural mutation of other slots
// during the walk remains legal.
func (p *Prison[T]) VisitEachRef(start, end uint64, f func(idx uint64, v *T) error) error {
	return p.visitEach(start, end, p.visitShared, f)
}

// VisitEachMut is VisitEachRef's exclusive-reference counterpart.
func (p *Prison[T]) VisitEachMut(start, end uint64, f func(idx uint64, v *T) error) error {
	return p.visitEach(start, end, p.visitExclusive, f)
}

func (p *Prison[T]) visitEach(start, end uint64, visitOne func(uint64, func(*T) error) error, f func(idx uint64, v *T) error) error {
	n := uint64(len(p.slots))
	if end > n {
		end = n
	}
	for i := start; i < end; i++ {
		if p.slots[i].isFree() {
			continue
		}
		idx := i
		if err := visitOne(idx, func(v *T) error { return f(idx, v) }); err != nil {
			return err
		}
	}
	return nil
}
