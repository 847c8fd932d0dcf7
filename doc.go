/*
Package prison provides Prison[T], a generational arena that gives
fine-grained interior mutability over a single contiguous backing slice.

A caller holds one Prison by reference and may obtain shared or
exclusive references to individual elements concurrently with
references to other elements. Aliasing is enforced dynamically by
per-slot reference counts and a container-wide active reference count,
not by the compiler: Prison is not goroutine-safe, and is meant to be
used the way a single-threaded Vec-with-interior-mutability would be in
a language with a borrow checker, minus the borrow checker.

Values are inserted with Insert/InsertAt and addressed afterwards by a
Key, an opaque (index, generation) pair that is invalidated the moment
its slot is removed or overwritten. Two access disciplines are
supported: scoped callbacks (VisitRef/VisitMut and friends), which
acquire a reference, run the callback, and release on every exit path;
and guard handles (GuardRef/GuardMut and friends), which give the
reference an independent lifetime that the caller releases explicitly
or via Release.

Re-entrancy is supported: a visit's callback may call back into the
same Prison, including structural mutation of slots it does not itself
hold a reference to.
*/
package prison
