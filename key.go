package prison

// Key is an opaque handle identifying a logical element in a Prison
// across its lifetime. Two keys are equal iff their Index and
// Generation are both equal; Go's built-in struct equality suffices.
type Key struct {
	Index      uint64
	Generation uint64
}
