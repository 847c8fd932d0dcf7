package prison

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
)

// Stats reports point-in-time counters about a Prison: occupancy,
// capacity, outstanding references, and the current generation.
type Stats struct {
	Occupied     int
	Capacity     int
	FreeCount    int
	ActiveRefs   uint64
	Generation   uint64
	BytesPerSlot uint64
}

// Stats returns the current statistics for p.
func (p *Prison[T]) Stats() Stats {
	return Stats{
		Occupied:     p.occupied,
		Capacity:     len(p.slots),
		FreeCount:    len(p.slots) - p.occupied,
		ActiveRefs:   p.activeRefs,
		Generation:   p.gen,
		BytesPerSlot: uint64(unsafe.Sizeof(slot[T]{})),
	}
}

// String renders Stats as a human-readable one-liner, using
// go-humanize for byte-count and large-count formatting.
func (s Stats) String() string {
	totalBytes := uint64(s.Capacity) * s.BytesPerSlot
	return fmt.Sprintf(
		"Stats{occupied: %s, capacity: %s, free: %s, active_refs: %s, generation: %s, backing: %s}",
		humanize.Comma(int64(s.Occupied)),
		humanize.Comma(int64(s.Capacity)),
		humanize.Comma(int64(s.FreeCount)),
		humanize.Comma(int64(s.ActiveRefs)),
		humanize.Comma(int64(s.Generation)),
		humanize.Bytes(totalBytes),
	)
}
