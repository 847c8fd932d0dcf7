package prison

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Snapshot export/import lets a caller persist a Prison's contents and
// restore them later, with the same per-index generations the original
// held. It copies every value out through reflection (encoding/gob), so
// it is not zero-copy serialisation — callers with that requirement
// need a different mechanism entirely.

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type snapshotRecord[T any] struct {
	Index      uint64
	Generation uint64
	Value      T
}

type snapshotPayload[T any] struct {
	Capacity   int
	Generation uint64
	Records    []snapshotRecord[T]
}

// ExportOption configures Export.
type ExportOption func(*exportOptions)

type exportOptions struct {
	compress bool
}

// WithCompression zstd-compresses the exported stream.
func WithCompression() ExportOption {
	return func(o *exportOptions) { o.compress = true }
}

// Export writes every Occupied slot's (index, generation, value) to w.
// Like grow, it requires no outstanding references anywhere in the
// arena — the encoder must see a value set that can't change mid-walk
// and must not race a structural mutation.
func (p *Prison[T]) Export(w io.Writer, opts ...ExportOption) error {
	if p.activeRefs != 0 {
		return ErrAnyReferenceOutstanding
	}

	var eo exportOptions
	for _, o := range opts {
		o(&eo)
	}

	payload := snapshotPayload[T]{Capacity: len(p.slots), Generation: p.gen}
	for i := range p.slots {
		if p.slots[i].isFree() {
			continue
		}
		payload.Records = append(payload.Records, snapshotRecord[T]{
			Index:      uint64(i),
			Generation: p.slots[i].generation(),
			Value:      p.slots[i].val,
		})
	}

	dst := w
	if eo.compress {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("prison: creating zstd encoder: %w", err)
		}
		dst = enc
		if err := gob.NewEncoder(dst).Encode(payload); err != nil {
			_ = enc.Close()
			return fmt.Errorf("prison: encoding snapshot: %w", err)
		}
		return enc.Close()
	}

	if err := gob.NewEncoder(dst).Encode(payload); err != nil {
		return fmt.Errorf("prison: encoding snapshot: %w", err)
	}
	return nil
}

// Import reconstructs a Prison from a stream written by Export,
// auto-detecting zstd compression from the frame magic number so
// callers don't need to remember whether WithCompression was used.
// Recovered slots keep their original per-index generations (not the
// importing process's own generation counter), and the arena's gen is
// set to the snapshot's recorded maximum, so keys issued before the
// export remain correctly stale after the round trip.
func Import[T any](r io.Reader, opts ...Option) (*Prison[T], error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	if bytes.Equal(magic, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("prison: creating zstd decoder: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var payload snapshotPayload[T]
	if err := gob.NewDecoder(src).Decode(&payload); err != nil {
		return nil, fmt.Errorf("prison: decoding snapshot: %w", err)
	}

	p := WithCapacity[T](payload.Capacity, opts...)
	for _, rec := range payload.Records {
		p.unlinkFree(rec.Index)
		p.slots[rec.Index].makeOccupied(rec.Generation, rec.Value)
		p.occupied++
	}
	p.gen = payload.Generation
	return p, nil
}
