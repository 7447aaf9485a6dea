// Package record implements the physical storage primitives the rest of the
// engine builds on: a fixed-size mutable Record and the block-aligned File
// that holds many of them. Every other store (node, relationship, label,
// property, dynamic) is a File of one record size; the codec package turns
// typed graph entities into Records and back.
package record

// Record is a mutable, fixed-size byte buffer carrying the physical index
// at which it lives (or will live, for a record not yet written) in its
// File. Its size never changes after construction.
type Record struct {
	data []byte
	Idx  int
}

// New wraps data as a Record at physical index idx. The caller retains no
// alias to data; New copies it so later mutation through Override cannot
// be observed by the original slice.
func New(data []byte, idx int) *Record {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Record{data: buf, Idx: idx}
}

// Empty returns a zero-filled Record of size bytes at physical index idx.
func Empty(size, idx int) *Record {
	return &Record{data: make([]byte, size), Idx: idx}
}

// Size returns the fixed size of the record in bytes.
func (r *Record) Size() int { return len(r.data) }

// Bytes returns the record's backing bytes. Callers must not retain the
// slice past the next Override call.
func (r *Record) Bytes() []byte { return r.data }

// Override writes data in place starting at offset. It panics if
// offset+len(data) exceeds the record size, since that would silently grow
// or corrupt neighbouring fields — every caller in this module computes
// offsets from the fixed layouts in package codec, so this should never
// trigger outside a codec bug.
func (r *Record) Override(offset int, data []byte) {
	if offset+len(data) > len(r.data) {
		panic("record: override out of bounds")
	}
	copy(r.data[offset:offset+len(data)], data)
}

// SetIdx updates the physical index the Record is associated with, used
// when a Record built before allocation is later assigned its real index.
func (r *Record) SetIdx(idx int) { r.Idx = idx }
