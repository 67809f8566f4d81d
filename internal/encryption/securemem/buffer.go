// Package securemem provides protected buffers for transient key material and
// plaintext. Buffers live in memory locked against swapping and are wiped in
// place on release, bounding the window in which raw secrets are resident.
package securemem

import (
	"github.com/awnumar/memguard"
)

// Buffer holds sensitive bytes in a memguard locked allocation.
// It must be destroyed after use; Destroy wipes the contents in place.
type Buffer struct {
	lb *memguard.LockedBuffer
}

// NewBuffer allocates an n-byte protected buffer.
func NewBuffer(n int) *Buffer {
	return &Buffer{lb: memguard.NewBuffer(n)}
}

// FromCopy copies src into a new protected buffer, leaving src intact.
// The caller remains responsible for wiping src if it is sensitive.
func FromCopy(src []byte) *Buffer {
	cp := make([]byte, len(src))
	copy(cp, src)
	// NewBufferFromBytes moves cp into locked memory and wipes cp.
	return &Buffer{lb: memguard.NewBufferFromBytes(cp)}
}

// Bytes returns the protected contents. The slice is only valid until Destroy.
func (b *Buffer) Bytes() []byte {
	return b.lb.Bytes()
}

// Destroy wipes the buffer contents and releases the allocation.
// Safe to call more than once.
func (b *Buffer) Destroy() {
	b.lb.Destroy()
}

// WithCopy runs fn with a protected copy of src and guarantees the copy is
// wiped on every exit path, including panics. Use this whenever raw key bytes
// are materialized outside the key chain's own storage.
func WithCopy(src []byte, fn func(key []byte) error) error {
	buf := FromCopy(src)
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// Wipe overwrites a byte slice with zeros in place. For slices the engine
// owns directly rather than ones backed by locked memory.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
