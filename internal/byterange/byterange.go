// Package byterange implements an immutable, non-owning view over
// externally-owned bytes, matching the value type the codec and skiplist
// packages pass around in practice instead of copying keys and values.
package byterange

import "bytes"

// ByteRange is a borrowed (pointer, length) view. The zero value is the
// empty range. A ByteRange never outlives the storage it was constructed
// from; callers that need an owned copy use ToOwned.
type ByteRange struct {
	data []byte
}

// Empty returns the empty ByteRange.
func Empty() ByteRange {
	return ByteRange{}
}

// FromBytes returns a ByteRange borrowing b's storage. b must outlive the
// returned ByteRange.
func FromBytes(b []byte) ByteRange {
	return ByteRange{data: b}
}

// FromString returns a ByteRange over a fresh copy of s's bytes; it does
// not borrow s's storage.
func FromString(s string) ByteRange {
	return ByteRange{data: []byte(s)}
}

// FromCString returns a ByteRange over b, truncated at the first zero byte,
// mirroring a null-terminated C-style byte sequence whose length is
// determined by scanning for the terminator.
func FromCString(b []byte) ByteRange {
	for i, c := range b {
		if c == 0 {
			return ByteRange{data: b[:i]}
		}
	}
	return ByteRange{data: b}
}

// Data returns the borrowed bytes. The caller must not retain it beyond
// the lifetime of the storage the ByteRange was constructed from.
func (r ByteRange) Data() []byte {
	return r.data
}

// Len returns the number of bytes in the range.
func (r ByteRange) Len() int {
	return len(r.data)
}

// Empty reports whether the range has zero length.
func (r ByteRange) Empty() bool {
	return len(r.data) == 0
}

// At returns the byte at index i. i must be < Len(); out-of-range access
// is a programmer error and panics.
func (r ByteRange) At(i int) byte {
	if i < 0 || i >= len(r.data) {
		panic("byterange: index out of range")
	}
	return r.data[i]
}

// Clear resets the view to empty. It does not affect the backing storage.
func (r *ByteRange) Clear() {
	r.data = nil
}

// DropPrefix advances the view past its first k bytes. k must be <= Len().
func (r *ByteRange) DropPrefix(k int) {
	if k < 0 || k > len(r.data) {
		panic("byterange: drop_prefix beyond range")
	}
	r.data = r.data[k:]
}

// ToOwned returns a freshly allocated copy of the range's bytes.
func (r ByteRange) ToOwned() []byte {
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// Compare returns a lexicographic 3-way comparison, with ties on a common
// prefix broken by the shorter range sorting first.
func (r ByteRange) Compare(o ByteRange) int {
	return bytes.Compare(r.data, o.data)
}

// StartsWith reports whether r begins with x's bytes.
func (r ByteRange) StartsWith(x ByteRange) bool {
	return bytes.HasPrefix(r.data, x.data)
}

// Equal reports content equality.
func (r ByteRange) Equal(o ByteRange) bool {
	return bytes.Equal(r.data, o.data)
}

// Compare is a package-level comparator matching compare.Compare[ByteRange],
// convenient for instantiating a generic SkipList over ByteRange keys.
func Compare(a, b ByteRange) int {
	return a.Compare(b)
}
