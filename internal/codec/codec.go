// Package codec implements the little-endian fixed-width and unsigned
// LEB128 varint encodings used wherever keys and values cross a
// persistence boundary, plus the length-prefixed byte-range helper built
// on top of them.
package codec

import (
	"encoding/binary"

	"github.com/runninghai/leveldb/internal/byterange"
)

const (
	maxVarint32Bytes = 5
	maxVarint64Bytes = 10
)

// EncodeFixed32 writes v as 4 little-endian bytes into buf, which must be
// at least 4 bytes long.
func EncodeFixed32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// DecodeFixed32 reads 4 little-endian bytes from buf, which must be at
// least 4 bytes long.
func DecodeFixed32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// EncodeFixed64 writes v as 8 little-endian bytes into buf, which must be
// at least 8 bytes long.
func EncodeFixed64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// DecodeFixed64 reads 8 little-endian bytes from buf, which must be at
// least 8 bytes long.
func DecodeFixed64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

// AppendFixed32 appends v's 4 little-endian bytes to dst.
func AppendFixed32(dst []byte, v uint32) []byte {
	var buf [4]byte
	EncodeFixed32(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendFixed64 appends v's 8 little-endian bytes to dst.
func AppendFixed64(dst []byte, v uint64) []byte {
	var buf [8]byte
	EncodeFixed64(buf[:], v)
	return append(dst, buf[:]...)
}

// EncodeVarint32 writes v into buf as 1-5 bytes of unsigned LEB128 and
// returns the number of bytes written. buf must be at least 5 bytes long.
func EncodeVarint32(buf []byte, v uint32) int {
	return encodeVarint(buf, uint64(v))
}

// EncodeVarint64 writes v into buf as 1-10 bytes of unsigned LEB128 and
// returns the number of bytes written. buf must be at least 10 bytes long.
func EncodeVarint64(buf []byte, v uint64) int {
	return encodeVarint(buf, v)
}

func encodeVarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// VarintLength returns the number of bytes EncodeVarint64 would write for
// v.
func VarintLength(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarint32 appends v's LEB128 encoding to dst.
func AppendVarint32(dst []byte, v uint32) []byte {
	var buf [maxVarint32Bytes]byte
	n := EncodeVarint32(buf[:], v)
	return append(dst, buf[:n]...)
}

// AppendVarint64 appends v's LEB128 encoding to dst.
func AppendVarint64(dst []byte, v uint64) []byte {
	var buf [maxVarint64Bytes]byte
	n := EncodeVarint64(buf[:], v)
	return append(dst, buf[:n]...)
}

// DecodeVarint32 reads an unsigned LEB128 varint from p[:limit], rejecting
// any encoding that would take more than 5 bytes or read past limit. A
// fifth byte whose upper 4 bits are nonzero is accepted and masked to 32
// bits, consistent with the encoder's output for values that fit in 32
// bits. On success it returns the decoded value and the offset of the
// byte following the terminator, and ok is true. On failure it returns
// ok == false and does not indicate a position.
func DecodeVarint32(p []byte, limit int) (value uint32, pos int, ok bool) {
	v64, n, ok := decodeVarint(p, limit, maxVarint32Bytes)
	if !ok {
		return 0, 0, false
	}
	return uint32(v64), n, true
}

// DecodeVarint64 reads an unsigned LEB128 varint from p[:limit], rejecting
// any encoding that would take more than 10 bytes or read past limit.
func DecodeVarint64(p []byte, limit int) (value uint64, pos int, ok bool) {
	return decodeVarint(p, limit, maxVarint64Bytes)
}

func decodeVarint(p []byte, limit, maxBytes int) (value uint64, pos int, ok bool) {
	if limit > len(p) {
		limit = len(p)
	}
	var result uint64
	for i := 0; i < maxBytes; i++ {
		if i >= limit {
			return 0, 0, false
		}
		b := p[i]
		result |= uint64(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return result, i + 1, true
		}
	}
	return 0, 0, false
}

// AppendLengthPrefixed appends varint32(v.Len()) followed by v's bytes to
// dst.
func AppendLengthPrefixed(dst []byte, v byterange.ByteRange) []byte {
	dst = AppendVarint32(dst, uint32(v.Len()))
	return append(dst, v.Data()...)
}

// ReadLengthPrefixed reads a varint length L from input, verifies
// len(input) >= L, and returns the first L bytes as out along with the
// remainder of input with those bytes dropped. On failure, the returned
// remainder equals input unchanged and ok is false.
func ReadLengthPrefixed(input []byte) (out byterange.ByteRange, remainder []byte, ok bool) {
	length, n, ok := DecodeVarint32(input, len(input))
	if !ok {
		return byterange.ByteRange{}, input, false
	}
	rest := input[n:]
	if uint32(len(rest)) < length {
		return byterange.ByteRange{}, input, false
	}
	return byterange.FromBytes(rest[:length]), rest[length:], true
}
