//go:build amd64 || arm64

package arch

import "sync/atomic"

type (
	AtomicInt  = atomic.Int64
	AtomicUint = atomic.Uint64
)

// PointerSize is the width of a pointer on this architecture, in bytes.
// Callers use it to size per-slab bookkeeping overhead without hardcoding
// a word width that only holds on 32-bit targets.
const PointerSize = 8

func IntToArchSize(n int) int64 {
	return int64(n)
}

func UintToArchSize(n uint) uint64 {
	return uint64(n)
}
