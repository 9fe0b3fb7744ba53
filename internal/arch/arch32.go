//go:build 386 || arm

package arch

import "sync/atomic"

type (
	AtomicInt  = atomic.Int32
	AtomicUint = atomic.Uint32
)

// PointerSize is the width of a pointer on this architecture, in bytes.
// Callers use it to size per-slab bookkeeping overhead without hardcoding
// a word width that only holds on 64-bit targets.
const PointerSize = 4

func IntToArchSize(n int) int32 {
	return int32(n)
}

func UintToArchSize(n uint) uint32 {
	return uint32(n)
}
