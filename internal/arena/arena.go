// Package arena implements a bump allocator that owns a growing list of
// mmap'd slabs. Regions handed out by Allocate/AllocateAligned live until
// the Arena itself is dropped; there is no way to free an individual
// region. A skiplist.SkipList keeps a reference to one as the backing store
// for caller-built keys; the skip list's own nodes are ordinary Go heap
// values, not arena regions.
package arena

import (
	"unsafe"

	"github.com/runninghai/leveldb/internal/arch"
	"github.com/runninghai/leveldb/internal/mmap"
)

const (
	// BlockSize is the size of an ordinary slab.
	BlockSize = 4096

	// LargeObjectThreshold is the request size above which Allocate
	// bypasses the current slab and carves out a dedicated one, instead
	// of stranding the remainder of a BlockSize slab.
	LargeObjectThreshold = BlockSize / 4

	// Alignment is the alignment AllocateAligned guarantees:
	// max(pointer_size, 8), which is 8 on every architecture this module
	// targets (arch.PointerSize is 4 or 8).
	Alignment = 8
)

// slabOverhead is the fixed bookkeeping constant K added to the usage
// counter on every new slab: one pointer's width on the host
// architecture. The exact value is a convention, not a correctness
// property: callers should check monotonicity and a lower bound, not an
// exact figure.
var slabOverhead = arch.PointerSize

// Arena is a bump allocator. The zero value is ready to use. An Arena must
// not be copied after first use, and all allocating methods must be called
// under the same external serialization the owning skiplist's writer uses.
type Arena struct {
	p     []byte // unallocated suffix of the slab currently being bumped
	slabs [][]byte
	usage arch.AtomicUint
}

// New returns an empty Arena with no slabs committed yet.
func New() *Arena {
	return &Arena{}
}

// Allocate returns a region of exactly n bytes, alignment unspecified.
// Fails only on host out-of-memory, which is fatal.
func (a *Arena) Allocate(n int) []byte {
	if n <= 0 {
		panic("arena: allocate of non-positive size")
	}
	if n <= len(a.p) {
		return a.bump(n)
	}
	return a.allocateFallback(n)
}

// AllocateAligned returns a region of n bytes aligned to Alignment.
func (a *Arena) AllocateAligned(n int) []byte {
	if n <= 0 {
		panic("arena: allocate of non-positive size")
	}
	if base := a.currentBase(); base != 0 {
		pad := padding(base, Alignment)
		if pad+n <= len(a.p) {
			a.p = a.p[pad:]
			return a.bump(n)
		}
	}
	// Go straight to the fallback, not Allocate: Allocate's own fast path
	// reuses a.p whenever n <= len(a.p), which can hold even though
	// pad+n doesn't, handing back the same stale, misaligned address we
	// just rejected above. Fresh slabs (and dedicated large-object
	// slabs) come straight from the host allocator, which hands out
	// page-aligned memory — well beyond what Alignment requires — so the
	// fallback's unaligned path satisfies the contract here regardless.
	return a.allocateFallback(n)
}

// allocateFallback commits a new slab (dedicated, for large objects, or
// an ordinary BlockSize slab otherwise) and bumps out of it. It never
// consults the current a.p, so it is safe to call from a path that has
// already determined a.p cannot satisfy the request.
func (a *Arena) allocateFallback(n int) []byte {
	if n > LargeObjectThreshold {
		return a.allocateDedicated(n)
	}
	a.newSlab(BlockSize)
	return a.bump(n)
}

// MemoryUsage returns a non-decreasing approximation of bytes committed.
// Safe to call concurrently with allocation running under the caller's
// external writer serialization.
func (a *Arena) MemoryUsage() uint64 {
	return uint64(a.usage.Load())
}

// Close releases every slab back to the OS. The Arena must not be used
// afterward.
func (a *Arena) Close() error {
	var firstErr error
	for _, s := range a.slabs {
		if err := mmap.Free(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.slabs = nil
	a.p = nil
	return firstErr
}

func (a *Arena) bump(n int) []byte {
	buf := a.p[:n:n]
	a.p = a.p[n:]
	return buf
}

func (a *Arena) allocateDedicated(n int) []byte {
	buf := a.newRawSlab(n)
	a.slabs = append(a.slabs, buf)
	a.usage.Add(arch.UintToArchSize(uint(n + slabOverhead)))
	// mmap may round the slab up to a page multiple; slice back down so
	// every Allocate caller sees exactly n bytes, matching the bump path.
	return buf[:n:n]
}

func (a *Arena) newSlab(size int) {
	buf := a.newRawSlab(size)
	a.slabs = append(a.slabs, buf)
	a.p = buf
	a.usage.Add(arch.UintToArchSize(uint(size + slabOverhead)))
}

func (a *Arena) newRawSlab(size int) []byte {
	buf, err := mmap.New(size)
	if err != nil {
		panic(err)
	}
	return buf
}

func (a *Arena) currentBase() uintptr {
	if len(a.p) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.p[0]))
}

// padding returns the number of bytes needed to advance base to the next
// multiple of align, which must be a power of two.
func padding(base uintptr, align int) int {
	mask := uintptr(align - 1)
	return int((-base) & mask)
}
