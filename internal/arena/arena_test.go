package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocateDisjointAndBounded(t *testing.T) {
	a := New()
	var regions [][]byte
	const n = 64
	for i := 0; i < 40; i++ {
		regions = append(regions, a.Allocate(n))
	}
	for i, r := range regions {
		for j, s := range regions {
			if i == j {
				continue
			}
			require.False(t, overlaps(r, s), "regions %d and %d overlap", i, j)
		}
	}
	require.LessOrEqual(t, a.MemoryUsage(), uint64(40*n)+2*BlockSize)
}

func TestAllocateLargeObjectGetsDedicatedSlab(t *testing.T) {
	a := New()
	small := a.Allocate(16)
	big := a.Allocate(LargeObjectThreshold + 1)
	require.Len(t, big, LargeObjectThreshold+1)

	// The dedicated slab must not disturb the bump pointer: a subsequent
	// small allocation should still land adjacent to the first.
	next := a.Allocate(16)
	require.True(t, adjacent(small, next), "dedicated large allocation disturbed the bump pointer")
}

func TestAllocateAlignedIsAligned(t *testing.T) {
	a := New()
	for i := 0; i < 50; i++ {
		// Throw off alignment with odd-sized unaligned allocations first.
		a.Allocate(3)
		buf := a.AllocateAligned(24)
		addr := addrOf(buf)
		require.Zero(t, addr%Alignment, "AllocateAligned returned unaligned address")
	}
}

func TestMemoryUsageMonotonic(t *testing.T) {
	a := New()
	var prev uint64
	for i := 0; i < 200; i++ {
		a.Allocate(17)
		cur := a.MemoryUsage()
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestScenarioTwoSlabs(t *testing.T) {
	a := New()
	first := a.Allocate(1)
	second := a.Allocate(BlockSize)
	require.False(t, overlaps(first, second))
	require.GreaterOrEqual(t, a.MemoryUsage(), uint64(2*BlockSize+2*slabOverhead))
}

// TestAllocateAlignedFallbackDoesNotReuseStaleRemainder reproduces a case
// where the aligned fast path rejects the current slab's remainder (not
// enough room after padding) but a naive fallback to Allocate would
// still take Allocate's own unrelated fast path and hand back that same
// unaligned remainder.
func TestAllocateAlignedFallbackDoesNotReuseStaleRemainder(t *testing.T) {
	a := New()
	a.Allocate(1024)
	a.Allocate(1024)
	a.Allocate(1024)
	a.Allocate(1009) // bump pointer now sits 4081 bytes into the slab

	buf := a.AllocateAligned(9)
	require.Zero(t, addrOf(buf)%Alignment, "AllocateAligned returned unaligned address")
}

func TestAllocateZeroPanics(t *testing.T) {
	a := New()
	require.Panics(t, func() { a.Allocate(0) })
	require.Panics(t, func() { a.AllocateAligned(0) })
}

func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart, aEnd := addrOf(a), addrOf(a)+uintptr(len(a))
	bStart, bEnd := addrOf(b), addrOf(b)+uintptr(len(b))
	return aStart < bEnd && bStart < aEnd
}

func adjacent(a, b []byte) bool {
	return addrOf(a)+uintptr(len(a)) == addrOf(b)
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
