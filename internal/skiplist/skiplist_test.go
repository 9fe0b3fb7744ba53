package skiplist

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/runninghai/leveldb/internal/arena"
)

var (
	errOutOfOrder          = errors.New("reader observed a non-increasing key sequence")
	errIncompleteFinalScan = errors.New("final scan after writer completion did not observe every key")
)

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func newIntList() *SkipList[int] {
	return New(intCompare, arena.New(), NewSource(1))
}

func drain(list *SkipList[int]) []int {
	var got []int
	it := NewIterator(list)
	for it.SeekFirst(); it.Valid(); it.Next() {
		got = append(got, it.Key())
	}
	return got
}

func TestInsertOrderIsAscending(t *testing.T) {
	list := newIntList()
	for _, k := range []int{5, 1, 4, 2, 3} {
		require.NoError(t, list.Insert(k))
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, drain(list))
}

func TestMembership(t *testing.T) {
	list := newIntList()
	keys := []int{5, 1, 4, 2, 3}
	for _, k := range keys {
		require.NoError(t, list.Insert(k))
	}
	for _, k := range keys {
		require.True(t, list.Contains(k))
	}
	require.False(t, list.Contains(6))
	require.False(t, list.Contains(0))
}

func TestInsertDuplicateReturnsErrRecordExists(t *testing.T) {
	list := newIntList()
	require.NoError(t, list.Insert(1))
	require.ErrorIs(t, list.Insert(1), ErrRecordExists)
}

func TestSeek(t *testing.T) {
	list := newIntList()
	for _, k := range []int{10, 20, 30} {
		require.NoError(t, list.Insert(k))
	}

	it := NewIterator(list)
	it.Seek(15)
	require.True(t, it.Valid())
	require.Equal(t, 20, it.Key())

	it.Seek(30)
	require.True(t, it.Valid())
	require.Equal(t, 30, it.Key())

	it.Seek(31)
	require.False(t, it.Valid())
}

func TestSeekLastAndPrev(t *testing.T) {
	list := newIntList()
	for _, k := range []int{10, 20, 30} {
		require.NoError(t, list.Insert(k))
	}

	it := NewIterator(list)
	it.SeekLast()
	require.True(t, it.Valid())
	require.Equal(t, 30, it.Key())

	it.Prev()
	require.True(t, it.Valid())
	require.Equal(t, 20, it.Key())

	it.Prev()
	require.True(t, it.Valid())
	require.Equal(t, 10, it.Key())

	it.Prev()
	require.False(t, it.Valid())
}

func TestPrevNextSymmetry(t *testing.T) {
	list := newIntList()
	for _, k := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, list.Insert(k))
	}

	it := NewIterator(list)
	it.Seek(2)
	require.True(t, it.Valid())
	key := it.Key()

	it.Next()
	require.True(t, it.Valid())
	it.Prev()
	require.True(t, it.Valid())
	require.Equal(t, key, it.Key())
}

func TestSeekFirstOnEmptyListIsInvalid(t *testing.T) {
	list := newIntList()
	it := NewIterator(list)
	it.SeekFirst()
	require.False(t, it.Valid())
	it.SeekLast()
	require.False(t, it.Valid())
}

func TestRandomHeightRespectsMaxHeight(t *testing.T) {
	list := newIntList()
	for h := 0; h < 10000; h++ {
		height := list.randomHeight()
		require.GreaterOrEqual(t, height, 1)
		require.LessOrEqual(t, height, MaxHeight)
	}
}

// TestConcurrentReadSafety inserts keys 1..N in random order from a single
// writer goroutine while R reader goroutines repeatedly scan the list
// start to end. Every reader must observe a strictly increasing sequence
// at all times, and once the writer has finished, a reader's next full
// scan must observe exactly {1..N}.
func TestConcurrentReadSafety(t *testing.T) {
	const n = 2000
	const readers = 8

	list := newIntList()
	keys := rand.Perm(n)
	for i := range keys {
		keys[i]++
	}

	var g errgroup.Group
	done := make(chan struct{})

	for r := 0; r < readers; r++ {
		g.Go(func() error {
			for {
				// Check for writer completion before starting a scan, not
				// after: a scan that straddles the writer's last insert
				// could under-count even though done is closed by the
				// time it finishes.
				select {
				case <-done:
					return scanExactly(list, n)
				default:
				}
				if err := scanIncreasing(list); err != nil {
					return err
				}
			}
		})
	}

	g.Go(func() error {
		for _, k := range keys {
			if err := list.Insert(k); err != nil {
				return err
			}
		}
		close(done)
		return nil
	})

	require.NoError(t, g.Wait())
	require.Equal(t, n, len(drain(list)))
}

func scanIncreasing(list *SkipList[int]) error {
	last := -1
	it := NewIterator(list)
	for it.SeekFirst(); it.Valid(); it.Next() {
		k := it.Key()
		if k <= last {
			return errOutOfOrder
		}
		last = k
	}
	return nil
}

func scanExactly(list *SkipList[int], n int) error {
	last := -1
	count := 0
	it := NewIterator(list)
	for it.SeekFirst(); it.Valid(); it.Next() {
		k := it.Key()
		if k <= last {
			return errOutOfOrder
		}
		last = k
		count++
	}
	if count != n {
		return errIncompleteFinalScan
	}
	return nil
}
