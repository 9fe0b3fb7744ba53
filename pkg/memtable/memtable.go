// Package memtable sketches the one point the surrounding log-structured
// engine would touch this module's core: a write buffer combining one
// SkipList with the Arena backing it. It owns no compaction, WAL, or
// flush-to-disk implementation; Flush is a caller-supplied hook.
package memtable

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ncw/directio"

	"github.com/runninghai/leveldb/internal/arch"
	"github.com/runninghai/leveldb/internal/arena"
	"github.com/runninghai/leveldb/internal/byterange"
	"github.com/runninghai/leveldb/internal/skiplist"
)

// entry is the skip list's key type for a memtable: a key/value pair
// ordered by key alone.
type entry struct {
	key   byterange.ByteRange
	value byterange.ByteRange
}

func compareEntries(a, b entry) int {
	return a.key.Compare(b.key)
}

// Flush is the hook MemTable.Flush runs, with an iterator over every entry
// in ascending key order and a wait group the implementation signals when
// durable. Add runs it once, when the memtable first fills to its capacity.
type Flush func(it *Iterator, flushed *sync.WaitGroup)

// MemTable is a memory table that stores key-value pairs in sorted order
// using a SkipList.
type MemTable struct {
	// seqNum is the sequence number at the time the memtable was created.
	// It is guaranteed to be <= the sequence number of any record written
	// to the memtable.
	seqNum   uint64
	capacity uint64
	skiplist *skiplist.SkipList[entry]

	// references tracks the number of readers or writers holding this
	// memtable. The active memtable always holds one reference itself;
	// it is released once the memtable has been flushed. The memtable
	// exists until the referencing readers release their own.
	references arch.AtomicInt

	// flushing indicates the memtable is full and no longer accepting
	// writes.
	flushing atomic.Bool

	flush Flush
}

// New returns an empty, active MemTable with the given byte capacity
// (rounded up to a direct-I/O block multiple, since a full memtable is
// destined to be written out with O_DIRECT by the surrounding engine)
// and creation-time sequence number.
func New(capacity uint64, seqNum uint64, flush Flush) *MemTable {
	m := &MemTable{
		seqNum:   seqNum,
		capacity: alignToBlockSize(capacity),
		skiplist: skiplist.New(compareEntries, arena.New(), skiplist.NewSource(int64(seqNum)+1)),
		flush:    flush,
	}
	m.references.Store(1)
	return m
}

func alignToBlockSize(size uint64) uint64 {
	if size < directio.BlockSize {
		return directio.BlockSize
	}
	if rem := size % directio.BlockSize; rem != 0 {
		size += directio.BlockSize - rem
	}
	return size
}

// Add inserts key/value. It returns ErrRecordExists if key is already
// present, or ErrMemtableFlushed if the memtable has begun flushing;
// callers should retry against a new memtable in that case.
func (m *MemTable) Add(key, value byterange.ByteRange) error {
	if m.flushing.Load() {
		return ErrMemtableFlushed
	}

	if err := m.skiplist.Insert(entry{key: key, value: value}); err != nil {
		if errors.Is(err, skiplist.ErrRecordExists) {
			return ErrRecordExists
		}
		return err
	}

	if m.skiplist.Arena().MemoryUsage() >= m.capacity {
		if m.flushing.CompareAndSwap(false, true) {
			m.Flush()
		}
	}
	return nil
}

// Get returns the value associated with key, if present.
func (m *MemTable) Get(key byterange.ByteRange) (byterange.ByteRange, bool) {
	it := skiplist.NewIterator(m.skiplist)
	it.Seek(entry{key: key})
	if it.Valid() && it.Key().key.Equal(key) {
		return it.Key().value, true
	}
	return byterange.ByteRange{}, false
}

// Iter returns a cursor over every entry in ascending key order.
func (m *MemTable) Iter() *Iterator {
	return &Iterator{it: skiplist.NewIterator(m.skiplist)}
}

// Flush triggers the caller-supplied Flush hook, either because Add
// observed the memtable full or because the embedding engine requested a
// preemptive flush. It releases this memtable's own reference once the
// hook signals completion.
func (m *MemTable) Flush() {
	var wg sync.WaitGroup
	wg.Add(1)
	go m.flush(m.Iter(), &wg)
	go func() {
		wg.Wait()
		m.references.Add(-1)
	}()
}

// Size returns the byte size of the memtable, including arena bookkeeping
// overhead.
func (m *MemTable) Size() uint64 {
	return m.skiplist.Arena().MemoryUsage()
}

// Reset clears the memtable's flushing state, gives it a fresh arena,
// skip list and flush hook, and restores the memtable's own single
// reference, so it can be reused once every prior reader has released
// its reference.
func (m *MemTable) Reset(seqNum uint64, flush Flush) error {
	if m.references.Load() > 0 {
		return ErrMemtableActive
	}

	m.seqNum = seqNum
	m.flush = flush
	m.flushing.Store(false)
	m.skiplist = skiplist.New(compareEntries, arena.New(), skiplist.NewSource(int64(seqNum)+1))
	m.references.Store(1)
	return nil
}

// IsActive reports whether any reader or writer still holds a reference
// to this memtable.
func (m *MemTable) IsActive() bool {
	return m.references.Load() != 0
}

// Iterator is a cursor over a MemTable's entries in ascending key order.
type Iterator struct {
	it *skiplist.Iterator[entry]
}

// SeekFirst positions the cursor at the smallest key.
func (it *Iterator) SeekFirst() { it.it.SeekFirst() }

// Valid reports whether the cursor is on a real entry.
func (it *Iterator) Valid() bool { return it.it.Valid() }

// Next advances to the next entry.
func (it *Iterator) Next() { it.it.Next() }

// Key returns the current entry's key.
func (it *Iterator) Key() byterange.ByteRange { return it.it.Key().key }

// Value returns the current entry's value.
func (it *Iterator) Value() byterange.ByteRange { return it.it.Key().value }
