package skiplist

// Iterator is a cursor over a SkipList's level-0 chain. Construct one with
// NewIterator; the zero value has no list and must not be used. A new
// iterator is not positioned on anything valid; call SeekFirst, SeekLast,
// or Seek before reading. All methods are safe to call concurrently with a
// writer's Insert calls into the same list, and with other iterators.
type Iterator[K any] struct {
	list *SkipList[K]
	cur  *node[K]
}

// NewIterator returns an iterator over list. It starts invalid (Valid
// reports false and Next panics) until one of the Seek methods is called.
func NewIterator[K any](list *SkipList[K]) *Iterator[K] {
	return &Iterator[K]{list: list}
}

// Valid reports whether the cursor is on a real entry.
func (it *Iterator[K]) Valid() bool {
	return it.cur != nil && it.cur != it.list.head
}

// Key returns the current entry's key. Valid must be true.
func (it *Iterator[K]) Key() K {
	if !it.Valid() {
		panic("skiplist: Key called on an invalid iterator")
	}
	return it.cur.key
}

// Next advances to the level-0 successor. Valid must be true.
func (it *Iterator[K]) Next() {
	if !it.Valid() {
		panic("skiplist: Next called on an invalid iterator")
	}
	it.cur = it.cur.loadNext(0)
}

// Prev moves to the greatest entry with a key strictly less than the
// current one, or invalidates the cursor if none exists. Valid must be
// true.
func (it *Iterator[K]) Prev() {
	if !it.Valid() {
		panic("skiplist: Prev called on an invalid iterator")
	}
	prev := it.list.findLT(it.cur.key)
	if prev == it.list.head {
		it.cur = nil
		return
	}
	it.cur = prev
}

// Seek positions the cursor at the least key >= target, or invalidates
// it if none exists.
func (it *Iterator[K]) Seek(target K) {
	it.cur = it.list.findGE(target, nil)
}

// SeekFirst positions the cursor at the smallest key in the list.
func (it *Iterator[K]) SeekFirst() {
	it.cur = it.list.head.loadNext(0)
}

// SeekLast positions the cursor at the largest key in the list, or
// invalidates it if the list is empty.
func (it *Iterator[K]) SeekLast() {
	last := it.list.findLast()
	if last == it.list.head {
		it.cur = nil
		return
	}
	it.cur = last
}
