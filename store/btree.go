package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives a plain KVStore a btree cache layer.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that writes to the wrapped store through a batch.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store kept entirely in memory.
func MemStore() CacheableKVStore {
	base := EmptyKVStore{}
	return NewBTreeCacheWrap(base, base.NewBatch(), nil)
}

// ShowOpser exposes the operations recorded by a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store that records every write.
func LogableStore() (CacheableKVStore, ShowOpser) {
	base := EmptyKVStore{}
	log := NewNonAtomicBatch(base)
	return NewBTreeCacheWrap(base, log, nil), log
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. Writes reach the parent only through the batch, on Write.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap returns a cache over kv flushing into batch. Nested
// caches pass their free list down so nodes are shared.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		parent:  kv,
		batch:   batch,
	}
}

// CacheWrap stacks another cache on this one.
func (c *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

// NewBatch returns a batch writing into this cache.
func (c *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes pending writes to the parent and empties the cache.
func (c *BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.reset()
	return err
}

// Discard drops pending writes. A Write after Discard does nothing.
func (c *BTreeCacheWrap) Discard() {
	if r, ok := c.batch.(interface{ Reset() }); ok {
		r.Reset()
	} else {
		c.batch = NewNonAtomicBatch(EmptyKVStore{})
	}
	c.reset()
}

// reset hands every node back to the free list.
func (c *BTreeCacheWrap) reset() {
	for c.pending.Len() > 0 {
		c.pending.DeleteMin()
	}
}

// Set records value for key.
func (c *BTreeCacheWrap) Set(key, value []byte) error {
	c.pending.ReplaceOrInsert(&entry{key: key, value: value})
	return c.batch.Set(key, value)
}

// Delete hides key, including any value the parent holds.
func (c *BTreeCacheWrap) Delete(key []byte) error {
	c.pending.ReplaceOrInsert(&entry{key: key, deleted: true})
	return c.batch.Delete(key)
}

func (c *BTreeCacheWrap) lookup(key []byte) *entry {
	if item := c.pending.Get(&entry{key: key}); item != nil {
		return item.(*entry)
	}
	return nil
}

// Get returns the pending value, falling back to the parent.
func (c *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e := c.lookup(key); e != nil {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

// Has reports whether Get would return a value.
func (c *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e := c.lookup(key); e != nil {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

// Iterator walks [start, end) in ascending key order.
func (c *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.snapshot(start, end, false), under, false)
}

// ReverseIterator walks [start, end) in descending key order.
func (c *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.snapshot(start, end, true), under, true)
}

// snapshot copies the pending entries within [start, end). Nil bounds are
// open.
func (c *BTreeCacheWrap) snapshot(start, end []byte, desc bool) []*entry {
	var out []*entry
	collect := func(item btree.Item) bool {
		out = append(out, item.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.pending.Ascend(collect)
	case start == nil:
		c.pending.AscendLessThan(&entry{key: end}, collect)
	case end == nil:
		c.pending.AscendGreaterOrEqual(&entry{key: start}, collect)
	default:
		c.pending.AscendRange(&entry{key: start}, &entry{key: end}, collect)
	}
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// entry is a pending write. A deleted entry shadows the parent's value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = (*entry)(nil)

// Less orders entries by key.
func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}
