package store

import (
	"github.com/iov-one/lockbox/errors"
)

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	models []Model
	pos    int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator iterates over models in the given order.
func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

// Valid returns true while a model can be read.
func (s *SliceIterator) Valid() bool {
	return s.pos < len(s.models)
}

// Next moves to the following model.
func (s *SliceIterator) Next() error {
	if s.pos >= len(s.models) {
		return errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	s.pos++
	return nil
}

func (s *SliceIterator) model() Model {
	if s.pos >= len(s.models) {
		panic("slice iterator is done")
	}
	return s.models[s.pos]
}

// Key of the current model.
func (s *SliceIterator) Key() []byte { return s.model().Key }

// Value of the current model.
func (s *SliceIterator) Value() []byte { return s.model().Value }

// Close drops the models.
func (s *SliceIterator) Close() {
	s.models = nil
}

// EmptyKVStore holds nothing and ignores writes. Caches use it as the
// bottom layer of an in-memory store.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a single recorded write.
type Op struct {
	key    []byte
	value  []byte
	delete bool
}

// Apply replays the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// SetOp records a set of key to value.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records a delete of key.
func DelOp(key []byte) Op {
	return Op{key: key, delete: true}
}

// NonAtomicBatch queues writes and replays them one by one on Write. A
// failing write leaves the earlier ones applied, so it only backs
// in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set queues a set.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete queues a delete.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays the queue and empties it.
func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return err
		}
	}
	b.ops = nil
	return nil
}

// Reset drops the queue.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// ShowOps returns the queued writes.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
