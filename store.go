package lockbox

// ReadOnlyKVStore reads keys and ranges. Nil keys are not allowed.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written to while the iterator is used.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range as Iterator, last key first.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter writes single keys. Stores and batches both implement it.
// Keys and values passed in must not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them together.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		key, value := it.Key(), it.Value()
//	}
type Iterator interface {
	// Valid is false once the range is exhausted, and stays false.
	Valid() bool
	// Next advances the cursor. It returns errors.ErrIteratorDone when the
	// iterator is not Valid.
	Next() error
	// Key and Value panic when the iterator is not Valid. The returned
	// slices must not be modified.
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stage writes in a cache wrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes on top of a parent store. Reads see the staged
// writes. Write applies them to the parent and Discard drops them; a wrap
// can be wrapped again.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is a versioned store persisted on Commit.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap

	// Commit persists the next version.
	Commit() (CommitID, error)
	// LoadLatestVersion opens the newest complete version on disk.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID names a committed version by height and root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
