package store

import "github.com/iov-one/lockbox"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = lockbox.ReadOnlyKVStore
	SetDeleter       = lockbox.SetDeleter
	KVStore          = lockbox.KVStore
	Batch            = lockbox.Batch
	Iterator         = lockbox.Iterator
	CacheableKVStore = lockbox.CacheableKVStore
	KVCacheWrap      = lockbox.KVCacheWrap
	CommitKVStore    = lockbox.CommitKVStore
	CommitID         = lockbox.CommitID
	Model            = lockbox.Model
)

// Pair constructs a model from a key-value pair
var Pair = lockbox.Pair
