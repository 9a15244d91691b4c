// Package iavl persists the ledger in a versioned iavl tree on goleveldb.
// Every commit yields a new version whose root hash is the app hash.
package iavl

import (
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes cached in memory.
	DefaultCacheSize = 10000
	// DefaultHistorySize is the number of versions kept on disk.
	DefaultHistorySize = 10
)

// CommitStore is the root store of a node.
type CommitStore struct {
	tree *iavl.MutableTree
	// keep is the number of versions kept, all of them when zero
	keep int64
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens, or creates, the goleveldb database name in dir.
func NewCommitStore(dir, name string) *CommitStore {
	return NewCommitStoreFromDB(dbm.NewDB(name, dbm.GoLevelDBBackend, dir))
}

// NewMemCommitStore keeps the tree in memory only.
func NewMemCommitStore() *CommitStore {
	return NewCommitStoreFromDB(dbm.NewMemDB())
}

func NewCommitStoreFromDB(db dbm.DB) *CommitStore {
	return NewCommitStoreFromTree(iavl.NewMutableTree(db, DefaultCacheSize))
}

// NewCommitStoreFromTree uses a tree that may already be loaded.
func NewCommitStoreFromTree(tree *iavl.MutableTree) *CommitStore {
	return &CommitStore{tree: tree, keep: DefaultHistorySize}
}

// Get reads the last committed version.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.GetVersioned(key, s.tree.Version())
	return value, nil
}

// Commit saves the working tree as the next version and prunes the
// version falling out of the history.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	if old := version - s.keep; s.keep > 0 && old > 0 && s.tree.VersionExists(old) {
		if err := s.tree.DeleteVersion(old); err != nil {
			return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", old, err)
		}
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the newest version saved to disk.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return nil
}

// LatestVersion is the height and hash of the last commit.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// Adapter writes straight into the working tree, persisted by the next
// Commit.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// CacheWrap stages writes on top of the working tree.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, value := a.tree.Get(key)
	return value, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch applies writes one by one. The tree only persists on Commit,
// so a partial batch is never saved on its own.
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

// collect reads the whole range up front. The tree must not change while
// it is walked.
func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(models)
}
