package app

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// CommitStore keeps two caches over the committed state: DeliverTx writes
// go to one and are persisted on Commit, CheckTx writes go to the other
// and are dropped on Commit.
type CommitStore struct {
	committed lockbox.CommitKVStore
	deliver   lockbox.KVCacheWrap
	check     lockbox.KVCacheWrap
}

// NewCommitStore loads the latest version of kv, panicking on failure.
func NewCommitStore(kv lockbox.CommitKVStore) *CommitStore {
	if err := kv.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: kv}
	cs.reopen()
	return cs
}

func (cs *CommitStore) reopen() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the last committed height and hash.
func (cs *CommitStore) CommitInfo() (lockbox.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes the deliver cache, persists a new version and opens fresh
// caches over it.
func (cs *CommitStore) Commit() (lockbox.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return lockbox.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reopen()
	return id, nil
}

// CheckStore is the store for CheckTx.
func (cs *CommitStore) CheckStore() lockbox.CacheableKVStore {
	return cs.check
}

// DeliverStore is the store for DeliverTx.
func (cs *CommitStore) DeliverStore() lockbox.CacheableKVStore {
	return cs.deliver
}

// keys under "_lb:" belong to the application itself
var chainIDKey = []byte("_lb:chainID")

func mustLoadChainID(kv lockbox.ReadOnlyKVStore) string {
	raw, err := kv.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID stores the chain id once. A second call fails.
func saveChainID(kv lockbox.KVStore, chainID string) error {
	if !lockbox.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(kv.Set(chainIDKey, []byte(chainID)), "save chain id")
}
