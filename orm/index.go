package orm

import (
	"bytes"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Index is a secondary index over the objects of a bucket.
type Index interface {
	lockbox.QueryHandler

	Name() string

	// Update moves the index entry of an object from prev to next. A nil
	// prev is an insert, a nil next a delete. Both must share a key.
	Update(db lockbox.KVStore, prev Object, next Object) error

	// Keys returns the primary keys indexed under value.
	Keys(db lockbox.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer returns the index value of an object. A nil value leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// compactIndex stores all primary keys of one index value under a single
// store key: the key itself for a unique index, a MultiRef otherwise. It
// suits indexes with few objects per value.
type compactIndex struct {
	name    string
	prefix  []byte
	unique  bool
	indexer Indexer
	dbKey   func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex returns an index named name. dbKey maps a primary key to the
// store key of the object, for query results.
func NewIndex(name string, indexer Indexer, unique bool, dbKey func([]byte) []byte) Index {
	return compactIndex{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		unique:  unique,
		indexer: indexer,
		dbKey:   dbKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

func (i compactIndex) Update(db lockbox.KVStore, prev Object, next Object) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "index update without objects")
	}
	if prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()) {
		return errors.Wrap(errors.ErrHuman, "primary key of an object cannot change")
	}

	var from, to []byte
	var err error
	if prev != nil {
		if from, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if to, err = i.indexer(next); err != nil {
			return err
		}
	}
	if prev != nil && next != nil && bytes.Equal(from, to) {
		return nil
	}

	if from != nil {
		if err := i.remove(db, from, prev.Key()); err != nil {
			return err
		}
	}
	if to != nil {
		return i.add(db, to, next.Key())
	}
	return nil
}

func (i compactIndex) add(db lockbox.KVStore, value []byte, pk []byte) error {
	key := joinKey(i.prefix, value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(key, pk)
	}

	refs, err := loadRefs(cur)
	if err != nil {
		return err
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return saveRefs(db, key, refs)
}

func (i compactIndex) remove(db lockbox.KVStore, value []byte, pk []byte) error {
	key := joinKey(i.prefix, value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrState, "index %s points to another object", i.name)
		}
		return db.Delete(key)
	}

	refs, err := loadRefs(cur)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	return saveRefs(db, key, refs)
}

func loadRefs(raw []byte) (*MultiRef, error) {
	var refs MultiRef
	if err := lockbox.Unmarshal(raw, &refs); err != nil {
		return nil, err
	}
	return &refs, nil
}

// saveRefs writes refs under key, deleting the key once refs is empty.
func saveRefs(db lockbox.KVStore, key []byte, refs *MultiRef) error {
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	raw, err := lockbox.Marshal(refs)
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

// pks decodes a stored index entry into primary keys.
func (i compactIndex) pks(raw []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{raw}, nil
	}
	refs, err := loadRefs(raw)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

func (i compactIndex) Keys(db lockbox.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(joinKey(i.prefix, value))
	if err != nil || raw == nil {
		return nil, err
	}
	return i.pks(raw)
}

// Query returns the objects indexed under data, or under any value
// starting with data for a prefix query.
func (i compactIndex) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	var pks [][]byte
	switch mod {
	case lockbox.KeyQueryMod:
		found, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		pks = found
	case lockbox.PrefixQueryMod:
		entries, err := QueryPrefix(db, joinKey(i.prefix, data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			found, err := i.pks(e.Value)
			if err != nil {
				return nil, err
			}
			pks = append(pks, found...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}

	keys := make([][]byte, len(pks))
	for n, pk := range pks {
		keys[n] = i.dbKey(pk)
	}
	return getModels(db, keys...)
}
