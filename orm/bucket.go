/*
Package orm stores typed objects in prefixed sections of a KVStore.

A Bucket holds one type of object under "<name>:<key>". It may carry
secondary indexes that are kept in sync on every Save and Delete, and named
sequences for generating keys. Buckets register themselves as query
handlers.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// SeqID is the name of the default key sequence of a bucket.
const SeqID = "id"

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`)

// Bucket is a prefixed section of the store holding objects cloned from
// proto. Extensions embed it in a type safe wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ lockbox.QueryHandler = Bucket{}

// NewBucket returns a bucket for objects like proto. It panics on a name
// that is not 3 to 10 lower case letters or underscores.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName.MatchString(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

// Name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register adds the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name uses the bucket name.
func (b Bucket) Register(name string, r lockbox.QueryRouter) {
	if name == "" {
		name = b.name
	}
	path := "/" + name
	r.Register(path, b)
	for idxName, idx := range b.indexes {
		r.Register(path+"/"+idxName, idx)
	}
}

// Query serves a key or a prefix lookup in the bucket.
func (b Bucket) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	switch mod {
	case lockbox.KeyQueryMod:
		return getModels(db, b.DBKey(data))
	case lockbox.PrefixQueryMod:
		return QueryPrefix(db, b.DBKey(data))
	}
	return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
}

// getModels loads the given keys, skipping the missing ones.
func getModels(db lockbox.ReadOnlyKVStore, keys ...[]byte) ([]lockbox.Model, error) {
	var models []lockbox.Model
	for _, key := range keys {
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			models = append(models, lockbox.Pair(key, value))
		}
	}
	return models, nil
}

// DBKey returns the store key of an object key. The result never shares
// memory with the bucket prefix.
func (b Bucket) DBKey(key []byte) []byte {
	return joinKey(b.prefix, key)
}

func joinKey(prefix, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}

// Get loads the object stored under key, nil when there is none.
func (b Bucket) Get(db lockbox.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

// Parse decodes a stored value into an object of the bucket type.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := lockbox.Unmarshal(value, obj.Value()); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, updates the indexes and writes it.
func (b Bucket) Save(db lockbox.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := lockbox.Marshal(obj.Value())
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object under key and its index entries.
func (b Bucket) Delete(db lockbox.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of the object stored under key to next.
// A nil next removes them.
func (b Bucket) reindex(db lockbox.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns the named key sequence of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket with one more index. It panics
// when name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, taken := b.indexes[name]; taken {
		panic(fmt.Sprintf("index %q registered twice", name))
	}
	indexes := map[string]Index{
		name: NewIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// GetIndexed loads every object the named index lists under value.
func (b Bucket) GetIndexed(db lockbox.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	var objs []Object
	for _, key := range keys {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
