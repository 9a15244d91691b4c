package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the KVStore contract against any cacheable store. It is
// shared between btree_test.go and iavl/adapter_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores built by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet walks a record through the life a ledger entry has: written in a
// cache, committed, replaced by a tombstone in a discarded cache and then
// in a written one.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	dep, counter := []byte("dep:0"), []byte("_s.dep:id")
	s.AssertGetHas(t, base, dep, nil, false)

	create := base.CacheWrap()
	require.NoError(t, create.Set(dep, []byte("active")))
	require.NoError(t, create.Set(counter, []byte{1}))
	s.AssertGetHas(t, create, dep, []byte("active"), true)
	s.AssertGetHas(t, base, dep, nil, false)
	require.NoError(t, create.Write())
	s.AssertGetHas(t, base, dep, []byte("active"), true)
	s.AssertGetHas(t, base, counter, []byte{1}, true)

	failed := base.CacheWrap()
	require.NoError(t, failed.Set(dep, []byte("tombstone")))
	require.NoError(t, failed.Delete(counter))
	s.AssertGetHas(t, failed, counter, nil, false)
	failed.Discard()
	s.AssertGetHas(t, base, dep, []byte("active"), true)
	s.AssertGetHas(t, base, counter, []byte{1}, true)

	withdraw := base.CacheWrap()
	require.NoError(t, withdraw.Set(dep, []byte("tombstone")))
	require.NoError(t, withdraw.Write())
	s.AssertGetHas(t, base, dep, []byte("tombstone"), true)

	// writing a discarded cache is a no-op
	require.NoError(t, failed.Write())
	s.AssertGetHas(t, base, dep, []byte("tombstone"), true)
	s.AssertGetHas(t, base, counter, []byte{1}, true)
}

// CacheConflicts checks that a cache overlays overwrites and deletes on its
// parent without leaking them before Write.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parent []Op
		child  []Op
	}{
		"overwrite, delete and add": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			child:  []Op{SetOp([]byte("a"), []byte("10")), DelOp([]byte("b")), SetOp([]byte("c"), []byte("3"))},
		},
		"delete then set again": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("2"))},
		},
		"set then delete": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{SetOp([]byte("b"), []byte("2")), DelOp([]byte("b")), DelOp([]byte("a"))},
		},
		"delete a missing key": {
			child: []Op{DelOp([]byte("z"))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			before := applyOps(t, parent, newReference(), tc.parent)
			child := parent.CacheWrap()
			after := applyOps(t, child, before.clone(), tc.child)

			before.assertMatches(t, s, parent)
			after.assertMatches(t, s, child)

			require.NoError(t, child.Write())
			after.assertMatches(t, s, parent)
		})
	}
}

// FuzzIterator compares random ranges of a cache over a populated parent
// with a plain map holding the same operations.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	rnd := rand.New(rand.NewSource(20190701))

	cases := map[string]struct {
		parentOps int
		childOps  int
	}{
		"child over empty parent": {parentOps: 0, childOps: 70},
		"empty child":             {parentOps: 70, childOps: 0},
		"child and parent":        {parentOps: 70, childOps: 70},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			// a small key space makes overwrites and deletes of
			// existing keys frequent
			keys := randomKeys(rnd, 40)
			ref := applyOps(t, base, newReference(), randomOps(rnd, keys, tc.parentOps))
			child := base.CacheWrap()
			ref = applyOps(t, child, ref, randomOps(rnd, keys, tc.childOps))

			bounds := append([][]byte{nil}, keys...)
			for i := 0; i < 30; i++ {
				start := bounds[rnd.Intn(len(bounds))]
				end := bounds[rnd.Intn(len(bounds))]
				if start != nil && end != nil && bytes.Compare(start, end) > 0 {
					start, end = end, start
				}
				ref.assertRange(t, child, start, end, false)
				ref.assertRange(t, child, start, end, true)
			}
		})
	}
}

// IteratorWithConflicts covers the layouts where the cache and its parent
// hold the same keys.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	a, b, c, d := []byte("dep:a"), []byte("dep:b"), []byte("dep:c"), []byte("dep:d")
	v := func(s string) []byte { return []byte(s) }

	cases := map[string]struct {
		parent []Op
		child  []Op
	}{
		"child only": {
			child: []Op{SetOp(a, v("1")), SetOp(b, v("2")), SetOp(c, v("3"))},
		},
		"parent only": {
			parent: []Op{SetOp(a, v("1")), SetOp(b, v("2")), SetOp(c, v("3"))},
		},
		"interleaved": {
			parent: []Op{SetOp(a, v("1")), SetOp(c, v("3"))},
			child:  []Op{SetOp(b, v("2")), SetOp(d, v("4"))},
		},
		"child overwrites parent": {
			parent: []Op{SetOp(a, v("1")), SetOp(b, v("2")), SetOp(c, v("3"))},
			child:  []Op{SetOp(a, v("10")), SetOp(b, v("20")), SetOp(d, v("4"))},
		},
		"child deletes most of parent": {
			parent: []Op{SetOp(a, v("1")), SetOp(c, v("3")), SetOp(d, v("4"))},
			child:  []Op{DelOp(a), DelOp(b), DelOp(d)},
		},
		"child deletes everything": {
			parent: []Op{SetOp(a, v("1")), SetOp(b, v("2"))},
			child:  []Op{DelOp(a), DelOp(b)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			ref := applyOps(t, base, newReference(), tc.parent)
			child := base.CacheWrap()
			ref = applyOps(t, child, ref, tc.child)

			for _, r := range [][2][]byte{{nil, nil}, {b, nil}, {nil, c}, {b, d}, {c, c}} {
				ref.assertRange(t, child, r[0], r[1], false)
				ref.assertRange(t, child, r[0], r[1], true)
			}
		})
	}
}

// AssertGetHas checks both Get and Has for the given key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, val, got, "value of %q", key)
	exists, err := kv.Has(key)
	assert.NoError(t, err)
	assert.Equal(t, has, exists, "presence of %q", key)
}

// reference is the expected content of a store.
type reference map[string][]byte

func newReference() reference {
	return make(reference)
}

func (r reference) clone() reference {
	c := make(reference, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// applyOps runs ops against the store and records them in ref.
func applyOps(t testing.TB, kv SetDeleter, ref reference, ops []Op) reference {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Apply(kv))
		op.Apply(refWriter(ref))
	}
	return ref
}

type refWriter reference

func (w refWriter) Set(key, value []byte) error {
	w[string(key)] = value
	return nil
}

func (w refWriter) Delete(key []byte) error {
	delete(w, string(key))
	return nil
}

func (r reference) assertMatches(t testing.TB, s *TestSuite, kv ReadOnlyKVStore) {
	t.Helper()
	for k, v := range r {
		s.AssertGetHas(t, kv, []byte(k), v, true)
	}
	r.assertRange(t, kv, nil, nil, false)
}

// sorted returns the models with a key in [start, end).
func (r reference) sorted(start, end []byte) []Model {
	var res []Model
	for k, v := range r {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		res = append(res, Model{Key: key, Value: v})
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func (r reference) assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, reverse bool) {
	t.Helper()
	want := r.sorted(start, end)
	var (
		it  Iterator
		err error
	)
	if reverse {
		it, err = kv.ReverseIterator(start, end)
		for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
			want[i], want[j] = want[j], want[i]
		}
	} else {
		it, err = kv.Iterator(start, end)
	}
	require.NoError(t, err)
	defer it.Close()

	desc := fmt.Sprintf("range [%q, %q) reverse=%v", start, end, reverse)
	for i, m := range want {
		require.True(t, it.Valid(), "%s: ended after %d of %d models", desc, i, len(want))
		require.Equal(t, m.Key, it.Key(), "%s: key %d", desc, i)
		require.Equal(t, m.Value, it.Value(), "%s: value %d", desc, i)
		require.NoError(t, it.Next())
	}
	require.False(t, it.Valid(), "%s: more models than expected", desc)
	if err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("%s: want ErrIteratorDone, got %+v", desc, err)
	}
}

func randomKeys(rnd *rand.Rand, n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("dep:%04x", rnd.Intn(1<<16)))
	}
	return keys
}

// randomOps returns n operations over keys, a third of them deletes.
func randomOps(rnd *rand.Rand, keys [][]byte, n int) []Op {
	ops := make([]Op, n)
	for i := range ops {
		key := keys[rnd.Intn(len(keys))]
		if rnd.Intn(3) == 0 {
			ops[i] = DelOp(key)
		} else {
			ops[i] = SetOp(key, []byte(fmt.Sprintf("value-%d", rnd.Int63())))
		}
	}
	return ops
}
