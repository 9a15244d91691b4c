package orm

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketNames(t *testing.T) {
	assert.Panics(t, func() { NewBucket("a", &SimpleObj{}) })
	assert.Panics(t, func() { NewBucket("UPPER", &SimpleObj{}) })
	assert.Panics(t, func() { NewBucket("too_long_name", &SimpleObj{}) })
	assert.NotPanics(t, func() { NewBucket("dep", NewSimpleObj(nil, new(Counter))) })
}

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", NewSimpleObj(nil, new(Counter)))

	obj, err := b.Get(db, []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	require.NoError(t, b.Save(db, counterObj("one", 5, "")))
	obj, err = b.Get(db, []byte("one"))
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, int64(5), obj.Value().(*Counter).Count)
	assert.Equal(t, []byte("one"), obj.Key())

	// invalid models are not stored
	err = b.Save(db, counterObj("two", -1, ""))
	assert.True(t, errors.ErrModel.Is(err))
	err = b.Save(db, NewSimpleObj(nil, &Counter{}))
	assert.True(t, errors.ErrEmpty.Is(err))

	require.NoError(t, b.Delete(db, []byte("one")))
	obj, err = b.Get(db, []byte("one"))
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketKeysDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", NewSimpleObj(nil, new(Counter)))
	k1, k2 := b.DBKey([]byte("ABC")), b.DBKey([]byte("LED"))
	assert.Equal(t, []byte("cnt:ABC"), k1)
	assert.Equal(t, []byte("cnt:LED"), k2)

	require.NoError(t, b.Save(db, counterObj("ABC", 1, "")))
	require.NoError(t, b.Save(db, counterObj("LED", 2, "")))
	obj, err := b.Get(db, []byte("ABC"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), obj.Value().(*Counter).Count)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", NewSimpleObj(nil, new(Counter)))
	require.NoError(t, b.Save(db, counterObj("aa", 1, "")))
	require.NoError(t, b.Save(db, counterObj("ab", 2, "")))
	require.NoError(t, b.Save(db, counterObj("b", 3, "")))

	res, err := b.Query(db, lockbox.KeyQueryMod, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("cnt:ab"), res[0].Key)

	res, err = b.Query(db, lockbox.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = b.Query(db, lockbox.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("cnt:aa"), res[0].Key)
	assert.Equal(t, []byte("cnt:ab"), res[1].Key)

	obj, err := b.Parse(res[1].Key, res[1].Value)
	require.NoError(t, err)
	assert.Equal(t, int64(2), obj.Value().(*Counter).Count)

	_, err = b.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestBucketIndexes(t *testing.T) {
	cases := map[string]struct {
		unique  bool
		saves   []Object
		wantErr *errors.Error
		owner   string
		want    []string
	}{
		"multi index lists all owned objects": {
			saves: []Object{counterObj("k1", 1, "alice"), counterObj("k2", 2, "alice"), counterObj("k3", 3, "bob")},
			owner: "alice",
			want:  []string{"k1", "k2"},
		},
		"unique index rejects duplicates": {
			unique:  true,
			saves:   []Object{counterObj("k1", 1, "alice"), counterObj("k2", 2, "alice")},
			wantErr: errors.ErrDuplicate,
		},
		"objects without index value are skipped": {
			saves: []Object{counterObj("k1", 1, ""), counterObj("k2", 2, "bob")},
			owner: "bob",
			want:  []string{"k2"},
		},
		"update moves the reference": {
			saves: []Object{counterObj("k1", 1, "alice"), counterObj("k1", 2, "bob")},
			owner: "bob",
			want:  []string{"k1"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket("cnt", NewSimpleObj(nil, new(Counter))).
				WithIndex("owner", ownerIndex, tc.unique)

			var err error
			for _, obj := range tc.saves {
				if err = b.Save(db, obj); err != nil {
					break
				}
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			objs, err := b.GetIndexed(db, "owner", []byte(tc.owner))
			require.NoError(t, err)
			var keys []string
			for _, o := range objs {
				keys = append(keys, string(o.Key()))
			}
			assert.Equal(t, tc.want, keys)
		})
	}
}

func TestBucketIndexDeleteAndQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnt", NewSimpleObj(nil, new(Counter))).
		WithIndex("owner", ownerIndex, false)
	require.NoError(t, b.Save(db, counterObj("k1", 1, "alice")))
	require.NoError(t, b.Save(db, counterObj("k2", 2, "alice")))

	qr := lockbox.NewQueryRouter()
	b.Register("counters", qr)
	res, err := qr.Handler("/counters/owner").Query(db, lockbox.KeyQueryMod, []byte("alice"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = qr.Handler("/counters/owner").Query(db, lockbox.PrefixQueryMod, []byte("ali"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	require.NoError(t, b.Delete(db, []byte("k1")))
	objs, err := b.GetIndexed(db, "owner", []byte("alice"))
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, []byte("k2"), objs[0].Key())

	_, err = b.GetIndexed(db, "missing", []byte("alice"))
	assert.True(t, ErrInvalidIndex.Is(err))

	assert.Panics(t, func() { b.WithIndex("owner", ownerIndex, true) })
}
