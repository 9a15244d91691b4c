package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheIteratorCloseAllowsWrites(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("A")))
	cache := db.CacheWrap()

	it, err := cache.Iterator([]byte("a"), []byte("z"))
	require.NoError(t, err)
	// the iterator holds a snapshot, closing is synchronous
	it.Close()
	assert.NoError(t, db.Delete([]byte("a")))

	it, err = cache.ReverseIterator([]byte("a"), []byte("z"))
	require.NoError(t, err)
	assert.False(t, it.Valid())
	it.Close()
}

func TestCacheIteratorSkipsDeletedPrefix(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}
	cache := db.CacheWrap()
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Delete([]byte("d")))

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	require.True(t, it.Valid())
	assert.Equal(t, []byte("c"), it.Key())
	require.NoError(t, it.Next())
	assert.False(t, it.Valid())
	it.Close()

	it, err = cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	require.True(t, it.Valid())
	assert.Equal(t, []byte("c"), it.Key())
	require.NoError(t, it.Next())
	assert.False(t, it.Valid())
	it.Close()
}
