package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempCommitStore(t testing.TB) (*CommitStore, func()) {
	dir, err := ioutil.TempDir("", "lockbox-iavl-")
	require.NoError(t, err)
	return NewCommitStore(dir, "state"), func() { os.RemoveAll(dir) }
}

var suite = store.NewTestSuite(func() (store.CacheableKVStore, func()) {
	dir, err := ioutil.TempDir("", "lockbox-iavl-suite-")
	if err != nil {
		panic(err)
	}
	return NewCommitStore(dir, "suite").Adapter(), func() { os.RemoveAll(dir) }
})

func TestAdapterGetSet(t *testing.T)            { suite.GetSet(t) }
func TestAdapterCacheConflicts(t *testing.T)    { suite.CacheConflicts(t) }
func TestAdapterFuzzIterator(t *testing.T)      { suite.FuzzIterator(t) }
func TestAdapterIteratorConflicts(t *testing.T) { suite.IteratorWithConflicts(t) }

func TestCommitVersions(t *testing.T) {
	commit, cleanup := tempCommitStore(t)
	defer cleanup()
	commit.keep = 2

	counter, dep0, dep1 := []byte("_s.dep:id"), []byte("dep:0"), []byte("dep:1")

	id, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)
	assert.Empty(t, id.Hash)

	block := commit.CacheWrap()
	require.NoError(t, block.Set(counter, []byte{1}))
	require.NoError(t, block.Set(dep0, []byte("locked")))
	require.NoError(t, block.Write())
	first, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	// two blocks in parallel: only the written one reaches the tree
	next := commit.CacheWrap()
	require.NoError(t, next.Set(counter, []byte{2}))
	require.NoError(t, next.Set(dep0, []byte("withdrawn")))
	require.NoError(t, next.Set(dep1, []byte("locked")))
	dropped := commit.CacheWrap()
	require.NoError(t, dropped.Delete(dep0))

	suite.AssertGetHas(t, dropped, dep0, nil, false)
	suite.AssertGetHas(t, next, dep0, []byte("withdrawn"), true)
	dropped.Discard()

	require.NoError(t, next.Write())
	peek := commit.CacheWrap()
	suite.AssertGetHas(t, peek, dep1, []byte("locked"), true)

	got, err := commit.Get(dep0)
	require.NoError(t, err)
	assert.Equal(t, []byte("locked"), got, "committed state changes on Commit only")

	second, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)
	got, err = commit.Get(dep0)
	require.NoError(t, err)
	assert.Equal(t, []byte("withdrawn"), got)

	_, err = commit.Commit()
	require.NoError(t, err)
	assert.False(t, commit.tree.VersionExists(1), "version 1 is pruned")
	assert.True(t, commit.tree.VersionExists(2))
}

func TestCommitReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "lockbox-reload-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(s *CommitStore) {
		cache := s.CacheWrap()
		require.NoError(t, cache.Set([]byte("dep:0"), []byte("locked")))
		require.NoError(t, cache.Write())
	}

	disk := NewCommitStore(dir, "reload")
	require.NoError(t, disk.LoadLatestVersion())
	write(disk)
	want, err := disk.Commit()
	require.NoError(t, err)

	mem := NewMemCommitStore()
	require.NoError(t, mem.LoadLatestVersion())
	write(mem)
	got, err := mem.Commit()
	require.NoError(t, err)
	assert.Equal(t, want, got, "same state gives the same hash")
}
