package app

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestABCIStoreIterators(t *testing.T) {
	s := newTestStoreApp(t)
	s.InitChain(abci.RequestInitChain{ChainId: "lockbox-test", AppStateBytes: []byte(`{}`)})
	for _, k := range []string{"a:1", "a:2", "a:3", "b:1"} {
		require.NoError(t, s.DeliverStore().Set([]byte(k), []byte("v"+k)))
	}
	s.Commit()

	db := NewABCIStore(s)

	itr, err := db.Iterator([]byte("a:2"), []byte("a:9"))
	require.NoError(t, err)
	models, err := orm.ConsumeIterator(itr)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:2", "a:3"}, keys(models))

	itr, err = db.ReverseIterator([]byte("a:"), []byte("b:"))
	require.NoError(t, err)
	models, err = orm.ConsumeIterator(itr)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:3", "a:2", "a:1"}, keys(models))

	itr, err = db.Iterator(nil, nil)
	require.NoError(t, err)
	models, err = orm.ConsumeIterator(itr)
	require.NoError(t, err)
	// the chain id is stored as well
	assert.Len(t, models, 5)

	v, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, []byte("a:"), commonPrefix([]byte("a:1"), []byte("a:9")))
	assert.Nil(t, commonPrefix(nil, []byte("a")))
	assert.Equal(t, []byte{}, commonPrefix([]byte("a"), []byte("b")))
}

func keys(models []lockbox.Model) []string {
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = string(m.Key)
	}
	return res
}
