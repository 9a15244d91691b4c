package app

import (
	"bytes"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// RegisterQuery exposes the raw key value store under "/". Data is the full
// database key, or a key prefix with the "?prefix" modifier.
func RegisterQuery(qr lockbox.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	switch mod {
	case lockbox.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrEmpty, "key")
		}
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []lockbox.Model{lockbox.Pair(data, value)}, nil
	case lockbox.PrefixQueryMod:
		return orm.QueryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mode: %s", mod)
	}
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. It
// requires the raw store query to be registered (see RegisterQuery).
//
// This can be wrapped with a bucket to reuse key/index/parse logic on the
// client side.
type ABCIStore struct {
	app abci.Application
}

var _ lockbox.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a read only store querying given application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].Value, nil
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator loads all keys sharing the common prefix of start and end and
// iterates over those within the [start, end) range.
func (a *ABCIStore) Iterator(start, end []byte) (lockbox.Iterator, error) {
	models, err := a.rangeQuery(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is the same as Iterator but traverses the range from the
// end.
func (a *ABCIStore) ReverseIterator(start, end []byte) (lockbox.Iterator, error) {
	models, err := a.rangeQuery(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) rangeQuery(start, end []byte) ([]lockbox.Model, error) {
	models, err := a.query("/?prefix", commonPrefix(start, end))
	if err != nil {
		return nil, err
	}
	res := models[:0]
	for _, m := range models {
		if start != nil && bytes.Compare(m.Key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(m.Key, end) >= 0 {
			continue
		}
		res = append(res, m)
	}
	return res, nil
}

func (a *ABCIStore) query(path string, data []byte) ([]lockbox.Model, error) {
	resp := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if resp.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	return ParseQueryResponse(resp.Key, resp.Value)
}

// commonPrefix returns the longest prefix shared by both keys. A nil key
// is an open range end, so nothing is shared.
func commonPrefix(a, b []byte) []byte {
	if a == nil || b == nil {
		return nil
	}
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}
