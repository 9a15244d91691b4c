package utils

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Savepoint runs the rest of the chain in a cache wrap, written only when
// the chain succeeds. A failed transaction then leaves no partial writes,
// whatever the handlers did before failing.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ lockbox.Decorator = Savepoint{}

// NewSavepoint returns a Savepoint active for neither call. Enable it with
// OnCheck and OnDeliver.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	var res *lockbox.CheckResult
	err := savepoint(s.onCheck, db, func(db lockbox.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	var res *lockbox.DeliverResult
	err := savepoint(s.onDeliver, db, func(db lockbox.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// savepoint calls fn on a cache wrap of db when enabled and db can be
// wrapped, and on db itself otherwise.
func savepoint(enabled bool, db lockbox.KVStore, fn func(lockbox.KVStore) error) error {
	cacheable, ok := db.(lockbox.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
