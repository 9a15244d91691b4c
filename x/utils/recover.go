package utils

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Recovery stops a panicking handler from taking the node down. The panic
// becomes an ErrPanic result for that transaction alone, and is logged with
// the message path, since clients only see a redacted error.
type Recovery struct{}

var _ lockbox.Decorator = Recovery{}

// NewRecovery returns the decorator. Put it first in the chain.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (_ *lockbox.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (_ *lockbox.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

func logPanic(ctx lockbox.Context, tx lockbox.Tx, err *error) {
	if errors.ErrPanic.Is(*err) {
		lockbox.GetLogger(ctx).Error("handler panic", "path", lockbox.GetPath(tx), "err", *err)
	}
}
