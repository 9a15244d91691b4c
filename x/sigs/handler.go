package sigs

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x"
)

// RegisterRoutes adds the BumpSequenceMsg handler.
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator) {
	r.Handle(pathBumpSequenceMsg, bumpSequenceHandler{auth: auth, users: NewBucket()})
}

// bumpSequenceHandler lets a signer skip sequences, which voids
// transactions signed but not yet sent.
type bumpSequenceHandler struct {
	auth  x.Authenticator
	users Bucket
}

func (h bumpSequenceHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

func (h bumpSequenceHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	addr, user, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.users.Save(db, orm.NewSimpleObj(addr, user)); err != nil {
		return nil, errors.Wrap(err, "save signer")
	}
	return &lockbox.DeliverResult{}, nil
}

// load returns the main signer with its sequence already bumped. The
// signature on tx consumed one sequence, so the increment adds one less.
func (h bumpSequenceHandler) load(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (lockbox.Address, *UserData, error) {
	var msg BumpSequenceMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	addr := signer.Address()
	obj, err := h.users.Get(db, addr)
	if err != nil {
		return nil, nil, err
	}
	user := AsUser(obj)
	if user == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "signer %s", addr)
	}
	next := user.Sequence + int64(msg.Increment) - 1
	if next > maxSequence {
		return nil, nil, errors.Wrapf(errors.ErrOverflow, "sequence %d", next)
	}
	user.Sequence = next
	return addr, user, nil
}
