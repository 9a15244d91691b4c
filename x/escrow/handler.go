package escrow

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x"
)

const (
	depositCost  = 300
	withdrawCost = 100
)

// RegisterQuery registers deposits under "/deposits" and
// "/deposits/receiver", and the counter under "/deposits/counter".
func RegisterQuery(qr lockbox.QueryRouter) {
	b := NewBucket()
	b.Register("deposits", qr)
	qr.Register("/deposits/counter", counterQuery{bucket: b})
}

// counterQuery returns the next deposit id as an 8 byte value.
type counterQuery struct {
	bucket Bucket
}

func (q counterQuery) Query(db lockbox.ReadOnlyKVStore, mod string, data []byte) ([]lockbox.Model, error) {
	if mod != lockbox.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "not implemented: "+mod)
	}
	n, err := q.bucket.Counter(db)
	if err != nil {
		return nil, err
	}
	return []lockbox.Model{lockbox.Pair([]byte("counter"), orm.EncodeSequence(n))}, nil
}

// RegisterRoutes registers the deposit and withdraw handlers.
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathDepositMsg, &DepositHandler{auth: auth, control: control})
	r.Handle(pathWithdrawMsg, &WithdrawHandler{auth: auth, control: control})
}

// DepositHandler locks value of the main signer.
type DepositHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ lockbox.Handler = (*DepositHandler)(nil)

func (h *DepositHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: depositCost}, nil
}

// Deliver returns the deposit id as result data.
func (h *DepositHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, ev, err := h.control.Deposit(ctx, db, caller, msg.Receiver, msg.GetAsset(), msg.Amount, msg.Duration, msg.Value)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{
		Data:   DepositID(id),
		Events: []lockbox.Event{ev},
	}, nil
}

func (h *DepositHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*DepositMsg, lockbox.Address, error) {
	var msg DepositMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &msg, signer.Address(), nil
}

// WithdrawHandler releases a deposit. Any signer of the transaction may be
// the receiver.
type WithdrawHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ lockbox.Handler = (*WithdrawHandler)(nil)

func (h *WithdrawHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	var msg WithdrawMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &lockbox.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h *WithdrawHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	var msg WithdrawMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx, db, msg.DepositID)
	if err != nil {
		return nil, err
	}
	ev, err := h.control.Withdraw(ctx, db, caller, msg.DepositID)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{
		Data:   DepositID(msg.DepositID),
		Events: []lockbox.Event{ev},
	}, nil
}

// caller is the deposit receiver if it signed the transaction, the main
// signer otherwise.
func (h *WithdrawHandler) caller(ctx lockbox.Context, db lockbox.ReadOnlyKVStore, id uint64) (lockbox.Address, error) {
	dep, err := h.control.GetDeposit(db, id)
	if err != nil {
		return nil, err
	}
	if len(dep.Receiver) != 0 && h.auth.HasAddress(ctx, dep.Receiver) {
		return dep.Receiver, nil
	}
	if signer := x.MainSigner(ctx, h.auth); signer != nil {
		return signer.Address(), nil
	}
	return nil, nil
}
