package cash

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
)

// RegisterRoutes adds the SendMsg handler.
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery serves the wallets at "/wallets".
func RegisterQuery(qr lockbox.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves native coins between wallets. The source must sign.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ lockbox.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

// authorized loads the message and requires a signature of its source.
func (h SendHandler) authorized(ctx lockbox.Context, tx lockbox.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %s did not sign", msg.Src)
	}
	return &msg, nil
}
