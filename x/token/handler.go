package token

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x"
)

const (
	createTokenCost = 300
	transferCost    = 100
	approveCost     = 50
)

// RegisterQuery registers the token buckets as "/tokens", "/tokenbalances"
// and "/allowances".
func RegisterQuery(qr lockbox.QueryRouter) {
	NewTokenBucket().Register("tokens", qr)
	NewBalanceBucket().Register("tokenbalances", qr)
	NewAllowanceBucket().Register("allowances", qr)
}

// RegisterRoutes registers the token message handlers.
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, control BaseController) {
	r.Handle(pathCreateTokenMsg, &CreateTokenHandler{auth: auth, control: control})
	r.Handle(pathTransferMsg, &TransferHandler{auth: auth, control: control})
	r.Handle(pathApproveMsg, &ApproveHandler{auth: auth, control: control})
}

func mainSigner(ctx lockbox.Context, auth x.Authenticator) (lockbox.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

// CreateTokenHandler registers tokens.
type CreateTokenHandler struct {
	auth    x.Authenticator
	control BaseController
}

var _ lockbox.Handler = (*CreateTokenHandler)(nil)

func (h *CreateTokenHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: createTokenCost}, nil
}

// Deliver creates the token and returns its address as the result data.
func (h *CreateTokenHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, minter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.control.Create(db, minter, msg.Symbol, msg.Name, msg.Supply)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{Data: addr}, nil
}

func (h *CreateTokenHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*CreateTokenMsg, lockbox.Address, error) {
	var msg CreateTokenMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	minter, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, minter, nil
}

// TransferHandler moves tokens owned by the main signer.
type TransferHandler struct {
	auth    x.Authenticator
	control BaseController
}

var _ lockbox.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: transferCost}, nil
}

func (h *TransferHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, src, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, msg.Token, src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

func (h *TransferHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*TransferMsg, lockbox.Address, error) {
	var msg TransferMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, src, nil
}

// ApproveHandler sets allowances over the main signer tokens.
type ApproveHandler struct {
	auth    x.Authenticator
	control BaseController
}

var _ lockbox.Handler = (*ApproveHandler)(nil)

func (h *ApproveHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: approveCost}, nil
}

func (h *ApproveHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(db, msg.Token, owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

func (h *ApproveHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*ApproveMsg, lockbox.Address, error) {
	var msg ApproveMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, owner, nil
}
