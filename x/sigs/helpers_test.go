package sigs

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest"
)

// StdTx is a minimal signed transaction for the tests.
type StdTx struct {
	*lockboxtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ lockbox.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &lockboxtest.Msg{RoutePath: pathBumpSequenceMsg, Serialized: payload}
	return &StdTx{Tx: &lockboxtest.Tx{Msg: msg}}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.(*lockboxtest.Msg).Serialized, nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []lockbox.Condition
}

var _ lockbox.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &lockbox.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &lockbox.DeliverResult{}, nil
}
