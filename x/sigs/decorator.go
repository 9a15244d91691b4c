/*
Package sigs checks the ed25519 signatures of transactions. Every signer
has a sequence that each signature consumes, so a signed transaction
cannot be replayed.
*/
package sigs

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// signatureVerifyCost is the gas charged per valid signature in CheckTx.
const signatureVerifyCost = 500

// RegisterQuery serves the signer bucket at "/auth".
func RegisterQuery(qr lockbox.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator rejects transactions without a valid signature and passes the
// signers on to the handlers.
type Decorator struct{}

var _ lockbox.Decorator = Decorator{}

// NewDecorator returns the signature decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies the signatures and charges gas for them.
func (d Decorator) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	signers, err := verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(withSigners(ctx, signers), db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(len(signers)) * signatureVerifyCost
	return res, nil
}

// Deliver verifies the signatures.
func (d Decorator) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	signers, err := verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), db, tx)
}

func verify(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) ([]lockbox.Condition, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T carries no signatures", tx)
	}
	signers, err := VerifyTxSignatures(db, stx, lockbox.GetChainID(ctx))
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "unsigned transaction")
	}
	return signers, nil
}
