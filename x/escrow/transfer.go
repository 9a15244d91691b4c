package escrow

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/token"
)

// CustodyAddress holds all value deposited in the ledger.
var CustodyAddress = lockbox.NewCondition("escrow", "ledger", []byte("custody")).Address()

// AssetTransfer moves value of one asset in and out of the ledger custody.
// Implementations may call back into the ledger.
type AssetTransfer interface {
	// PullFrom moves amount from the owner into custody.
	PullFrom(db lockbox.KVStore, owner lockbox.Address, amount uint64) error
	// PushTo moves amount from custody to the recipient.
	PushTo(db lockbox.KVStore, recipient lockbox.Address, amount uint64) error
}

// AssetTransfers returns the AssetTransfer serving an asset.
type AssetTransfers interface {
	ForAsset(a Asset) (AssetTransfer, error)
}

// Transfers serves the native asset with the cash ledger and tokens with
// the token ledger.
type Transfers struct {
	cash   cash.Controller
	tokens token.Controller
}

var _ AssetTransfers = Transfers{}

// NewTransfers returns the transfers backed by given ledgers.
func NewTransfers(c cash.Controller, t token.Controller) Transfers {
	return Transfers{cash: c, tokens: t}
}

// ForAsset returns ErrInvalidInput for an asset that is not valid.
func (t Transfers) ForAsset(a Asset) (AssetTransfer, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Kind == AssetToken {
		return tokenTransfer{tokens: t.tokens, token: a.Token}, nil
	}
	return nativeTransfer{cash: t.cash}, nil
}

type nativeTransfer struct {
	cash cash.Controller
}

func (n nativeTransfer) PullFrom(db lockbox.KVStore, owner lockbox.Address, amount uint64) error {
	return n.cash.MoveCoins(db, owner, CustodyAddress, amount)
}

func (n nativeTransfer) PushTo(db lockbox.KVStore, recipient lockbox.Address, amount uint64) error {
	return n.cash.MoveCoins(db, CustodyAddress, recipient, amount)
}

// tokenTransfer pulls using the allowance the owner granted to the custody
// address.
type tokenTransfer struct {
	tokens token.Controller
	token  lockbox.Address
}

func (t tokenTransfer) PullFrom(db lockbox.KVStore, owner lockbox.Address, amount uint64) error {
	if err := t.tokens.TransferFrom(db, t.token, CustodyAddress, owner, CustodyAddress, amount); err != nil {
		return errors.Wrapf(err, "token %s", t.token)
	}
	return nil
}

func (t tokenTransfer) PushTo(db lockbox.KVStore, recipient lockbox.Address, amount uint64) error {
	if err := t.tokens.Transfer(db, t.token, CustodyAddress, recipient, amount); err != nil {
		return errors.Wrapf(err, "token %s", t.token)
	}
	return nil
}
