package cash

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Controller is the functionality needed by other extensions to move the
// native asset.
type Controller interface {
	Balance(lockbox.ReadOnlyKVStore, lockbox.Address) (uint64, error)
	MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount uint64) error
	IssueCoins(db lockbox.KVStore, dest lockbox.Address, amount uint64) error
}

// BaseController is the basic controller implementation over the wallet
// bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the default wallet
// bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the native balance of an address. An address that never
// received anything has a zero balance.
func (c BaseController) Balance(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, errors.Wrap(err, "cannot get wallet")
	}
	if w := AsWallet(obj); w != nil {
		return w.Balance, nil
	}
	return 0, nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't have
// sufficient funds, it fails.
func (c BaseController) MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if err := AsWallet(sender).Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "cannot save sender")
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient")
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient")
	}
	return nil
}

// IssueCoins attempts to add the given amount to the destination address.
// Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db lockbox.KVStore, dest lockbox.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient")
	}
	if err := AsWallet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
