package escrow

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Controller is the deposit ledger. It owns the deposit bucket and its
// counter, value is moved by the AssetTransfer selected for each asset.
type Controller struct {
	bucket    Bucket
	transfers AssetTransfers
}

// NewController returns a ledger moving value with given transfers.
func NewController(transfers AssetTransfers) Controller {
	return Controller{
		bucket:    NewBucket(),
		transfers: transfers,
	}
}

// Deposit locks amount of the asset for the receiver for duration seconds
// counted from the block time. value is the amount of the native asset the
// caller attached to the call. It must match the amount of a native deposit
// and be zero for a token deposit.
//
// The record is written and the value pulled from the caller atomically.
func (c Controller) Deposit(
	ctx lockbox.Context,
	db lockbox.KVStore,
	caller, receiver lockbox.Address,
	asset Asset,
	amount, duration, value uint64,
) (uint64, *DepositEvent, error) {
	if amount == 0 {
		return 0, nil, errors.Wrap(ErrAmountMustBeAboveZero, "deposit")
	}
	if duration == 0 {
		return 0, nil, errors.Wrap(ErrDurationMustBeAboveZero, "deposit")
	}
	if err := receiver.Validate(); err != nil {
		return 0, nil, errors.Wrap(err, "receiver")
	}
	transfer, err := c.transfers.ForAsset(asset)
	if err != nil {
		return 0, nil, err
	}
	switch asset.Kind {
	case AssetNative:
		if value != amount {
			return 0, nil, errors.Wrapf(ErrAssetTransferFailed, "attached value %d does not match amount %d", value, amount)
		}
	case AssetToken:
		if value != 0 {
			return 0, nil, errors.Wrapf(ErrAssetTransferFailed, "token deposit with attached value %d", value)
		}
	}
	release, err := lockbox.BlockNow(ctx).AddSeconds(duration)
	if err != nil {
		return 0, nil, errors.Wrap(err, "release time")
	}

	dep := &Deposit{
		Receiver:    receiver,
		Asset:       &asset,
		Amount:      amount,
		ReleaseTime: release,
	}
	var id uint64
	err = atomically(db, func(db lockbox.KVStore) error {
		var err error
		if id, err = c.bucket.Create(db, dep); err != nil {
			return err
		}
		if err := transfer.PullFrom(db, caller, amount); err != nil {
			return errors.Wrapf(errors.Tag(ErrAssetTransferFailed, err), "pull from %s", caller)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	lockbox.GetLogger(ctx).Debug("deposit", "id", id, "receiver", receiver, "amount", amount)
	return id, &DepositEvent{
		ID:          id,
		Receiver:    receiver,
		Asset:       asset,
		Amount:      amount,
		ReleaseTime: release,
	}, nil
}

// Withdraw releases the deposit to its receiver. The record is zeroed
// before the value is pushed out of custody, so a transfer calling back
// into the ledger sees the deposit as gone. If the push fails the zeroing
// is rolled back.
func (c Controller) Withdraw(ctx lockbox.Context, db lockbox.KVStore, caller lockbox.Address, id uint64) (*WithdrawalEvent, error) {
	dep, err := c.bucket.GetDeposit(db, id)
	if err != nil {
		return nil, err
	}
	if dep == nil || dep.IsWithdrawn() {
		return nil, errors.Wrapf(ErrDepositDoesNotExist, "id %d", id)
	}
	if !lockbox.Unlocked(ctx, dep.ReleaseTime) {
		return nil, errors.Wrapf(ErrDepositIsStillLocked, "until %s", dep.ReleaseTime)
	}
	if !caller.Equals(dep.Receiver) {
		return nil, errors.Wrapf(ErrMsgSenderIsNotDepositReceiver, "id %d", id)
	}

	asset := dep.GetAsset()
	transfer, err := c.transfers.ForAsset(asset)
	if err != nil {
		return nil, errors.Wrap(err, "stored asset")
	}
	amount := dep.Amount

	err = atomically(db, func(db lockbox.KVStore) error {
		if err := c.bucket.Put(db, id, &Deposit{Receiver: dep.Receiver}); err != nil {
			return err
		}
		if err := transfer.PushTo(db, dep.Receiver, amount); err != nil {
			return errors.Wrapf(errors.Tag(ErrAssetTransferFailed, err), "push to %s", dep.Receiver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lockbox.GetLogger(ctx).Debug("withdraw", "id", id, "receiver", dep.Receiver, "amount", amount)
	return &WithdrawalEvent{
		ID:       id,
		Receiver: dep.Receiver,
		Asset:    asset,
		Amount:   amount,
	}, nil
}

// GetDeposit returns the deposit with given id. A missing deposit is
// returned as a zero value, not as an error.
func (c Controller) GetDeposit(db lockbox.ReadOnlyKVStore, id uint64) (*Deposit, error) {
	dep, err := c.bucket.GetDeposit(db, id)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return &Deposit{}, nil
	}
	return dep, nil
}

// GetDepositCounter returns the id the next deposit is assigned.
func (c Controller) GetDepositCounter(db lockbox.ReadOnlyKVStore) (uint64, error) {
	return c.bucket.Counter(db)
}

// DepositsByReceiver lists all deposits ever made for the receiver.
func (c Controller) DepositsByReceiver(db lockbox.ReadOnlyKVStore, receiver lockbox.Address) ([]DepositRecord, error) {
	return c.bucket.ByReceiver(db, receiver)
}

// atomically runs fn on a cache wrap of db. The cache is written only if fn
// succeeds.
func atomically(db lockbox.KVStore, fn func(lockbox.KVStore) error) error {
	cstore, ok := db.(lockbox.CacheableKVStore)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "store does not support cache wraps")
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write cache")
	}
	return nil
}
