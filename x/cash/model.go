package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native asset balance of an address.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

var _ orm.CloneableData = (*Wallet)(nil)

// Validate accepts any balance, zero included.
func (w *Wallet) Validate() error {
	return nil
}

// Copy returns a copy of the wallet.
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Balance: w.Balance}
}

// Add increases the balance or returns ErrOverflow.
func (w *Wallet) Add(amount uint64) error {
	if w.Balance+amount < w.Balance {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", w.Balance, amount)
	}
	w.Balance += amount
	return nil
}

// Subtract decreases the balance or returns ErrInsufficientAmount.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, requested %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// AsWallet will safely type-cast any value from Bucket to a Wallet.
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Wallet)
}

// NewWallet creates an empty wallet object for the given address.
func NewWallet(addr lockbox.Address) orm.Object {
	return orm.NewSimpleObj(addr, new(Wallet))
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// GetOrCreate will return the wallet if found, or create one if not.
func (b Bucket) GetOrCreate(db lockbox.KVStore, addr lockbox.Address) (orm.Object, error) {
	obj, err := b.Get(db, addr)
	if err == nil && obj == nil {
		obj = NewWallet(addr)
	}
	return obj, err
}

// Save enforces the proper type
func (b Bucket) Save(db lockbox.KVStore, obj orm.Object) error {
	if _, ok := obj.Value().(*Wallet); !ok {
		return errors.WithType(errors.ErrModel, obj.Value())
	}
	return b.Bucket.Save(db, obj)
}
