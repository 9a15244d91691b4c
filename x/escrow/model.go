package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

const (
	BucketName   = "dep"
	sequenceName = "id"
	receiverIdx  = "receiver"
)

// Deposit is the value held for a receiver until the release time. A
// withdrawn deposit keeps only the receiver, every other field is zero.
type Deposit struct {
	Receiver    lockbox.Address  `protobuf:"bytes,1,opt,name=receiver,proto3" json:"receiver"`
	Asset       *Asset           `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
	Amount      uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
	ReleaseTime lockbox.UnixTime `protobuf:"varint,4,opt,name=release_time,json=releaseTime,proto3" json:"release_time"`
}

func (m *Deposit) Reset()         { *m = Deposit{} }
func (m *Deposit) String() string { return proto.CompactTextString(m) }
func (*Deposit) ProtoMessage()    {}

var _ orm.CloneableData = (*Deposit)(nil)

// GetAsset never returns nil.
func (d *Deposit) GetAsset() Asset {
	if d == nil || d.Asset == nil {
		return Asset{}
	}
	return *d.Asset
}

// IsWithdrawn returns true for a zeroed record.
func (d *Deposit) IsWithdrawn() bool {
	return d.Amount == 0
}

// Validate accepts an active deposit or a zeroed one.
func (d *Deposit) Validate() error {
	if err := d.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if d.IsWithdrawn() {
		if !d.GetAsset().IsNone() || d.ReleaseTime != 0 {
			return errors.Wrap(errors.ErrModel, "withdrawn deposit must be zeroed")
		}
		return nil
	}
	if err := d.GetAsset().Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if d.ReleaseTime <= 0 {
		return errors.Wrap(errors.ErrModel, "missing release time")
	}
	return nil
}

// Copy returns a deep copy of the deposit.
func (d *Deposit) Copy() orm.CloneableData {
	cp := &Deposit{
		Receiver:    append(lockbox.Address(nil), d.Receiver...),
		Amount:      d.Amount,
		ReleaseTime: d.ReleaseTime,
	}
	if d.Asset != nil {
		cp.Asset = &Asset{
			Kind:  d.Asset.Kind,
			Token: append(lockbox.Address(nil), d.Asset.Token...),
		}
	}
	return cp
}

// DepositID returns the storage key of the deposit with given id.
func DepositID(id uint64) []byte {
	return orm.EncodeSequence(id)
}

// Bucket stores deposits under their 8 byte id and indexes them by
// receiver.
type Bucket struct {
	orm.Bucket
	ids orm.Sequence
}

// NewBucket returns the deposit bucket.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Deposit))).
		WithIndex(receiverIdx, receiverIndex, false)
	return Bucket{
		Bucket: b,
		ids:    b.Sequence(sequenceName),
	}
}

func receiverIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	d, ok := obj.Value().(*Deposit)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return d.Receiver, nil
}

// Create assigns the next id to the deposit and saves it.
func (b Bucket) Create(db lockbox.KVStore, d *Deposit) (uint64, error) {
	id, err := b.ids.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	if err := b.Put(db, id, d); err != nil {
		return 0, err
	}
	return id, nil
}

// Put saves the deposit under given id.
func (b Bucket) Put(db lockbox.KVStore, id uint64, d *Deposit) error {
	return b.Save(db, orm.NewSimpleObj(DepositID(id), d))
}

// GetDeposit returns the deposit stored under given id or nil.
func (b Bucket) GetDeposit(db lockbox.ReadOnlyKVStore, id uint64) (*Deposit, error) {
	obj, err := b.Get(db, DepositID(id))
	if err != nil || obj == nil {
		return nil, err
	}
	return asDeposit(obj)
}

// Counter returns the id the next deposit gets.
func (b Bucket) Counter(db lockbox.ReadOnlyKVStore) (uint64, error) {
	return b.ids.Peek(db)
}

// DepositRecord is a deposit together with its id.
type DepositRecord struct {
	ID      uint64   `json:"id"`
	Deposit *Deposit `json:"deposit"`
}

// ByReceiver returns all deposits, withdrawn ones included, of the
// receiver ordered by id.
func (b Bucket) ByReceiver(db lockbox.ReadOnlyKVStore, receiver lockbox.Address) ([]DepositRecord, error) {
	objs, err := b.GetIndexed(db, receiverIdx, receiver)
	if err != nil {
		return nil, err
	}
	res := make([]DepositRecord, 0, len(objs))
	for _, obj := range objs {
		d, err := asDeposit(obj)
		if err != nil {
			return nil, err
		}
		id, err := orm.DecodeSequence(obj.Key())
		if err != nil {
			return nil, errors.Wrap(err, "deposit key")
		}
		res = append(res, DepositRecord{ID: id, Deposit: d})
	}
	return res, nil
}

func asDeposit(obj orm.Object) (*Deposit, error) {
	d, ok := obj.Value().(*Deposit)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return d, nil
}
