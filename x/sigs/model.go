package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
)

// BucketName holds one UserData per signer address.
const BucketName = "sigs"

// maxSequence is the largest integer a float64 holds exactly. Clients
// decode the sequence from JSON.
const maxSequence = 1<<53 - 1

// UserData is the key of a signer and the sequence its next signature
// must carry.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

var _ orm.CloneableData = (*UserData)(nil)

// Validate allows a missing key only before the first signature.
func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Wrapf(ErrInvalidSequence, "sequence %d", u.Sequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Wrap(ErrInvalidSequence, "used sequence without a public key")
	}
	return nil
}

// Copy shares the public key, which is never modified.
func (u *UserData) Copy() orm.CloneableData {
	cp := *u
	return &cp
}

// CheckAndIncrementSequence consumes seq, which must be the stored
// sequence.
func (u *UserData) CheckAndIncrementSequence(seq int64) error {
	if seq != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "got %d, want %d", seq, u.Sequence)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrapf(errors.ErrOverflow, "sequence %d", u.Sequence)
	}
	u.Sequence++
	return nil
}

// AsUser returns the UserData of obj, nil for a missing object.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns the unsaved record of pubkey at sequence zero.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key lockbox.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket stores UserData by signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the signer bucket.
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate loads the record of pubkey, or a new one when the key never
// signed.
func (b Bucket) GetOrCreate(db lockbox.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return NewUser(pubkey), nil
	}
	return obj, nil
}

// NextNonce is the sequence the next signature of signer must carry.
func NextNonce(db lockbox.ReadOnlyKVStore, signer lockbox.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrapf(err, "signer %s", signer)
	}
	if user := AsUser(obj); user != nil {
		return user.Sequence, nil
	}
	return 0, nil
}
