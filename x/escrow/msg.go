package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

const (
	pathDepositMsg  = "escrow/deposit"
	pathWithdrawMsg = "escrow/withdraw"
)

// DepositMsg locks Amount of Asset for Receiver for Duration seconds. Value
// is the amount of the native asset attached by the signer.
type DepositMsg struct {
	Receiver lockbox.Address `protobuf:"bytes,1,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset    *Asset          `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount   uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Duration uint64          `protobuf:"varint,4,opt,name=duration,proto3" json:"duration,omitempty"`
	Value    uint64          `protobuf:"varint,5,opt,name=value,proto3" json:"value,omitempty"`
}

var _ lockbox.Msg = (*DepositMsg)(nil)

func (m *DepositMsg) Reset()         { *m = DepositMsg{} }
func (m *DepositMsg) String() string { return proto.CompactTextString(m) }
func (*DepositMsg) ProtoMessage()    {}

func (DepositMsg) Path() string {
	return pathDepositMsg
}

// GetAsset never returns nil.
func (m *DepositMsg) GetAsset() Asset {
	if m == nil || m.Asset == nil {
		return Asset{}
	}
	return *m.Asset
}

func (m *DepositMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(ErrAmountMustBeAboveZero, "amount")
	}
	if m.Duration == 0 {
		return errors.Wrap(ErrDurationMustBeAboveZero, "duration")
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	return m.GetAsset().Validate()
}

// WithdrawMsg releases a deposit to its receiver.
type WithdrawMsg struct {
	DepositID uint64 `protobuf:"varint,1,opt,name=deposit_id,json=depositId,proto3" json:"deposit_id"`
}

var _ lockbox.Msg = (*WithdrawMsg)(nil)

func (m *WithdrawMsg) Reset()         { *m = WithdrawMsg{} }
func (m *WithdrawMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawMsg) ProtoMessage()    {}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate accepts any id, a missing deposit is reported on delivery.
func (m *WithdrawMsg) Validate() error {
	return nil
}
