package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves the native asset from one address to another.
type SendMsg struct {
	Src    lockbox.Address `protobuf:"bytes,1,opt,name=src,proto3" json:"src,omitempty"`
	Dest   lockbox.Address `protobuf:"bytes,2,opt,name=dest,proto3" json:"dest,omitempty"`
	Amount uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo   string          `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ lockbox.Msg = (*SendMsg)(nil)

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive SendMsg")
	}
	if err := m.Src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := m.Dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}
