package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

const (
	pathCreateTokenMsg = "token/create"
	pathTransferMsg    = "token/transfer"
	pathApproveMsg     = "token/approve"
)

// CreateTokenMsg registers a new token. The whole supply is minted to the
// signer.
type CreateTokenMsg struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Name   string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Supply uint64 `protobuf:"varint,3,opt,name=supply,proto3" json:"supply,omitempty"`
}

var _ lockbox.Msg = (*CreateTokenMsg)(nil)

func (m *CreateTokenMsg) Reset()         { *m = CreateTokenMsg{} }
func (m *CreateTokenMsg) String() string { return proto.CompactTextString(m) }
func (*CreateTokenMsg) ProtoMessage()    {}

func (CreateTokenMsg) Path() string {
	return pathCreateTokenMsg
}

func (m *CreateTokenMsg) Validate() error {
	if !isSymbol(m.Symbol) {
		return errors.Wrapf(errors.ErrMsg, "invalid symbol %q", m.Symbol)
	}
	if len(m.Name) > maxNameLength {
		return errors.Wrap(errors.ErrMsg, "name too long")
	}
	return nil
}

// TransferMsg moves tokens from the signer to the destination.
type TransferMsg struct {
	Token  lockbox.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
	Dest   lockbox.Address `protobuf:"bytes,2,opt,name=dest,proto3" json:"dest,omitempty"`
	Amount uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ lockbox.Msg = (*TransferMsg)(nil)

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := m.Dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return nil
}

// ApproveMsg sets the allowance of a spender over the signer tokens.
type ApproveMsg struct {
	Token   lockbox.Address `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
	Spender lockbox.Address `protobuf:"bytes,2,opt,name=spender,proto3" json:"spender,omitempty"`
	Amount  uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ lockbox.Msg = (*ApproveMsg)(nil)

func (m *ApproveMsg) Reset()         { *m = ApproveMsg{} }
func (m *ApproveMsg) String() string { return proto.CompactTextString(m) }
func (*ApproveMsg) ProtoMessage()    {}

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

// Validate accepts a zero amount, which revokes the allowance.
func (m *ApproveMsg) Validate() error {
	if err := m.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	return nil
}
