package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/token"
)

// Tx is the transaction format of lockboxd. Exactly one message field must
// be set.
type Tx struct {
	Signatures      []*sigs.StdSignature  `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	SendMsg         *cash.SendMsg         `protobuf:"bytes,2,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	CreateTokenMsg  *token.CreateTokenMsg `protobuf:"bytes,3,opt,name=create_token_msg,json=createTokenMsg,proto3" json:"create_token_msg,omitempty"`
	TransferMsg     *token.TransferMsg    `protobuf:"bytes,4,opt,name=transfer_msg,json=transferMsg,proto3" json:"transfer_msg,omitempty"`
	ApproveMsg      *token.ApproveMsg     `protobuf:"bytes,5,opt,name=approve_msg,json=approveMsg,proto3" json:"approve_msg,omitempty"`
	DepositMsg      *escrow.DepositMsg    `protobuf:"bytes,6,opt,name=deposit_msg,json=depositMsg,proto3" json:"deposit_msg,omitempty"`
	WithdrawMsg     *escrow.WithdrawMsg   `protobuf:"bytes,7,opt,name=withdraw_msg,json=withdrawMsg,proto3" json:"withdraw_msg,omitempty"`
	BumpSequenceMsg *sigs.BumpSequenceMsg `protobuf:"bytes,8,opt,name=bump_sequence_msg,json=bumpSequenceMsg,proto3" json:"bump_sequence_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ lockbox.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (lockbox.Tx, error) {
	tx := new(Tx)
	if err := lockbox.Unmarshal(bz, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the only message set on the transaction.
func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	var msgs []lockbox.Msg
	add := func(set bool, m lockbox.Msg) {
		if set {
			msgs = append(msgs, m)
		}
	}
	add(tx.SendMsg != nil, tx.SendMsg)
	add(tx.CreateTokenMsg != nil, tx.CreateTokenMsg)
	add(tx.TransferMsg != nil, tx.TransferMsg)
	add(tx.ApproveMsg != nil, tx.ApproveMsg)
	add(tx.DepositMsg != nil, tx.DepositMsg)
	add(tx.WithdrawMsg != nil, tx.WithdrawMsg)
	add(tx.BumpSequenceMsg != nil, tx.BumpSequenceMsg)

	switch len(msgs) {
	case 1:
		return msgs[0], nil
	case 0:
		return nil, errors.Wrap(errors.ErrState, "no message")
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages, only one allowed", len(msgs))
	}
}

// SetMsg sets the field matching the message type.
func (tx *Tx) SetMsg(msg lockbox.Msg) error {
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *token.CreateTokenMsg:
		tx.CreateTokenMsg = m
	case *token.TransferMsg:
		tx.TransferMsg = m
	case *token.ApproveMsg:
		tx.ApproveMsg = m
	case *escrow.DepositMsg:
		tx.DepositMsg = m
	case *escrow.WithdrawMsg:
		tx.WithdrawMsg = m
	case *sigs.BumpSequenceMsg:
		tx.BumpSequenceMsg = m
	default:
		return errors.WithType(errors.ErrType, msg)
	}
	return nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the transaction without the
// signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil
	bz, err := lockbox.Marshal(tx)
	tx.Signatures = sigs
	return bz, err
}
