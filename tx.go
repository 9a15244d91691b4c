package lockbox

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox/errors"
)

// Persistent is anything stored or sent in protobuf encoding.
type Persistent interface {
	proto.Message
}

// Validater checks its own fields.
type Validater interface {
	Validate() error
}

// Marshal encodes p.
func Marshal(p Persistent) ([]byte, error) {
	raw, err := proto.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "marshal %T: %s", p, err)
	}
	return raw, nil
}

// Unmarshal decodes raw into p.
func Unmarshal(raw []byte, p Persistent) error {
	if err := proto.Unmarshal(raw, p); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshal %T: %s", p, err)
	}
	return nil
}

// Msg is a request to change state, like a deposit. Signatures live in
// the Tx around it.
type Msg interface {
	Persistent
	Validater

	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+, like "escrow/deposit".
	Path() string
}

// Tx is what clients submit: one message plus the data middleware needs,
// like signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(raw []byte) (Tx, error)

const missingPath = "(missing)"

// GetPath returns the path of the message of tx, or "(missing)".
func GetPath(tx Tx) string {
	if tx == nil {
		return missingPath
	}
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return missingPath
}

// LoadMsg copies the message of tx into dest, a non nil pointer to the
// message type, and validates it.
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "load message")
	}
	src := reflect.ValueOf(msg)
	if msg == nil || (src.Kind() == reflect.Ptr && src.IsNil()) {
		return errors.Wrap(errors.ErrState, "transaction has no message")
	}
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return errors.Wrapf(errors.ErrType, "cannot load message into %T", dest)
	}
	src = reflect.Indirect(src)
	if !src.Type().AssignableTo(target.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "message is %T, not %T", msg, dest)
	}
	target.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
