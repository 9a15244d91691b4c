package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both as a number and with bytes.Compare().
//
// The first value handed out is 0.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal returns the current value of the sequence as 8 bytes and advances
// the sequence.
func (s Sequence) NextVal(db lockbox.KVStore) ([]byte, error) {
	_, bz, err := s.next(db)
	return bz, err
}

// NextInt returns the current value of the sequence and advances the
// sequence.
func (s Sequence) NextInt(db lockbox.KVStore) (uint64, error) {
	val, _, err := s.next(db)
	return val, err
}

// Peek returns the value the next NextInt call would return. This method does
// not modify the sequence state.
func (s Sequence) Peek(db lockbox.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

// SetAtLeast moves the sequence forward so that it hands out no value lower
// than val. A sequence can never be moved backwards.
func (s Sequence) SetAtLeast(db lockbox.KVStore, val uint64) error {
	current, err := s.Peek(db)
	if err != nil {
		return err
	}
	if val < current {
		return errors.Wrapf(errors.ErrState, "sequence at %d cannot be moved back to %d", current, val)
	}
	return db.Set(s.id, EncodeSequence(val))
}

func (s Sequence) next(db lockbox.KVStore) (uint64, []byte, error) {
	val, err := s.Peek(db)
	if err != nil {
		return 0, nil, err
	}
	if val == math.MaxUint64 {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, nil, err
	}
	return val, EncodeSequence(val), nil
}

// DecodeSequence reads the 8 byte big endian form of a sequence value. A
// missing value is zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if err := ValidateSequence(bz); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence returns the 8 byte big endian form of a sequence value.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
