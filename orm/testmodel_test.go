package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox/errors"
)

// Counter is a minimal model used across the orm tests.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Owner []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Copy() CloneableData {
	return &Counter{Count: m.Count, Owner: append([]byte(nil), m.Owner...)}
}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func counterObj(key string, count int64, owner string) Object {
	var o []byte
	if owner != "" {
		o = []byte(owner)
	}
	return NewSimpleObj([]byte(key), &Counter{Count: count, Owner: o})
}

func ownerIndex(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	if len(c.Owner) == 0 {
		return nil, nil
	}
	return c.Owner, nil
}
