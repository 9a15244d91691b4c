package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// ResultSet is one column of a query answer. The response Key holds the
// keys and Value the values, in the same order.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys is the key column of models.
func ResultsFromKeys(models []lockbox.Model) *ResultSet {
	return column(models, func(m lockbox.Model) []byte { return m.Key })
}

// ResultsFromValues is the value column of models.
func ResultsFromValues(models []lockbox.Model) *ResultSet {
	return column(models, func(m lockbox.Model) []byte { return m.Value })
}

func column(models []lockbox.Model, field func(lockbox.Model) []byte) *ResultSet {
	rs := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		rs.Results[i] = field(m)
	}
	return rs
}

// ParseQueryResponse joins the encoded key and value columns of a query
// response back into models.
func ParseQueryResponse(keys, values []byte) ([]lockbox.Model, error) {
	var k, v ResultSet
	if err := lockbox.Unmarshal(keys, &k); err != nil {
		return nil, errors.Wrap(err, "query keys")
	}
	if err := lockbox.Unmarshal(values, &v); err != nil {
		return nil, errors.Wrap(err, "query values")
	}
	if len(k.Results) != len(v.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(k.Results), len(v.Results))
	}
	models := make([]lockbox.Model, len(k.Results))
	for i := range models {
		models[i] = lockbox.Pair(k.Results[i], v.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of an encoded ResultSet into
// o. An empty set leaves o untouched.
func UnmarshalOneResult(raw []byte, o lockbox.Persistent) error {
	var rs ResultSet
	if err := lockbox.Unmarshal(raw, &rs); err != nil {
		return err
	}
	if len(rs.Results) == 0 {
		return nil
	}
	return lockbox.Unmarshal(rs.Results[0], o)
}
