package lockbox

import (
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/stretchr/testify/assert"
)

type withdrawMsg struct {
	ID   uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Memo string `protobuf:"bytes,2,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (*withdrawMsg) Path() string     { return "escrow/withdraw" }
func (*withdrawMsg) Validate() error  { return nil }
func (m *withdrawMsg) Reset()         { *m = withdrawMsg{} }
func (m *withdrawMsg) String() string { return "withdraw" }
func (*withdrawMsg) ProtoMessage()    {}

var _ Msg = (*withdrawMsg)(nil)

type fakeTx struct {
	Tx
	msg Msg
	err error
}

func (tx *fakeTx) GetMsg() (Msg, error) {
	return tx.msg, tx.err
}

type failingMsg struct {
	Msg
	err error
}

func (m *failingMsg) Validate() error {
	return m.err
}

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    interface{}
		want    interface{}
		wantErr *errors.Error
	}{
		"withdraw message": {
			tx:   &fakeTx{msg: &withdrawMsg{ID: 3, Memo: "rent"}},
			dest: &withdrawMsg{},
			want: &withdrawMsg{ID: 3, Memo: "rent"},
		},
		"message fails to decode": {
			tx:      &fakeTx{err: errors.ErrInput.New("broken")},
			dest:    &withdrawMsg{},
			wantErr: errors.ErrInput,
		},
		"no message": {
			tx:      &fakeTx{},
			dest:    &withdrawMsg{},
			wantErr: errors.ErrState,
		},
		"typed nil message": {
			tx:      &fakeTx{msg: (*withdrawMsg)(nil)},
			dest:    &withdrawMsg{},
			wantErr: errors.ErrState,
		},
		"destination not a pointer": {
			tx:      &fakeTx{msg: &withdrawMsg{ID: 1}},
			dest:    withdrawMsg{},
			wantErr: errors.ErrType,
		},
		"nil destination": {
			tx:      &fakeTx{msg: &withdrawMsg{ID: 1}},
			dest:    (*withdrawMsg)(nil),
			wantErr: errors.ErrType,
		},
		"other message type": {
			tx:      &fakeTx{msg: &withdrawMsg{ID: 1}},
			dest:    &failingMsg{},
			wantErr: errors.ErrType,
		},
		"message fails validation": {
			tx:      &fakeTx{msg: &failingMsg{err: errors.ErrAmount}},
			dest:    &failingMsg{},
			wantErr: errors.ErrAmount,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, tc.dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "escrow/withdraw", GetPath(&fakeTx{msg: &withdrawMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&fakeTx{}))
	assert.Equal(t, "(missing)", GetPath(&fakeTx{err: errors.ErrInput}))
	assert.Equal(t, "(missing)", GetPath(nil))
}

func TestMarshal(t *testing.T) {
	msg := &withdrawMsg{ID: 7, Memo: "seven"}
	raw, err := Marshal(msg)
	assert.NoError(t, err)

	var got withdrawMsg
	assert.NoError(t, Unmarshal(raw, &got))
	assert.Equal(t, *msg, got)

	assert.True(t, errors.ErrInput.Is(Unmarshal([]byte{0xff, 0xff}, &got)))
}
