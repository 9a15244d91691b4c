package cash

import (
	"strings"
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
)

func TestSendMsgValidate(t *testing.T) {
	src := lockboxtest.NewCondition().Address()
	dest := lockboxtest.NewCondition().Address()

	cases := map[string]struct {
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &SendMsg{Src: src, Dest: dest, Amount: 1, Memo: "hi"},
		},
		"zero amount": {
			msg:     &SendMsg{Src: src, Dest: dest},
			wantErr: errors.ErrInvalidAmount,
		},
		"missing source": {
			msg:     &SendMsg{Dest: dest, Amount: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"invalid destination": {
			msg:     &SendMsg{Src: src, Dest: []byte("short"), Amount: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"memo too long": {
			msg:     &SendMsg{Src: src, Dest: dest, Amount: 1, Memo: strings.Repeat("x", maxMemoSize+1)},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
