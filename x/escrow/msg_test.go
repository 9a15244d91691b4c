package escrow

import (
	"testing"

	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
)

func TestDepositMsgValidate(t *testing.T) {
	receiver := lockboxtest.NewCondition().Address()
	native := &Asset{Kind: AssetNative}

	cases := map[string]struct {
		msg     DepositMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: DepositMsg{Receiver: receiver, Asset: native, Amount: 1, Duration: 1, Value: 1},
		},
		"zero amount": {
			msg:     DepositMsg{Receiver: receiver, Asset: native, Duration: 1},
			wantErr: ErrAmountMustBeAboveZero,
		},
		"zero duration": {
			msg:     DepositMsg{Receiver: receiver, Asset: native, Amount: 1, Value: 1},
			wantErr: ErrDurationMustBeAboveZero,
		},
		"missing receiver": {
			msg:     DepositMsg{Asset: native, Amount: 1, Duration: 1},
			wantErr: errors.ErrInvalidInput,
		},
		"missing asset": {
			msg:     DepositMsg{Receiver: receiver, Amount: 1, Duration: 1},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
		})
	}
}
