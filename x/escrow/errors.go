package escrow

import "github.com/iov-one/lockbox/errors"

var (
	ErrAmountMustBeAboveZero         = errors.Register(1020, "amount must be above zero")
	ErrDurationMustBeAboveZero       = errors.Register(1021, "duration must be above zero")
	ErrDepositDoesNotExist           = errors.Register(1022, "deposit does not exist")
	ErrDepositIsStillLocked          = errors.Register(1023, "deposit is still locked")
	ErrMsgSenderIsNotDepositReceiver = errors.Register(1024, "msg sender is not deposit receiver")
	ErrAssetTransferFailed           = errors.Register(1025, "asset transfer failed")
)
