package token

import "github.com/iov-one/lockbox/errors"

// ErrInsufficientAllowance is returned when a spender tries to transfer more
// than the owner approved.
var ErrInsufficientAllowance = errors.Register(1040, "insufficient allowance")
