package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	// errors without a registered code are reported as internal, with a
	// fixed message unless debugging
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log for a response carrying err. Errors
// without a code get code 1, and their message is hidden unless debug is
// set. In debug mode the log holds the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from a response code and log. Registered
// codes give an error matching the root error with Is.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if root, ok := registry[code]; ok && code != internalABCICode {
		return Wrap(root, log)
	}
	return Wrap(errors.New(internalABCILog), log)
}

// abciCode returns the code of the outermost error providing one, or the
// internal code.
func abciCode(err error) uint32 {
	type coder interface {
		ABCICode() uint32
	}
	code := internalABCICode
	walk(err, func(link error) bool {
		if c, ok := link.(coder); ok {
			code = c.ABCICode()
			return true
		}
		return false
	})
	return code
}

// Redact replaces errors without a code, and recovered panics, with a
// generic internal error. Debug mode keeps err as it is.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
