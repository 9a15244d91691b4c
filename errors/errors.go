package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by every extension. Codes below 100 are reserved for
// this package.
var (
	// ErrUnauthorized means the signers may not perform the action.
	ErrUnauthorized = Register(2, "unauthorized")
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = Register(3, "not found")
	// ErrMsg means a message is malformed.
	ErrMsg = Register(4, "invalid message")
	// ErrModel means an entity fails validation and cannot be stored.
	ErrModel = Register(5, "invalid model")
	// ErrDuplicate means a unique key or index is taken.
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")
	// ErrInsufficientAmount means a balance cannot cover an amount.
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	// ErrInput is the catch all for malformed input.
	ErrInput   = Register(14, "invalid input")
	ErrExpired = Register(15, "expired")
	// ErrOverflow means a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")
	// ErrDatabase means the store misbehaved.
	ErrDatabase = Register(17, "database error")
	// ErrIteratorDone is returned by Next past the last element.
	ErrIteratorDone = Register(18, "iterator done")
	// ErrPanic wraps a recovered panic. Its message is never shown to
	// clients.
	ErrPanic = Register(111222, "panic")
)

// Longer names of some root errors.
var (
	ErrInvalidInput  = ErrInput
	ErrInvalidAmount = ErrAmount
	ErrInvalidState  = ErrState
)

// registry holds every registered root error by code. Code 1 stands for
// errors without a code.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: "internal"},
}

// Register declares a root error. Call it from package level variables
// only: registering a code twice panics.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		panic(fmt.Sprintf("error code %d is taken by %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap one, which sets
// the code reported to clients.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode is the code clients see for this error.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is e or wraps it. A nil e matches only a nil
// err, including a typed nil pointer.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	found := false
	walk(err, func(link error) bool {
		if t, ok := link.(*tagged); ok {
			found = t.kind == e
		} else {
			found = link == e
		}
		return found
	})
	return found
}

// Wrap adds description in front of the message of err and records a
// stack trace unless err already carries one. A nil err stays nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: description, cause: err}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrapf(err, "%T", obj)
}

// Tag marks err as an error of kind. err stays the cause, so Is matches
// both kind and every error err wraps. The code reported to clients is the
// code of kind. A nil err stays nil.
func Tag(kind *Error, err error) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &tagged{kind: kind, cause: err}
}

// Recover turns a panic into an ErrPanic stored in err. Use it deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Cause() error {
	return w.cause
}

// Format prints the message chain. %+v adds the stack trace recorded by
// Wrap.
func (w *wrapped) Format(s fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(s, "%q", w.Error())
	case 'v':
		io.WriteString(s, w.Error())
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v", stackTrace(w))
		}
	default:
		io.WriteString(s, w.Error())
	}
}

type tagged struct {
	kind  *Error
	cause error
}

func (t *tagged) Error() string {
	return t.kind.desc + ": " + t.cause.Error()
}

func (t *tagged) Cause() error {
	return t.cause
}

func (t *tagged) ABCICode() uint32 {
	return t.kind.code
}

type causer interface {
	Cause() error
}

// walk calls fn for err and each error it wraps, outermost first, until fn
// returns true.
func walk(err error, fn func(error) bool) {
	for err != nil {
		if fn(err) {
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

// stackTrace returns the outermost stack trace carried by err, if any.
func stackTrace(err error) errors.StackTrace {
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	var trace errors.StackTrace
	walk(err, func(link error) bool {
		if t, ok := link.(tracer); ok {
			trace = t.StackTrace()
			return true
		}
		return false
	})
	return trace
}

// isNilErr is true for nil and for a nil pointer in an error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
