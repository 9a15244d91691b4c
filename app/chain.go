package app

import (
	"reflect"

	"github.com/iov-one/lockbox"
)

// Decorators is a stack of decorators waiting for the handler they wrap.
//
//	app.ChainDecorators(
//	  utils.NewRecovery(),
//	  utils.NewLogging(),
//	  sigs.NewDecorator(),
//	  utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []lockbox.Decorator
}

// ChainDecorators starts a stack. The first decorator runs first.
func ChainDecorators(chain ...lockbox.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with chain appended. Nil decorators are
// dropped so optional ones can be passed unconditionally.
func (d Decorators) Chain(chain ...lockbox.Decorator) Decorators {
	all := make([]lockbox.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(all, d.chain)
	for _, dec := range chain {
		if !isNil(dec) {
			all = append(all, dec)
		}
	}
	return Decorators{chain: all}
}

func isNil(d lockbox.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h lockbox.Handler) lockbox.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{dec: d.chain[i], next: h}
	}
	return h
}

// decorated runs one decorator around the rest of the stack.
type decorated struct {
	dec  lockbox.Decorator
	next lockbox.Handler
}

var _ lockbox.Handler = decorated{}

func (s decorated) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s decorated) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}
