package lockboxtest

import "github.com/iov-one/lockbox"

// Decorator counts its calls and passes them on to the next step, unless
// CheckErr or DeliverErr is set, which is returned instead.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks   int
	delivers int
}

var _ lockbox.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CheckCallCount counts Check calls, failed ones included.
func (d *Decorator) CheckCallCount() int { return d.checks }

// DeliverCallCount counts Deliver calls, failed ones included.
func (d *Decorator) DeliverCallCount() int { return d.delivers }

// CallCount counts all calls.
func (d *Decorator) CallCount() int { return d.checks + d.delivers }

// Decorate puts d in front of h.
func Decorate(h lockbox.Handler, d lockbox.Decorator) lockbox.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next lockbox.Handler
	dec  lockbox.Decorator
}

func (d decorated) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
