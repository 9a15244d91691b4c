package lockboxtest

import (
	"context"

	"github.com/iov-one/lockbox"
)

// Auth authenticates a fixed set of conditions. Signer, when set, comes
// first and is the main signer.
type Auth struct {
	Signer  lockbox.Condition
	Signers []lockbox.Condition
}

// GetConditions returns Signer followed by Signers.
func (a *Auth) GetConditions(lockbox.Context) []lockbox.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]lockbox.Condition{a.Signer}, a.Signers...)
}

// HasAddress is true when a condition of a hashes to addr.
func (a *Auth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

// CtxAuth keeps the authenticated conditions in the context under Key, so
// each test step can sign differently.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context authenticating conds.
func (a *CtxAuth) SetConditions(ctx lockbox.Context, conds ...lockbox.Condition) lockbox.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

// GetConditions returns what SetConditions stored with the same Key.
func (a *CtxAuth) GetConditions(ctx lockbox.Context) []lockbox.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]lockbox.Condition)
	return conds
}

// HasAddress is true when a stored condition hashes to addr.
func (a *CtxAuth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

func anyAddress(conds []lockbox.Condition, addr lockbox.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
