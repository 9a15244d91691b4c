package x

import (
	"github.com/iov-one/lockbox"
)

// Authenticator tells which conditions signed the transaction being
// processed. Handlers take one in their constructor so the signature
// scheme stays pluggable.
type Authenticator interface {
	// GetConditions lists the fulfilled conditions, main signer first.
	GetConditions(lockbox.Context) []lockbox.Condition
	// HasAddress reports whether a fulfilled condition hashes to addr.
	HasAddress(lockbox.Context, lockbox.Address) bool
}

// MultiAuth merges the view of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator accepting what any of auths accepts.
// Conditions keep the order of auths.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

// GetConditions concatenates the conditions of every authenticator,
// dropping repeats.
func (m MultiAuth) GetConditions(ctx lockbox.Context) []lockbox.Condition {
	var all []lockbox.Condition
	seen := make(map[string]bool)
	for _, auth := range m {
		for _, cond := range auth.GetConditions(ctx) {
			if seen[string(cond)] {
				continue
			}
			seen[string(cond)] = true
			all = append(all, cond)
		}
	}
	return all
}

// HasAddress is true when any authenticator has addr.
func (m MultiAuth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, auth := range m {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx lockbox.Context, auth Authenticator) []lockbox.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]lockbox.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first fulfilled condition. The ledger treats it
// as the caller of an operation. It is nil for an unsigned transaction.
func MainSigner(ctx lockbox.Context, auth Authenticator) lockbox.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
