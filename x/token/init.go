package token

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

const optKey = "token"

// GenesisToken registers a token and mints its supply to the minter.
type GenesisToken struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Supply uint64          `json:"supply"`
	Minter lockbox.Address `json:"minter"`
}

// GenesisBalance mints additional units of a token to a holder.
type GenesisBalance struct {
	Symbol  string          `json:"symbol"`
	Holder  lockbox.Address `json:"holder"`
	Balance uint64          `json:"balance"`
}

// Genesis is the "token" section of the genesis app state.
type Genesis struct {
	Tokens   []GenesisToken   `json:"tokens"`
	Balances []GenesisBalance `json:"balances"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis registers the listed tokens and balances.
func (Initializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	control := NewController()
	for _, t := range gen.Tokens {
		if _, err := control.Create(kv, t.Minter, t.Symbol, t.Name, t.Supply); err != nil {
			return errors.Wrapf(err, "token %q", t.Symbol)
		}
	}
	for _, b := range gen.Balances {
		if err := b.Holder.Validate(); err != nil {
			return errors.Wrapf(err, "holder of %q", b.Symbol)
		}
		if err := control.Mint(kv, Address(b.Symbol), b.Holder, b.Balance); err != nil {
			return errors.Wrapf(err, "balance of %q", b.Symbol)
		}
	}
	return nil
}
