package escrow

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

const optKey = "escrow"

// Genesis is the "escrow" section of the genesis file. Deposits cannot be
// created from genesis, only the counter can be moved forward.
type Genesis struct {
	Counter uint64 `json:"counter"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis moves the deposit counter forward. A counter lower than the
// one already stored is rejected.
func (Initializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if err := NewBucket().ids.SetAtLeast(kv, gen.Counter); err != nil {
		return errors.Wrap(err, "deposit counter")
	}
	return nil
}
