package lockbox

import (
	"encoding/json"

	"github.com/iov-one/lockbox/errors"
)

// Handler processes the messages of one path, like "escrow/deposit".
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction for the mempool.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction of a block.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs before a handler and decides whether, and with which
// context and store, the next step runs. Signature checks and logging are
// decorators.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, one json document per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the document of key into obj. A missing key leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}

// ChainInitializers runs inits in order and stops at the first error.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (inits initializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range inits {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
