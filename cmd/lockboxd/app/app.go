// Package app assembles the lockboxd node: the cash, token, escrow and
// signature extensions behind one decorator chain.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store/iavl"
	"github.com/iov-one/lockbox/x"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/token"
	"github.com/iov-one/lockbox/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is used for the application name and the database file.
const Name = "lockbox"

// Authenticator trusts the ed25519 signatures checked by the sigs
// decorator.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle recovery, logging,
// authentication and atomic delivery.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message leaves no partial state
		// behind, the signer sequence is bumped by the decorator
		// above the savepoint
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching every message of Tx.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashCtrl := cash.NewController(cash.NewBucket())
	tokenCtrl := token.NewController()
	cash.RegisterRoutes(r, authFn, cashCtrl)
	token.RegisterRoutes(r, authFn, tokenCtrl)
	escrow.RegisterRoutes(r, authFn, escrow.NewController(escrow.NewTransfers(cashCtrl, tokenCtrl)))
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router, allowing access to "/",
// "/wallets", "/auth", "/tokens", "/tokenbalances", "/allowances" and
// "/deposits".
func QueryRouter() lockbox.QueryRouter {
	r := lockbox.NewQueryRouter()
	r.RegisterAll(
		app.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializers loads the genesis state of every module.
func Initializers() lockbox.Initializer {
	return lockbox.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	)
}

// Stack is the handler BaseApp runs every transaction through.
func Stack() lockbox.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs the ABCI application storing its state under
// dbPath. An empty dbPath keeps the state in memory.
func Application(dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	return newApp(kv, logger, debug), nil
}

// InlineApp constructs the ABCI application over an already opened store.
func InlineApp(kv lockbox.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	return newApp(kv, logger, debug)
}

func newApp(kv lockbox.CommitKVStore, logger log.Logger, debug bool) app.BaseApp {
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers()).
		WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, Stack(), debug)
}

// CommitKVStore opens the iavl store at dbPath, an in memory store for an
// empty path.
func CommitKVStore(dbPath string) (lockbox.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q", dbPath)
	}
	// some callers add a ".db" suffix, the store adds its own
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
