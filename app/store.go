package app

import (
	"encoding/json"
	"strings"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp is the storage half of an application: it answers Info, Query,
// InitChain, BeginBlock, EndBlock and Commit. BaseApp embeds it and adds
// transaction processing.
//
// The steps that take no user input panic on failure, as the node cannot
// continue with a broken store.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer lockbox.Initializer
	queryRouter lockbox.QueryRouter

	// chainID is empty until genesis was loaded
	chainID string
	// baseContext holds what is valid for the whole run, like the chain id
	baseContext lockbox.Context
	// blockContext adds height and time of the current block
	blockContext lockbox.Context
}

var _ abci.Application = (*StoreApp)(nil)

// NewStoreApp loads the latest version of kv. A chain id saved by an
// earlier genesis is restored. It panics when kv cannot be loaded.
func NewStoreApp(name string, kv lockbox.CommitKVStore, queryRouter lockbox.QueryRouter, baseContext lockbox.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(kv),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if id := mustLoadChainID(s.DeliverStore()); id != "" {
		s.chainID = id
		s.baseContext = lockbox.WithChainID(s.baseContext, id)
	}
	s.blockContext = lockbox.WithHeight(s.baseContext, s.mustCommitInfo().Version)
	return s
}

// WithInit sets the genesis initializer.
func (s *StoreApp) WithInit(init lockbox.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every handler context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = lockbox.WithLogger(s.baseContext, logger)
	return s
}

// Logger returns the app logger.
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// GetChainID returns the chain id, empty before genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext is the context transactions of the current block run in.
func (s *StoreApp) BlockContext() lockbox.Context {
	return s.blockContext
}

// DeliverStore is the cache DeliverTx writes into until Commit.
func (s *StoreApp) DeliverStore() lockbox.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the cache CheckTx writes into, dropped on Commit.
func (s *StoreApp) CheckStore() lockbox.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) mustCommitInfo() lockbox.CommitID {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	return info
}

// loadGenesis saves the chain id and runs the initializer over the
// app_state. It only succeeds once per store.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "genesis has no app_state, run init first")
	}
	var opts lockbox.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = lockbox.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		s.logger.Info("No initializer, app_state ignored")
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info := s.mustCommitInfo()
	s.logger.Info("Info synced", "height", info.Version, "hash", info.Hash)
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          lockbox.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query runs a read only query against the committed state. The path
// selects the handler, "/" for raw keys or "/<bucket>". A "?prefix"
// suffix turns Data into a key prefix. Only the latest height is served.
//
// Key and Value of the response are ResultSets of the same length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queryRouter.Handler(path)
	if handler == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	if req.Height != 0 && req.Height != info.Version {
		return queryError(errors.Wrapf(errors.ErrInput, "only height %d can be queried", info.Version))
	}

	view := s.store.committed.CacheWrap()
	defer view.Discard()
	models, err := handler.Query(view, mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = lockbox.Marshal(ResultsFromKeys(models)); err != nil {
		return queryError(err)
	}
	if res.Value, err = lockbox.Marshal(ResultsFromValues(models)); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath cuts the query path at the first "?" into path and modifier.
func splitPath(full string) (path string, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit persists the delivered block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", id.Hash)
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app_state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts a block context with the block height and time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := lockbox.WithHeight(s.baseContext, req.Header.GetHeight())
	s.blockContext = lockbox.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// CheckTx needs a BaseApp.
func (s *StoreApp) CheckTx([]byte) abci.ResponseCheckTx {
	return lockbox.CheckTxError(errors.Wrap(errors.ErrHuman, "StoreApp cannot check transactions"), false)
}

// DeliverTx needs a BaseApp.
func (s *StoreApp) DeliverTx([]byte) abci.ResponseDeliverTx {
	return lockbox.DeliverTxError(errors.Wrap(errors.ErrHuman, "StoreApp cannot deliver transactions"), false)
}
