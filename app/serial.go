package app

import (
	"sync"

	abci "github.com/tendermint/tendermint/abci/types"
)

// SerialApp guards an application with a single lock so that several
// front ends, such as the ABCI socket server and the HTTP api, can share
// it. The socket server only serializes the calls it receives itself.
type SerialApp struct {
	mu  sync.Mutex
	app abci.Application
}

var _ abci.Application = (*SerialApp)(nil)

// NewSerialApp wraps app.
func NewSerialApp(app abci.Application) *SerialApp {
	return &SerialApp{app: app}
}

func (s *SerialApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Info(req)
}

func (s *SerialApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.SetOption(req)
}

func (s *SerialApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Query(req)
}

func (s *SerialApp) CheckTx(tx []byte) abci.ResponseCheckTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.CheckTx(tx)
}

func (s *SerialApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.InitChain(req)
}

func (s *SerialApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.BeginBlock(req)
}

func (s *SerialApp) DeliverTx(tx []byte) abci.ResponseDeliverTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.DeliverTx(tx)
}

func (s *SerialApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.EndBlock(req)
}

func (s *SerialApp) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Commit()
}
