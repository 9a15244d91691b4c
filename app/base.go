package app

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that decodes transactions and runs them through a
// handler.
type BaseApp struct {
	*StoreApp
	decoder lockbox.TxDecoder
	handler lockbox.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application decoding with decoder and running
// handler. With debug set, error logs carry stack traces.
func NewBaseApp(store *StoreApp, decoder lockbox.TxDecoder, handler lockbox.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// CheckTx runs the handler checks against the check cache.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return lockbox.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return lockbox.CheckOrError(res, err, b.debug)
}

// DeliverTx runs the handler against the deliver cache.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return lockbox.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return lockbox.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx lockbox.Tx) lockbox.Context {
	return lockbox.WithLogInfo(b.BlockContext(), "call", call, "path", lockbox.GetPath(tx))
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx lockbox.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
