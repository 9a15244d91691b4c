package lockbox

import (
	"github.com/iov-one/lockbox/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// Event describes a state change made by a handler. The events of a
// transaction become ABCI tags, so nodes can index deposits and
// withdrawals.
type Event interface {
	// Kind prefixes the tag keys of the event.
	Kind() string
	Attributes() []common.KVPair
}

// DeliverResult is the outcome of a delivered transaction. Failures are
// errors, never results.
type DeliverResult struct {
	// Data is returned to the client, like the id of a new deposit.
	Data   []byte
	Log    string
	Events []Event
	// Tags are published next to the event tags.
	Tags []common.KVPair
}

// ToABCI builds the DeliverTx response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.AllTags()}
}

// AllTags lists Tags, then one tag per event attribute keyed
// "<kind>.<attribute>".
func (d DeliverResult) AllTags() []common.KVPair {
	tags := append([]common.KVPair(nil), d.Tags...)
	for _, ev := range d.Events {
		kind := ev.Kind()
		for _, attr := range ev.Attributes() {
			key := make([]byte, 0, len(kind)+1+len(attr.Key))
			key = append(append(append(key, kind...), '.'), attr.Key...)
			tags = append(tags, common.KVPair{Key: key, Value: attr.Value})
		}
	}
	return tags
}

// CheckResult is the outcome of a checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated bounds the work the transaction may cause.
	GasAllocated int64
}

// ToABCI builds the CheckTx response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError answers DeliverTx with res, or with err when set.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckOrError answers CheckTx with res, or with err when set.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// DeliverTxError reports err with its ABCI code. Only debug mode shows the
// message of uncoded errors.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errorInfo(action string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, action + ": " + log
}
