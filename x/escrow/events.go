package escrow

import (
	"strconv"

	"github.com/iov-one/lockbox"
	"github.com/tendermint/tendermint/libs/common"
)

// DepositEvent is emitted when value is locked in the ledger.
type DepositEvent struct {
	ID          uint64
	Receiver    lockbox.Address
	Asset       Asset
	Amount      uint64
	ReleaseTime lockbox.UnixTime
}

var _ lockbox.Event = (*DepositEvent)(nil)

func (*DepositEvent) Kind() string { return "deposit" }

func (e *DepositEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		attr("id", strconv.FormatUint(e.ID, 10)),
		attr("receiver", e.Receiver.String()),
		attr("asset", e.Asset.Text()),
		attr("amount", strconv.FormatUint(e.Amount, 10)),
		attr("release_time", strconv.FormatInt(int64(e.ReleaseTime), 10)),
	}
}

// WithdrawalEvent is emitted when a deposit is released to its receiver.
type WithdrawalEvent struct {
	ID       uint64
	Receiver lockbox.Address
	Asset    Asset
	Amount   uint64
}

var _ lockbox.Event = (*WithdrawalEvent)(nil)

func (*WithdrawalEvent) Kind() string { return "withdrawal" }

func (e *WithdrawalEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		attr("id", strconv.FormatUint(e.ID, 10)),
		attr("receiver", e.Receiver.String()),
		attr("asset", e.Asset.Text()),
		attr("amount", strconv.FormatUint(e.Amount, 10)),
	}
}

func attr(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
