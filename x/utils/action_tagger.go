package utils

import (
	"github.com/iov-one/lockbox"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey tags each delivered transaction with its message path, so
// clients can subscribe to "action='escrow/withdraw'".
const ActionKey = "action"

// ActionTagger adds the ActionKey tag to successful deliveries.
type ActionTagger struct{}

var _ lockbox.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before calling next when tx has no readable message.
func (ActionTagger) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
