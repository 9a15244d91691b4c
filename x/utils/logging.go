package utils

import (
	"time"

	"github.com/iov-one/lockbox"
)

// Logging logs every transaction with its path and duration. Failures are
// errors. Successful deliveries log at info and successful checks at
// debug.
type Logging struct{}

var _ lockbox.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, false)
	return res, err
}

// logTx writes one line, even for an empty msg.
func logTx(ctx lockbox.Context, tx lockbox.Tx, start time.Time, msg string, err error, check bool) {
	logger := lockbox.GetLogger(ctx).With(
		"path", lockbox.GetPath(tx),
		"duration_us", time.Since(start).Microseconds(),
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
