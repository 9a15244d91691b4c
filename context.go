package lockbox

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context carries block data to handlers. Each value has a With setter and
// a getter. Setters of values that identify the block or chain panic when
// the value is already set.
type Context = context.Context

type ctxKey int

const (
	heightKey ctxKey = iota
	chainIDKey
	blockTimeKey
	loggerKey
)

// IsValidChainID reports whether id may name a chain.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

var nopLogger = log.NewNopLogger()

// WithHeight sets the block height. It panics when already set.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns the block height, if set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithBlockTime sets the time of the block. Handlers never read the wall
// clock.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, blockTimeKey, t)
}

// BlockTime returns the time of the block, if set.
func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(blockTimeKey).(time.Time)
	return t, ok
}

// BlockNow is BlockTime in seconds. A context without block time is a
// setup error, so BlockNow panics.
func BlockNow(ctx Context) UnixTime {
	t, ok := BlockTime(ctx)
	if !ok {
		panic("no block time in context")
	}
	return AsUnixTime(t)
}

// Unlocked reports whether the block time reached release.
func Unlocked(ctx Context, release UnixTime) bool {
	return BlockNow(ctx) >= release
}

// WithChainID sets the chain id. It panics on an invalid id or when the id
// is already set.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(chainIDKey) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return context.WithValue(ctx, chainIDKey, chainID)
}

// GetChainID returns the chain id. It panics when unset.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("no chain id in context")
	}
	return id
}

// WithLogger sets the logger handlers log to.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLogInfo adds key value pairs to every later log line of ctx.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the logger of ctx, a no-op logger when unset.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return nopLogger
}
