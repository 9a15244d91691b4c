package server

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	iavlstore "github.com/iov-one/lockbox/store/iavl"
	"github.com/spf13/cobra"
	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"
)

// InlineAppGenerator builds the application over an opened store.
type InlineAppGenerator func(kv lockbox.CommitKVStore, logger log.Logger, debug bool) abci.Application

// RetryCmd replays the last block of a stopped node against the state
// before it and prints the resulting app hash. With --error it replays up
// to --max times, stopping at the first differing hash.
func RetryCmd(makeApp InlineAppGenerator) *cobra.Command {
	var r replay
	cmd := &cobra.Command{
		Use:   "retry <app.db dir> <block.json>",
		Short: "Replay the last block and compare the app hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig()
			if err != nil {
				return err
			}
			logger, err := NewLogger(conf.LogLevel)
			if err != nil {
				return err
			}
			if r.block, err = loadBlock(args[1]); err != nil {
				return err
			}
			if r.tree, err = loadTree(args[0], r.block.Header.Height); err != nil {
				return err
			}
			r.out = cmd.OutOrStdout()
			r.newApp = func(kv lockbox.CommitKVStore) abci.Application {
				return makeApp(kv, logger, r.debug)
			}
			return r.run()
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&r.debug, flagDebug, false, "show full errors of failed transactions")
	flags.BoolVar(&r.untilMismatch, "error", false, "replay until the app hash differs")
	flags.IntVar(&r.maxTries, "max", 10, "replays done with --error")
	return cmd
}

type replay struct {
	out    io.Writer
	tree   *iavl.MutableTree
	block  *types.Block
	newApp func(lockbox.CommitKVStore) abci.Application

	debug         bool
	untilMismatch bool
	maxTries      int
}

func (r *replay) run() error {
	fmt.Fprintf(r.out, "Block height: %d\n", r.block.Header.Height)
	fmt.Fprintf(r.out, "Stored hash: %X\n", r.tree.Hash())

	tries := 1
	if r.untilMismatch {
		tries = r.maxTries
	}
	for i := 0; i < tries; i++ {
		same, err := r.once()
		if err != nil {
			return err
		}
		if !same {
			fmt.Fprintf(r.out, "Hash differs after %d replays\n", i+1)
			return nil
		}
	}
	return nil
}

// once rolls the tree back one version and delivers the block again. It
// reports whether the new hash equals the stored one.
func (r *replay) once() (bool, error) {
	stored := r.tree.Hash()
	height := r.block.Header.Height
	if _, err := r.tree.LoadVersionForOverwriting(height - 1); err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "rollback to %d: %s", height-1, err)
	}

	app := r.newApp(iavlstore.NewCommitStoreFromTree(r.tree))
	app.BeginBlock(abci.RequestBeginBlock{
		Hash:   r.block.Header.Hash(),
		Header: types.TM2PB.Header(&r.block.Header),
	})
	for i, tx := range r.block.Txs {
		res := app.DeliverTx(tx)
		fmt.Fprintf(r.out, "Tx %d: code=%d %s\n", i, res.Code, res.Log)
	}
	app.EndBlock(abci.RequestEndBlock{Height: height})
	hash := app.Commit().Data
	fmt.Fprintf(r.out, "Replayed hash: %X\n", hash)
	return bytes.Equal(stored, hash), nil
}

func loadBlock(path string) (*types.Block, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read block: %s", err)
	}
	var block *types.Block
	if err := cdc.UnmarshalJSON(raw, &block); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode block: %s", err)
	}
	return block, nil
}

// loadTree opens the app state and checks it is at the block height.
func loadTree(dir string, height int64) (*iavl.MutableTree, error) {
	db, err := openDb(dir)
	if err != nil {
		return nil, err
	}
	tree := iavl.NewMutableTree(db, iavlstore.DefaultCacheSize)
	ver, err := tree.Load()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "load app state: %s", err)
	}
	if ver != height {
		return nil, errors.Wrapf(errors.ErrState, "app state at height %d, block at %d", ver, height)
	}
	return tree, nil
}
