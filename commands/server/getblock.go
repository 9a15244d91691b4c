package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/cobra"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// GetBlockCmd extracts a block from a tendermint blockstore.db and prints
// it as json. The last block is taken unless --height is given.
func GetBlockCmd() *cobra.Command {
	var height int64
	cmd := &cobra.Command{
		Use:   "getblock <path to blockstore.db>",
		Short: "Extract a block from blockstore.db",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			js, err := GetBlock(args[0], height)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(js))
			return nil
		},
	}
	cmd.Flags().Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	return cmd
}

// GetBlock returns the amino json of the block at height, or of the last
// block when height is zero.
func GetBlock(dbPath string, height int64) ([]byte, error) {
	db, err := openDb(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	block := store.LoadBlock(height)
	if block == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return js, nil
}

// openDb opens the goleveldb database stored in a directory ending with
// ".db".
func openDb(dir string) (dbm.DB, error) {
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if filepath.Ext(dir) != ".db" {
		return nil, errors.Wrapf(errors.ErrInput, "database directory %q must end with .db", dir)
	}
	name := strings.TrimSuffix(filepath.Base(dir), ".db")
	db, err := dbm.NewGoLevelDB(name, filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db, nil
}
