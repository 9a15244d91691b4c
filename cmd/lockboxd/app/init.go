package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DemoBalance is the native balance of the genesis account.
	DemoBalance = 123456789
	// DemoToken is registered at genesis with the genesis account as
	// minter.
	DemoToken       = "LBX"
	demoTokenSupply = 1000000
)

// GenesisAppState returns the app_state funding owner with the native asset
// and the whole supply of the demo token.
func GenesisAppState(owner lockbox.Address) (json.RawMessage, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis owner")
	}
	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: owner, Balance: DemoBalance},
		},
		"token": token.Genesis{
			Tokens: []token.GenesisToken{
				{Symbol: DemoToken, Name: "Lockbox demo token", Supply: demoTokenSupply, Minter: owner},
			},
		},
		"escrow": escrow.Genesis{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateKey returns a new private key together with its address. It is
// derived from seed when one is given.
func GenerateKey(seed []byte, path string) (*crypto.PrivateKey, lockbox.Address, error) {
	var key *crypto.PrivateKey
	if len(seed) == 0 {
		key = crypto.GenPrivKeyEd25519()
	} else {
		var err error
		if key, err = crypto.DeriveKey(seed, path); err != nil {
			return nil, nil, err
		}
	}
	return key, key.PublicKey().Address(), nil
}

// GenInitOptions produces the app_state for a dev chain with one rich
// account. The owner address can be given as the first argument, otherwise
// a key is generated and its seed printed so it can be recovered with the
// keys command.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args) > 0 {
		owner, err := lockbox.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		return GenesisAppState(owner)
	}

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	_, owner, err := GenerateKey(seed, "")
	if err != nil {
		return nil, err
	}
	fmt.Printf("genesis owner %X\nseed %s\n", []byte(owner), hex.EncodeToString(seed))
	return GenesisAppState(owner)
}

// GenerateApp creates the application storing its state under home. An
// empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, Name+".db")
	}
	return Application(dbPath, logger, debug)
}
