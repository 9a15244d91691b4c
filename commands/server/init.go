package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to the genesis file that
// `tendermint init` created in the home directory.
func InitCmd(gen GenOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [owner]",
		Short: "Add the application state to the genesis file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig()
			if err != nil {
				return err
			}
			logger, err := NewLogger(conf.LogLevel)
			if err != nil {
				return err
			}
			return InitGenesis(gen, logger, conf.Home, viper.GetBool(flagForce), args)
		},
	}
	cmd.Flags().Bool(flagForce, false, "overwrite an existing app_state")
	_ = viper.BindPFlag(flagForce, cmd.Flags().Lookup(flagForce))
	return cmd
}

// InitGenesis writes the generated app_state into <home>/config/genesis.json.
// An app_state already present is only replaced when force is set.
func InitGenesis(gen GenOptions, logger log.Logger, home string, force bool, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	if os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", genFile)
	}
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", genFile, err)
	}
	if hasAppState(doc) && !force {
		return errors.Wrapf(errors.ErrDuplicate, "%s already holds an app_state", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("app_state written", "path", genFile)
	return nil
}

func hasAppState(doc map[string]json.RawMessage) bool {
	raw, ok := doc[appStateKey]
	if !ok {
		return false
	}
	switch string(raw) {
	case "", "null", "{}":
		return false
	}
	return true
}
