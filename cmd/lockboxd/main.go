package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/cmd/lockboxd/app"
	"github.com/iov-one/lockbox/commands"
	"github.com/iov-one/lockbox/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lockboxd",
		Short:        "Time-locked deposit ledger node",
		SilenceUsage: true,
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".lockboxd")
	flags := root.PersistentFlags()
	flags.String(server.FlagHome, defaultHome, "directory to store files under")
	flags.String("log_level", "info", "one of debug, info, error or none")
	_ = viper.BindPFlag(server.FlagHome, flags.Lookup(server.FlagHome))
	_ = viper.BindPFlag("log_level", flags.Lookup("log_level"))

	root.AddCommand(
		server.InitCmd(app.GenInitOptions),
		server.StartCmd(app.GenerateApp),
		server.ValidateCmd(app.Initializers()),
		server.GetBlockCmd(),
		server.RetryCmd(app.InlineApp),
		commands.KeysCmd(),
		testGenCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), lockbox.Version())
			},
		},
	)
	return root
}

func testGenCmd() *cobra.Command {
	examples, err := app.Examples()
	if err != nil {
		// the examples use fixed keys and valid messages
		panic(err)
	}
	return commands.TestGenCmd(examples)
}
