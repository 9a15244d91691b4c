package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/lockbox/api"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd runs the ABCI socket server, and the HTTP api when api_bind is
// set, until the process is interrupted.
func StartCmd(gen AppGenerator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig()
			if err != nil {
				return err
			}
			logger, err := NewLogger(conf.LogLevel)
			if err != nil {
				return err
			}
			node, err := Start(gen, logger, conf)
			if err != nil {
				return err
			}
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			logger.Info("Shutting down", "signal", <-sig)
			return node.Stop()
		},
	}
	flags := cmd.Flags()
	flags.String(flagBind, "tcp://localhost:26658", "address the abci server listens on")
	flags.String(flagAPIBind, "", "address the http api listens on, disabled when empty")
	flags.Bool(flagDebug, false, "call stack returned on error")
	for _, name := range []string{flagBind, flagAPIBind, flagDebug} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	return cmd
}

// Node is a running application with its front ends.
type Node struct {
	abci   cmn.Service
	api    *http.Server
	apiLn  net.Listener
	logger log.Logger
}

// Start creates the application in conf.Home and serves it.
func Start(gen AppGenerator, logger log.Logger, conf *Config) (*Node, error) {
	application, err := gen(conf.Home, logger, conf.Debug)
	if err != nil {
		return nil, err
	}
	shared := app.NewSerialApp(application)

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", shared)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot start abci server: %s", err)
	}
	node := &Node{abci: svr, logger: logger}

	if conf.APIBind == "" {
		return node, nil
	}
	ln, err := net.Listen("tcp", conf.APIBind)
	if err != nil {
		_ = svr.Stop()
		return nil, errors.Wrapf(errors.ErrInput, "cannot listen on %s: %s", conf.APIBind, err)
	}
	apiLogger := logger.With("module", "api")
	node.apiLn = ln
	node.api = &http.Server{
		Handler: api.NewServer(app.NewABCIStore(shared), apiLogger).Engine(),
	}
	go func() {
		if err := node.api.Serve(ln); err != nil && err != http.ErrServerClosed {
			apiLogger.Error("api stopped", "err", err)
		}
	}()
	logger.Info("Starting api", "bind", ln.Addr().String())
	return node, nil
}

// APIAddr returns the address the api listens on, or an empty string when
// the api is disabled.
func (n *Node) APIAddr() string {
	if n.apiLn == nil {
		return ""
	}
	return n.apiLn.Addr().String()
}

// Stop shuts the api down, waiting for running requests, then stops the
// abci server.
func (n *Node) Stop() error {
	if n.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.api.Shutdown(ctx); err != nil {
			n.logger.Error("api shutdown", "err", err)
		}
	}
	return n.abci.Stop()
}
