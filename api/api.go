/*
Package api serves a read-only JSON view of the committed ledger state.

Every handler reads through a lockbox.ReadOnlyKVStore, usually an
app.ABCIStore querying the running application, and uses the same
controllers the transaction handlers use. Nothing here can change state.
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// Server holds the state readers the handlers use.
type Server struct {
	db     lockbox.ReadOnlyKVStore
	escrow escrow.Controller
	cash   cash.Controller
	tokens token.Controller
	logger log.Logger
}

// NewServer returns a server reading from db.
func NewServer(db lockbox.ReadOnlyKVStore, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{
		db:     db,
		escrow: escrow.NewController(nil),
		cash:   cash.NewController(cash.NewBucket()),
		tokens: token.NewController(),
		logger: logger,
	}
}

// Engine returns a gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), errorMiddleware(s.logger))
	s.RegisterRoutes(engine)
	return engine
}

// RegisterRoutes registers the ledger routes on the given engine.
func (s *Server) RegisterRoutes(server *gin.Engine) {
	deposits := server.Group("/deposits")
	deposits.GET("", s.depositsByReceiver())
	// the router cannot hold a static segment next to a parameter
	deposits.GET("/:id", s.depositByID(s.depositCounter()))

	server.GET("/wallets/:address", s.walletBalance())
	server.GET("/tokens/:token/balances/:holder", s.tokenBalance())
}

func (s *Server) depositCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := s.escrow.GetDepositCounter(s.db)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"counter": n})
	}
}

// depositByID returns the deposit stored under the id path parameter. An
// unknown id is reported as an empty deposit, same as the ledger does.
// The "counter" segment is served by counter.
func (s *Server) depositByID(counter gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") == "counter" {
			counter(c)
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			_ = c.Error(errors.Wrap(errors.ErrInput, "deposit id must be a non negative integer"))
			return
		}
		dep, err := s.escrow.GetDeposit(s.db, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, escrow.DepositRecord{ID: id, Deposit: dep})
	}
}

func (s *Server) depositsByReceiver() gin.HandlerFunc {
	type params struct {
		Receiver string `form:"receiver" binding:"required"`
	}
	return func(c *gin.Context) {
		var p params
		if err := c.ShouldBindQuery(&p); err != nil {
			_ = c.Error(errors.Wrap(errors.ErrInput, err.Error()))
			return
		}
		receiver, err := parseAddress(p.Receiver)
		if err != nil {
			_ = c.Error(err)
			return
		}
		records, err := s.escrow.DepositsByReceiver(s.db, receiver)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if records == nil {
			records = []escrow.DepositRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}

func (s *Server) walletBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, err := parseAddress(c.Param("address"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		balance, err := s.cash.Balance(s.db, addr)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": addr, "balance": balance})
	}
}

func (s *Server) tokenBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := parseToken(c.Param("token"))
		holder, err := parseAddress(c.Param("holder"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		balance, err := s.tokens.BalanceOf(s.db, tok, holder)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": tok, "holder": holder, "balance": balance})
	}
}

// parseToken accepts either a token address or the symbol it was
// registered with. An unknown symbol resolves to a token that does not
// exist.
func parseToken(raw string) lockbox.Address {
	if addr, err := lockbox.ParseAddress(raw); err == nil {
		return addr
	}
	return token.Address(raw)
}

func parseAddress(raw string) (lockbox.Address, error) {
	addr, err := lockbox.ParseAddress(raw)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}
