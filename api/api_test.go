package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine   *gin.Engine
	sender   lockbox.Address
	receiver lockbox.Address
}

// newFixture returns an engine over a store holding a single native
// deposit of 300 and a token with its whole supply held by the sender.
func newFixture(t *testing.T) fixture {
	t.Helper()
	db := store.MemStore()
	cashCtrl := cash.NewController(cash.NewBucket())
	tokenCtrl := token.NewController()
	ledger := escrow.NewController(escrow.NewTransfers(cashCtrl, tokenCtrl))

	sender := lockboxtest.NewCondition().Address()
	receiver := lockboxtest.NewCondition().Address()
	require.NoError(t, cashCtrl.IssueCoins(db, sender, 1000))
	_, err := tokenCtrl.Create(db, sender, "LBX", "Lockbox", 5000)
	require.NoError(t, err)

	ctx := lockbox.WithBlockTime(context.Background(), time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC))
	_, _, err = ledger.Deposit(ctx, db, sender, receiver, escrow.NativeAsset(), 300, 60, 300)
	require.NoError(t, err)

	return fixture{
		engine:   NewServer(db, nil).Engine(),
		sender:   sender,
		receiver: receiver,
	}
}

func (f fixture) get(t *testing.T, path string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func hexOf(a lockbox.Address) string {
	raw, _ := a.MarshalJSON()
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func TestDepositRoutes(t *testing.T) {
	f := newFixture(t)

	t.Run("counter", func(t *testing.T) {
		var res struct {
			Counter uint64 `json:"counter"`
		}
		require.Equal(t, http.StatusOK, f.get(t, "/deposits/counter", &res))
		assert.Equal(t, uint64(1), res.Counter)
	})

	t.Run("existing deposit", func(t *testing.T) {
		var rec escrow.DepositRecord
		require.Equal(t, http.StatusOK, f.get(t, "/deposits/0", &rec))
		assert.Equal(t, uint64(0), rec.ID)
		require.NotNil(t, rec.Deposit)
		assert.Equal(t, uint64(300), rec.Deposit.Amount)
		assert.Equal(t, f.receiver, rec.Deposit.Receiver)
		assert.Equal(t, escrow.AssetNative, rec.Deposit.GetAsset().Kind)
	})

	t.Run("unknown deposit is empty", func(t *testing.T) {
		var rec escrow.DepositRecord
		require.Equal(t, http.StatusOK, f.get(t, "/deposits/42", &rec))
		assert.Equal(t, uint64(42), rec.ID)
		assert.Equal(t, &escrow.Deposit{}, rec.Deposit)
	})

	t.Run("malformed id", func(t *testing.T) {
		var res ErrorResponse
		assert.Equal(t, http.StatusBadRequest, f.get(t, "/deposits/-1", &res))
		assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
	})

	t.Run("by receiver", func(t *testing.T) {
		var recs []escrow.DepositRecord
		require.Equal(t, http.StatusOK, f.get(t, "/deposits?receiver="+hexOf(f.receiver), &recs))
		require.Len(t, recs, 1)
		assert.Equal(t, uint64(300), recs[0].Deposit.Amount)

		require.Equal(t, http.StatusOK, f.get(t, "/deposits?receiver="+hexOf(f.sender), &recs))
		assert.Len(t, recs, 0)

		b32, err := f.receiver.Bech32()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, f.get(t, "/deposits?receiver=bech32:"+b32, &recs))
		require.Len(t, recs, 1)
		assert.Equal(t, lockboxtest.ParseAddress(t, "bech32:"+b32), recs[0].Deposit.Receiver)
	})

	t.Run("receiver is required", func(t *testing.T) {
		var res ErrorResponse
		assert.Equal(t, http.StatusBadRequest, f.get(t, "/deposits", &res))
		assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
	})
}

func TestBalanceRoutes(t *testing.T) {
	f := newFixture(t)

	var wallet struct {
		Address lockbox.Address `json:"address"`
		Balance uint64          `json:"balance"`
	}
	require.Equal(t, http.StatusOK, f.get(t, "/wallets/"+hexOf(f.sender), &wallet))
	assert.Equal(t, f.sender, wallet.Address)
	assert.Equal(t, uint64(700), wallet.Balance)

	require.Equal(t, http.StatusOK, f.get(t, "/wallets/"+hexOf(escrow.CustodyAddress), &wallet))
	assert.Equal(t, uint64(300), wallet.Balance)

	stranger := lockboxtest.DecodeAddr(t, "0123456789ABCDEF0123456789ABCDEF01234567")
	require.Equal(t, http.StatusOK, f.get(t, "/wallets/"+hexOf(stranger), &wallet))
	assert.Equal(t, uint64(0), wallet.Balance)

	var res ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/wallets/zz", &res))

	var holding struct {
		Token   lockbox.Address `json:"token"`
		Balance uint64          `json:"balance"`
	}
	require.Equal(t, http.StatusOK, f.get(t, "/tokens/LBX/balances/"+hexOf(f.sender), &holding))
	assert.Equal(t, token.Address("LBX"), holding.Token)
	assert.Equal(t, uint64(5000), holding.Balance)

	path := "/tokens/" + hexOf(token.Address("LBX")) + "/balances/" + hexOf(f.receiver)
	require.Equal(t, http.StatusOK, f.get(t, path, &holding))
	assert.Equal(t, uint64(0), holding.Balance)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/tokens/NOPE/balances/"+hexOf(f.sender), &res))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}
