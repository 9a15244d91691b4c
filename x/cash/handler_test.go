package cash

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	perm := lockboxtest.NewCondition()
	src := perm.Address()
	dest := lockboxtest.NewCondition().Address()

	cases := map[string]struct {
		signer       lockbox.Condition
		msg          lockbox.Msg
		wantCheckErr *errors.Error
		wantErr      *errors.Error
		wantSrcBal   uint64
		wantDestBal  uint64
	}{
		"successful send": {
			signer:      perm,
			msg:         &SendMsg{Src: src, Dest: dest, Amount: 40, Memo: "rent"},
			wantSrcBal:  60,
			wantDestBal: 40,
		},
		"not signed by the owner": {
			signer:       lockboxtest.NewCondition(),
			msg:          &SendMsg{Src: src, Dest: dest, Amount: 40},
			wantCheckErr: errors.ErrUnauthorized,
			wantErr:      errors.ErrUnauthorized,
			wantSrcBal:   100,
		},
		"invalid message": {
			signer:       perm,
			msg:          &SendMsg{Src: src, Dest: dest},
			wantCheckErr: errors.ErrInvalidAmount,
			wantErr:      errors.ErrInvalidAmount,
			wantSrcBal:   100,
		},
		"wrong message type": {
			signer:       perm,
			msg:          &lockboxtest.Msg{RoutePath: pathSendMsg},
			wantCheckErr: errors.ErrType,
			wantErr:      errors.ErrType,
			wantSrcBal:   100,
		},
		// balance is only verified on delivery
		"insufficient funds": {
			signer:     perm,
			msg:        &SendMsg{Src: src, Dest: dest, Amount: 101},
			wantErr:    errors.ErrInsufficientAmount,
			wantSrcBal: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			control := NewController(NewBucket())
			require.NoError(t, control.IssueCoins(db, src, 100))

			auth := &lockboxtest.Auth{Signer: tc.signer}
			h := NewSendHandler(auth, control)
			tx := &lockboxtest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			if !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}

			_, err = h.Deliver(context.Background(), cache, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if err == nil {
				require.NoError(t, cache.Write())
			} else {
				cache.Discard()
			}

			got, err := control.Balance(db, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrcBal, got)
			got, err = control.Balance(db, dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDestBal, got)
		})
	}
}

func TestWalletQuery(t *testing.T) {
	db := store.MemStore()
	addr := lockboxtest.NewCondition().Address()
	require.NoError(t, NewController(NewBucket()).IssueCoins(db, addr, 77))

	qr := lockbox.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/wallets")
	require.NotNil(t, h)

	models, err := h.Query(db, "", addr)
	require.NoError(t, err)
	require.Len(t, models, 1)

	var w Wallet
	require.NoError(t, lockbox.Unmarshal(models[0].Value, &w))
	assert.Equal(t, uint64(77), w.Balance)
}
