package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "lockbox-deco"
	ctx := lockbox.WithChainID(context.Background(), chainID)
	key := crypto.GenPrivKeyEd25519()
	want := []lockbox.Condition{key.PublicKey().Condition()}

	tx := NewStdTx([]byte("deposit 10"))
	signed := func(seq int64) []*StdSignature {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return []*StdSignature{sig}
	}

	calls := map[string]func(lockbox.KVStore, lockbox.Tx, *SigCheckHandler) error{
		"check": func(db lockbox.KVStore, tx lockbox.Tx, h *SigCheckHandler) error {
			res, err := NewDecorator().Check(ctx, db, tx, h)
			if err == nil {
				assert.Equal(t, int64(signatureVerifyCost), res.GasAllocated)
			}
			return err
		},
		"deliver": func(db lockbox.KVStore, tx lockbox.Tx, h *SigCheckHandler) error {
			_, err := NewDecorator().Deliver(ctx, db, tx, h)
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			h := new(SigCheckHandler)

			tx.Signatures = nil
			assert.True(t, errors.ErrUnauthorized.Is(call(db, tx, h)))

			unsigned := &lockboxtest.Tx{Msg: tx.Msg}
			assert.True(t, errors.ErrUnauthorized.Is(call(db, unsigned, h)))
			assert.Empty(t, h.Signers)

			tx.Signatures = signed(0)
			require.NoError(t, call(db, tx, h))
			assert.Equal(t, want, h.Signers)

			h.Signers = nil
			assert.True(t, ErrInvalidSequence.Is(call(db, tx, h)))
			assert.Empty(t, h.Signers)

			tx.Signatures = signed(1)
			require.NoError(t, call(db, tx, h))
			assert.Equal(t, want, h.Signers)
		})
	}
}
