package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpSequence(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	signer := pub.Condition()

	cases := map[string]struct {
		initSeq   int64
		noUser    bool
		increment uint32
		signer    lockbox.Condition
		wantErr   *errors.Error
		wantSeq   int64
	}{
		"bump by one is a noop": {
			initSeq:   4,
			increment: 1,
			signer:    signer,
			wantSeq:   4,
		},
		"bump by many": {
			initSeq:   4,
			increment: 10,
			signer:    signer,
			wantSeq:   13,
		},
		"increment too big": {
			increment: maxSequenceIncrement + 1,
			signer:    signer,
			wantErr:   errors.ErrMsg,
		},
		"zero increment": {
			increment: 0,
			signer:    signer,
			wantErr:   errors.ErrMsg,
		},
		"unsigned": {
			increment: 2,
			wantErr:   errors.ErrUnauthorized,
		},
		"unknown user": {
			noUser:    true,
			increment: 2,
			signer:    signer,
			wantErr:   errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket()
			if !tc.noUser {
				obj := NewUser(pub)
				AsUser(obj).Sequence = tc.initSeq
				require.NoError(t, b.Save(db, obj))
			}

			rt := app.NewRouter()
			RegisterRoutes(rt, &lockboxtest.Auth{Signer: tc.signer})

			tx := &lockboxtest.Tx{Msg: &BumpSequenceMsg{Increment: tc.increment}}
			_, err := rt.Deliver(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			seq, err := NextNonce(db, pub.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantSeq, seq)
		})
	}
}
