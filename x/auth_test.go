package x

import (
	"context"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest"
	"github.com/iov-one/lockbox/lockboxtest/assert"
)

func TestMultiAuth(t *testing.T) {
	sender := lockboxtest.NewCondition()
	receiver := lockboxtest.NewCondition()
	stranger := lockboxtest.NewCondition()

	byCtx := &lockboxtest.CtxAuth{Key: "withdraw"}
	otherCtx := &lockboxtest.CtxAuth{Key: "deposit"}
	signed := byCtx.SetConditions(context.Background(), receiver, sender)

	cases := map[string]struct {
		ctx      lockbox.Context
		auth     Authenticator
		wantMain lockbox.Condition
		wantAll  []lockbox.Condition
	}{
		"nobody signed": {
			ctx:  context.Background(),
			auth: ChainAuth(&lockboxtest.Auth{}),
		},
		"first authenticator sets the main signer": {
			ctx:      context.Background(),
			auth:     ChainAuth(&lockboxtest.Auth{Signer: receiver}, &lockboxtest.Auth{Signer: sender}),
			wantMain: receiver,
			wantAll:  []lockbox.Condition{receiver, sender},
		},
		"repeated conditions are listed once": {
			ctx: context.Background(),
			auth: ChainAuth(
				&lockboxtest.Auth{Signer: sender},
				&lockboxtest.Auth{Signers: []lockbox.Condition{sender, receiver}}),
			wantMain: sender,
			wantAll:  []lockbox.Condition{sender, receiver},
		},
		"context conditions": {
			ctx:      signed,
			auth:     ChainAuth(otherCtx, byCtx),
			wantMain: receiver,
			wantAll:  []lockbox.Condition{receiver, sender},
		},
		"context under another key": {
			ctx:  signed,
			auth: ChainAuth(otherCtx),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))

			var wantAddrs []lockbox.Address
			for _, c := range tc.wantAll {
				wantAddrs = append(wantAddrs, c.Address())
				assert.Equal(t, true, tc.auth.HasAddress(tc.ctx, c.Address()))
			}
			got := GetAddresses(tc.ctx, tc.auth)
			if len(wantAddrs) == 0 {
				assert.Equal(t, 0, len(got))
			} else {
				assert.Equal(t, wantAddrs, got)
			}
			assert.Equal(t, false, tc.auth.HasAddress(tc.ctx, stranger.Address()))
		})
	}
}
