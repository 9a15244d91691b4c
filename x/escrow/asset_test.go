package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetJSON(t *testing.T) {
	gold := token.Address("GOLD")
	b32, err := gold.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json      string
		wantErr   *errors.Error
		wantAsset Asset
	}{
		"native": {
			json:      `"native"`,
			wantAsset: NativeAsset(),
		},
		"token by hex address": {
			json:      `"` + gold.String() + `"`,
			wantAsset: TokenAsset(gold),
		},
		"token by bech32 address": {
			json:      `"bech32:` + b32 + `"`,
			wantAsset: TokenAsset(gold),
		},
		"token by condition": {
			json:      `"cond:token/sym/474f4c44"`,
			wantAsset: TokenAsset(gold),
		},
		"none": {
			json:      `""`,
			wantAsset: Asset{},
		},
		"short address": {
			json:    `"abcd"`,
			wantErr: errors.ErrInvalidInput,
		},
		"not a string": {
			json:    `1`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a Asset
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantAsset, a)

			raw, err := json.Marshal(a)
			require.NoError(t, err)
			var back Asset
			require.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, a, back)
		})
	}
}

func TestAssetValidate(t *testing.T) {
	cases := map[string]struct {
		asset   Asset
		wantErr *errors.Error
	}{
		"native":                 {asset: NativeAsset()},
		"token":                  {asset: TokenAsset(token.Address("GOLD"))},
		"none":                   {asset: Asset{}, wantErr: errors.ErrInvalidInput},
		"native with an address": {asset: Asset{Kind: AssetNative, Token: token.Address("GOLD")}, wantErr: errors.ErrInvalidInput},
		"token without address":  {asset: Asset{Kind: AssetToken}, wantErr: errors.ErrInvalidInput},
		"token with bad address": {asset: TokenAsset(lockbox.Address("abc")), wantErr: errors.ErrInvalidInput},
		"unknown kind":           {asset: Asset{Kind: 3}, wantErr: errors.ErrInvalidInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.asset.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
		})
	}
}

func TestDepositValidate(t *testing.T) {
	receiver := token.Address("RECV")

	cases := map[string]struct {
		dep     Deposit
		wantErr *errors.Error
	}{
		"active": {
			dep: Deposit{Receiver: receiver, Asset: &Asset{Kind: AssetNative}, Amount: 1, ReleaseTime: 100},
		},
		"withdrawn": {
			dep: Deposit{Receiver: receiver},
		},
		"withdrawn with an asset": {
			dep:     Deposit{Receiver: receiver, Asset: &Asset{Kind: AssetNative}},
			wantErr: errors.ErrModel,
		},
		"withdrawn with a release time": {
			dep:     Deposit{Receiver: receiver, ReleaseTime: 100},
			wantErr: errors.ErrModel,
		},
		"active without asset": {
			dep:     Deposit{Receiver: receiver, Amount: 1, ReleaseTime: 100},
			wantErr: errors.ErrInvalidInput,
		},
		"active without release time": {
			dep:     Deposit{Receiver: receiver, Asset: &Asset{Kind: AssetNative}, Amount: 1},
			wantErr: errors.ErrModel,
		},
		"missing receiver": {
			dep:     Deposit{Asset: &Asset{Kind: AssetNative}, Amount: 1, ReleaseTime: 100},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.dep.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
		})
	}
}
