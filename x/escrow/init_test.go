package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	cases := map[string]struct {
		genesis     string
		wantErr     *errors.Error
		wantCounter uint64
	}{
		"no escrow section": {
			genesis: `{}`,
		},
		"counter moved forward": {
			genesis:     `{"escrow": {"counter": 42}}`,
			wantCounter: 42,
		},
		"malformed section": {
			genesis: `{"escrow": {"counter": "many"}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts lockbox.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()

			err := Initializer{}.FromGenesis(opts, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err != nil {
				return
			}
			n, err := NewController(nil).GetDepositCounter(db)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCounter, n)
		})
	}
}

func TestGenesisCannotRewindCounter(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, NewBucket().ids.SetAtLeast(db, 2))

	opts := lockbox.Options{optKey: json.RawMessage(`{"counter": 1}`)}
	err := Initializer{}.FromGenesis(opts, db)
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	opts = lockbox.Options{optKey: json.RawMessage(`{"counter": 3}`)}
	require.NoError(t, Initializer{}.FromGenesis(opts, db))
}
