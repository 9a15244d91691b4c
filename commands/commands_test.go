package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintKey(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	key, err := crypto.DeriveKey(seed, "")
	require.NoError(t, err)
	addr := key.PublicKey().Address()

	var out bytes.Buffer
	require.NoError(t, PrintKey(&out, hex.EncodeToString(seed), crypto.DefaultDerivationPath))
	assert.Contains(t, out.String(), fmt.Sprintf("address  %X\n", []byte(addr)))
	b32, err := addr.Bech32()
	require.NoError(t, err)
	assert.Contains(t, out.String(), b32)

	// a random seed is printed so the key can be derived again
	out.Reset()
	require.NoError(t, PrintKey(&out, "", ""))
	first := strings.SplitN(out.String(), "\n", 2)[0]
	assert.Len(t, strings.TrimPrefix(first, "seed     "), 64)

	err = PrintKey(&out, "not hex", "")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestWriteExamples(t *testing.T) {
	dir, err := ioutil.TempDir("", "lockbox-testgen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	msg := &escrow.WithdrawMsg{DepositID: 5}
	require.NoError(t, WriteExamples(dir, []Example{{Filename: "withdraw", Obj: msg}}))

	bin, err := ioutil.ReadFile(filepath.Join(dir, "withdraw.bin"))
	require.NoError(t, err)
	var got escrow.WithdrawMsg
	require.NoError(t, lockbox.Unmarshal(bin, &got))
	assert.Equal(t, uint64(5), got.DepositID)

	js, err := ioutil.ReadFile(filepath.Join(dir, "withdraw.json"))
	require.NoError(t, err)
	assert.Contains(t, string(js), "5")
}
