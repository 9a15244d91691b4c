package app

import (
	"testing"
	"time"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/app"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x/cash"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "lockbox-test-chain"

var blockTime = time.Date(2019, 7, 1, 10, 0, 0, 0, time.UTC)

type testChain struct {
	t      *testing.T
	app    app.BaseApp
	height int64
}

func newTestChain(t *testing.T, owner lockbox.Address) *testChain {
	t.Helper()
	a, err := Application("", log.NewNopLogger(), true)
	require.NoError(t, err)
	state, err := GenesisAppState(owner)
	require.NoError(t, err)
	a.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: state})
	return &testChain{t: t, app: a}
}

// block delivers all transactions in a new block at given time and commits
// it.
func (c *testChain) block(at time.Time, txs ...[]byte) []abci.ResponseDeliverTx {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: c.height, Time: at, ChainID: chainID},
	})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = c.app.DeliverTx(tx)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

func (c *testChain) query(path string, data []byte) []lockbox.Model {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	models, err := app.ParseQueryResponse(res.Key, res.Value)
	require.NoError(c.t, err)
	return models
}

func signedTx(t *testing.T, key *crypto.PrivateKey, seq int64, msg lockbox.Msg) []byte {
	t.Helper()
	tx := new(Tx)
	require.NoError(t, tx.SetMsg(msg))
	return signTx(t, key, seq, tx)
}

func signTx(t *testing.T, key *crypto.PrivateKey, seq int64, tx *Tx) []byte {
	t.Helper()
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := lockbox.Marshal(tx)
	require.NoError(t, err)
	return raw
}

func tagsOf(res abci.ResponseDeliverTx) map[string]string {
	tags := make(map[string]string)
	for _, tag := range res.Tags {
		tags[string(tag.Key)] = string(tag.Value)
	}
	return tags
}

func TestDepositAndWithdrawOverABCI(t *testing.T) {
	ownerKey, owner, err := GenerateKey(nil, "")
	require.NoError(t, err)
	receiverKey, receiver, err := GenerateKey([]byte("receiver seed of the test chain"), "")
	require.NoError(t, err)
	chain := newTestChain(t, owner)

	deposit := signedTx(t, ownerKey, 0, &escrow.DepositMsg{
		Receiver: receiver,
		Asset:    &escrow.Asset{Kind: escrow.AssetNative},
		Amount:   1000,
		Duration: 60,
		Value:    1000,
	})
	res := chain.block(blockTime, deposit)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	assert.Equal(t, escrow.DepositID(0), res[0].Data)
	tags := tagsOf(res[0])
	assert.Equal(t, "escrow/deposit", tags["action"])
	assert.Equal(t, "0", tags["deposit.id"])
	assert.Equal(t, "native", tags["deposit.asset"])

	models := chain.query("/deposits/counter", nil)
	require.Len(t, models, 1)
	n, err := orm.DecodeSequence(models[0].Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	early := signedTx(t, receiverKey, 0, &escrow.WithdrawMsg{DepositID: 0})
	res = chain.block(blockTime.Add(30*time.Second), early)
	assert.Equal(t, escrow.ErrDepositIsStillLocked.ABCICode(), res[0].Code)

	// the failed withdraw still used the receiver sequence
	withdraw := signedTx(t, receiverKey, 1, &escrow.WithdrawMsg{DepositID: 0})
	res = chain.block(blockTime.Add(time.Minute), withdraw)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	assert.Equal(t, "1000", tagsOf(res[0])["withdrawal.amount"])

	var w cash.Wallet
	q := chain.app.Query(abci.RequestQuery{Path: "/wallets", Data: receiver})
	require.Equal(t, uint32(0), q.Code, q.Log)
	require.NoError(t, app.UnmarshalOneResult(q.Value, &w))
	assert.Equal(t, uint64(1000), w.Balance)

	// read the tombstone the way a client does
	store := app.NewABCIStore(chain.app)
	dep, err := escrow.NewController(nil).GetDeposit(store, 0)
	require.NoError(t, err)
	assert.Equal(t, &escrow.Deposit{Receiver: receiver}, dep)

	again := signedTx(t, receiverKey, 2, &escrow.WithdrawMsg{DepositID: 0})
	res = chain.block(blockTime.Add(2*time.Minute), again)
	assert.Equal(t, escrow.ErrDepositDoesNotExist.ABCICode(), res[0].Code)
}

func TestTokenDepositOverABCI(t *testing.T) {
	ownerKey, owner, err := GenerateKey(nil, "")
	require.NoError(t, err)
	_, receiver, err := GenerateKey(nil, "")
	require.NoError(t, err)
	chain := newTestChain(t, owner)
	demo := token.Address(DemoToken)

	res := chain.block(blockTime,
		signedTx(t, ownerKey, 0, &token.ApproveMsg{Token: demo, Spender: escrow.CustodyAddress, Amount: 500}),
		signedTx(t, ownerKey, 1, &escrow.DepositMsg{
			Receiver: receiver,
			Asset:    &escrow.Asset{Kind: escrow.AssetToken, Token: demo},
			Amount:   500,
			Duration: 10,
		}),
		signedTx(t, ownerKey, 2, &escrow.DepositMsg{
			Receiver: receiver,
			Asset:    &escrow.Asset{Kind: escrow.AssetToken, Token: demo},
			Amount:   1,
			Duration: 10,
		}),
	)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	require.Equal(t, uint32(0), res[1].Code, res[1].Log)
	assert.Equal(t, escrow.ErrAssetTransferFailed.ABCICode(), res[2].Code, "allowance is used up")

	store := app.NewABCIStore(chain.app)
	held, err := token.NewController().BalanceOf(store, demo, escrow.CustodyAddress)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), held)

	records := chain.query("/deposits/receiver", receiver)
	assert.Len(t, records, 1)
}

func TestTxRejections(t *testing.T) {
	ownerKey, owner, err := GenerateKey(nil, "")
	require.NoError(t, err)
	chain := newTestChain(t, owner)

	unsigned, err := lockbox.Marshal(&Tx{WithdrawMsg: &escrow.WithdrawMsg{}})
	require.NoError(t, err)
	twoMsgs := signTx(t, ownerKey, 0, &Tx{WithdrawMsg: &escrow.WithdrawMsg{}, SendMsg: &cash.SendMsg{}})
	bump := signedTx(t, ownerKey, 1, &sigs.BumpSequenceMsg{Increment: 1})

	res := chain.block(blockTime, unsigned, twoMsgs, bump)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[0].Code)
	assert.Equal(t, errors.ErrState.ABCICode(), res[1].Code)
	assert.Equal(t, uint32(0), res[2].Code, res[2].Log)

	chk := chain.app.CheckTx(unsigned)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), chk.Code)
}

func TestGetMsg(t *testing.T) {
	_, err := new(Tx).GetMsg()
	assert.True(t, errors.ErrState.Is(err))

	tx := new(Tx)
	require.NoError(t, tx.SetMsg(&escrow.WithdrawMsg{DepositID: 3}))
	msg, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, "escrow/withdraw", msg.Path())

	assert.True(t, errors.ErrType.Is(tx.SetMsg(nil)))
}
