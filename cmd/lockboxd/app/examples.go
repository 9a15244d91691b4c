package app

import (
	"github.com/iov-one/lockbox/commands"
	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/x/escrow"
	"github.com/iov-one/lockbox/x/sigs"
	"github.com/iov-one/lockbox/x/token"
)

// exampleSeed makes the generated encodings reproducible.
var exampleSeed = []byte("lockbox example seed, do not use for real funds")

// Examples returns the objects written by the testgen command: the
// messages, a signed transaction and a stored deposit.
func Examples() ([]commands.Example, error) {
	key, _, err := GenerateKey(exampleSeed, "")
	if err != nil {
		return nil, err
	}
	receiver := crypto.PrivKeyEd25519FromSeed(exampleSeed[:32]).PublicKey().Address()
	demo := token.Address(DemoToken)

	deposit := &escrow.DepositMsg{
		Receiver: receiver,
		Asset:    &escrow.Asset{Kind: escrow.AssetNative},
		Amount:   5000,
		Duration: 3600,
		Value:    5000,
	}
	tokenDeposit := &escrow.DepositMsg{
		Receiver: receiver,
		Asset:    &escrow.Asset{Kind: escrow.AssetToken, Token: demo},
		Amount:   250,
		Duration: 60,
	}
	withdraw := &escrow.WithdrawMsg{DepositID: 0}

	tx := &Tx{DepositMsg: deposit}
	sig, err := sigs.SignTx(key, tx, "lockbox-example-chain", 0)
	if err != nil {
		return nil, err
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "deposit_msg", Obj: deposit},
		{Filename: "token_deposit_msg", Obj: tokenDeposit},
		{Filename: "withdraw_msg", Obj: withdraw},
		{Filename: "approve_msg", Obj: &token.ApproveMsg{Token: demo, Spender: escrow.CustodyAddress, Amount: 250}},
		{Filename: "signed_tx", Obj: tx},
		{Filename: "deposit", Obj: &escrow.Deposit{
			Receiver:    receiver,
			Asset:       &escrow.Asset{Kind: escrow.AssetNative},
			Amount:      5000,
			ReleaseTime: 1561975200,
		}},
		{Filename: "withdrawn_deposit", Obj: &escrow.Deposit{Receiver: receiver}},
	}, nil
}
