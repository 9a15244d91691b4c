package lockboxtest

import (
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/crypto"
)

// NewKey returns a random ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a random key.
func NewCondition() lockbox.Condition {
	return NewKey().PublicKey().Condition()
}
