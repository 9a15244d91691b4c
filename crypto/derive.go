package crypto

import (
	"github.com/iov-one/lockbox/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-10 path used when none is given.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey returns the ed25519 private key found at the given SLIP-10
// derivation path of the master seed.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "seed")
	}
	if path == "" {
		path = DefaultDerivationPath
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
