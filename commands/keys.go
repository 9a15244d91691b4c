package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/iov-one/lockbox/crypto"
	"github.com/iov-one/lockbox/errors"
	"github.com/spf13/cobra"
)

const (
	flagSeed = "seed"
	flagPath = "path"
)

// KeysCmd derives an ed25519 key and prints its address. Without --seed a
// random seed is generated and printed so the key can be derived again.
func KeysCmd() *cobra.Command {
	var seedHex, path string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Derive a key and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintKey(cmd.OutOrStdout(), seedHex, path)
		},
	}
	cmd.Flags().StringVar(&seedHex, flagSeed, "", "hex encoded seed, random when empty")
	cmd.Flags().StringVar(&path, flagPath, crypto.DefaultDerivationPath, "SLIP-10 derivation path")
	return cmd
}

// PrintKey writes the seed, the public key and both address encodings of
// the derived key.
func PrintKey(out io.Writer, seedHex, path string) error {
	var seed []byte
	if seedHex == "" {
		seed = make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return errors.Wrap(errors.ErrHuman, err.Error())
		}
	} else {
		var err error
		if seed, err = hex.DecodeString(seedHex); err != nil {
			return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
		}
	}

	key, err := crypto.DeriveKey(seed, path)
	if err != nil {
		return err
	}
	pub := key.PublicKey()
	addr := pub.Address()
	b32, err := addr.Bech32()
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	fmt.Fprintf(out, "seed     %s\n", hex.EncodeToString(seed))
	fmt.Fprintf(out, "path     %s\n", path)
	fmt.Fprintf(out, "pubkey   %X\n", pub.Ed25519)
	fmt.Fprintf(out, "address  %X\n", []byte(addr))
	fmt.Fprintf(out, "bech32   %s\n", b32)
	return nil
}
