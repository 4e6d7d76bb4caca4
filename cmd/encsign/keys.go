package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/spf13/cobra"
)

type keyOutput struct {
	PrivateKey string `json:"private_key,omitempty"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
}

func newKeygenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prv, err := a.engine.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}
			pub, err := a.engine.PrivateToPublic(prv)
			if err != nil {
				return err
			}
			address, err := a.engine.PublicToAddress(pub, false)
			if err != nil {
				return err
			}
			return printJSON(cmd, keyOutput{
				PrivateKey: hex.EncodeToString(prv),
				PublicKey:  hex.EncodeToString(pub),
				Address:    hex.EncodeToString(address),
			})
		},
	}
}

func newPubkeyCmd(a *app) *cobra.Command {
	var importKey bool

	cmd := &cobra.Command{
		Use:   "pubkey <key-hex>",
		Short: "Derive the raw public key of a private key",
		Long: `Derive the 64-byte raw public key of a private key.

With --import the argument is a tagged public key (33 or 65 bytes) that is
converted to its raw form instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := decodeHexArg("key", args[0])
			if err != nil {
				return err
			}

			var pub []byte
			if importKey {
				pub, err = a.engine.ImportPublic(key)
			} else {
				pub, err = a.engine.PrivateToPublic(key)
			}
			if err != nil {
				return err
			}

			address, err := a.engine.PublicToAddress(pub, false)
			if err != nil {
				return err
			}
			return printJSON(cmd, keyOutput{
				PublicKey: hex.EncodeToString(pub),
				Address:   hex.EncodeToString(address),
			})
		},
	}
	cmd.Flags().BoolVar(&importKey, "import", false, "Treat the argument as a tagged public key")
	return cmd
}

func newAddressCmd(a *app) *cobra.Command {
	var sanitize bool

	cmd := &cobra.Command{
		Use:   "address <public-key-hex>",
		Short: "Compute the address of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := decodeHexArg("public key", args[0])
			if err != nil {
				return err
			}
			if !a.engine.IsValidPublicKey(pub, sanitize) {
				return errInvalidPublicKeyArg
			}
			address, err := a.engine.PublicToAddress(pub, sanitize)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"address": hex.EncodeToString(address)})
		},
	}
	cmd.Flags().BoolVar(&sanitize, "sanitize", true, "Accept tagged public keys and convert them to raw form first")
	return cmd
}
