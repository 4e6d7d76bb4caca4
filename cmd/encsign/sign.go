package main

import (
	"encoding/hex"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

var errInvalidPublicKeyArg = errors.New("public key is not a valid point on the selected curve")

type signatureOutput struct {
	R         string `json:"r"`
	S         string `json:"s"`
	V         int    `json:"v"`
	Signature string `json:"signature"`
}

func newHashCmd(a *app) *cobra.Command {
	var isHex bool

	cmd := &cobra.Command{
		Use:   "hash <message>",
		Short: "SHA-256 hash a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := []byte(args[0])
			if isHex {
				var err error
				if message, err = decodeHexArg("message", args[0]); err != nil {
					return err
				}
			}
			hash, err := a.engine.Hash(message)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"hash": hex.EncodeToString(hash)})
		},
	}
	cmd.Flags().BoolVar(&isHex, "hex", false, "Decode the message from hex before hashing")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var (
		msg        messageFlags
		privateKey string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message or hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prv, err := decodeHexArg("private key", privateKey)
			if err != nil {
				return err
			}
			hash, err := msg.resolve(a.engine)
			if err != nil {
				return err
			}

			sig, err := a.engine.Sign(hash, prv)
			if err != nil {
				return err
			}
			rpc, err := encsign.ToRpcSig(sig)
			if err != nil {
				return err
			}

			a.logger.Info("message signed", zap.Int("v", sig.V))
			return printJSON(cmd, signatureOutput{R: sig.R, S: sig.S, V: sig.V, Signature: rpc})
		},
	}
	msg.register(cmd)
	cmd.Flags().StringVar(&privateKey, "private-key", "", "Private key in hex")
	_ = cmd.MarkFlagRequired("private-key")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		msg       messageFlags
		sigFlags  signatureFlags
		publicKey string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature against a public key",
		Long: `Verify a signature against a public key.

The public key may be raw (64 bytes) or tagged (33 or 65 bytes). The command
succeeds whenever the inputs are well formed and reports the outcome in "valid".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := decodeHexArg("public key", publicKey)
			if err != nil {
				return err
			}
			if pub, err = a.engine.ImportPublic(pub); err != nil {
				return err
			}
			hash, err := msg.resolve(a.engine)
			if err != nil {
				return err
			}
			sig, err := sigFlags.resolve()
			if err != nil {
				return err
			}

			valid, err := a.engine.Verify(hash, sig, pub)
			if err != nil {
				return err
			}
			if !valid {
				a.logger.Warn("signature did not verify")
			}
			return printJSON(cmd, map[string]bool{"valid": valid})
		},
	}
	msg.register(cmd)
	sigFlags.register(cmd)
	cmd.Flags().StringVar(&publicKey, "public-key", "", "Public key in hex")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func newRecoverCmd(a *app) *cobra.Command {
	var (
		msg      messageFlags
		sigFlags signatureFlags
	)

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover the public key that produced a signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := msg.resolve(a.engine)
			if err != nil {
				return err
			}
			sig, err := sigFlags.resolve()
			if err != nil {
				return err
			}

			pub, err := a.engine.Ecrecover(hash, sig)
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
	msg.register(cmd)
	sigFlags.register(cmd)
	return cmd
}
