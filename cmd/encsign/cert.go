package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/encsign/pkg/certutil"
	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

type certOutput struct {
	Algorithm string `json:"algorithm"`
	Curve     string `json:"curve"`
	PublicKey string `json:"public_key"`
	Address   string `json:"address"`
}

func newCertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cert <file>",
		Short: "Extract the public key of a PEM or DER certificate",
		Long: `Extract the public key of a PEM or DER certificate.

The certificate's named curve selects the curve used to decode the key, so
P-256 and secp256k1 certificates are both accepted whatever --curve says.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read certificate: %w", err)
			}

			info, err := certutil.ParsePublicKeyInfo(data)
			if err != nil {
				return err
			}

			engine := a.engine
			if info.Curve != engine.Curve().Name() {
				c, err := encsign.CurveByName(info.Curve)
				if err != nil {
					return fmt.Errorf("certificate key: %w", err)
				}
				a.logger.Debug("switching curve for certificate", zap.String("curve", c.Name()))
				engine = engine.WithCurve(c)
			}

			pub, err := engine.ImportPublic(info.Key)
			if err != nil {
				return err
			}
			address, err := engine.PublicToAddress(pub, false)
			if err != nil {
				return err
			}
			return printJSON(cmd, certOutput{
				Algorithm: info.Algorithm.String(),
				Curve:     engine.Curve().Name(),
				PublicKey: hex.EncodeToString(pub),
				Address:   hex.EncodeToString(address),
			})
		},
	}
}
