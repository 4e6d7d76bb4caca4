package main

import (
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

func newRPCSigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpcsig",
		Short: "Convert between structured and RPC signatures",
	}

	var sigFlags signatureFlags
	toCmd := &cobra.Command{
		Use:   "to",
		Short: "Encode r, s and v as an RPC signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rpc, err := a.engine.ToRpcSig(encsign.SignResult{R: sigFlags.R, S: sigFlags.S, V: sigFlags.V})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"signature": rpc})
		},
	}
	toCmd.Flags().StringVar(&sigFlags.R, "r", "", "Signature r in hex")
	toCmd.Flags().StringVar(&sigFlags.S, "s", "", "Signature s in hex")
	toCmd.Flags().IntVar(&sigFlags.V, "v", 0, "Signature v (27 or 28)")
	_ = toCmd.MarkFlagRequired("r")
	_ = toCmd.MarkFlagRequired("s")
	_ = toCmd.MarkFlagRequired("v")

	fromCmd := &cobra.Command{
		Use:   "from <signature-hex>",
		Short: "Decode an RPC signature into r, s and v",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := a.engine.FromRpcSig(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, sig)
		},
	}

	cmd.AddCommand(toCmd, fromCmd)
	return cmd
}
