package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

type batchRecordOutput struct {
	Index     int    `json:"index"`
	Valid     bool   `json:"valid"`
	PublicKey string `json:"public_key,omitempty"`
	Address   string `json:"address,omitempty"`
	Error     string `json:"error,omitempty"`
}

type batchOutput struct {
	Total   int                 `json:"total"`
	Valid   int                 `json:"valid"`
	Results []batchRecordOutput `json:"results"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Verify and recover every signature in a JSON or CSV file",
		Long: `Verify and recover every signature in a JSON or CSV file.

Each record carries a message or hash, a signature (r, s, v or an RPC
"signature") and optionally the expected public key. The format defaults to
the file extension, then to batch.format from the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
				if format != "json" && format != "csv" {
					format = a.cfg.Batch.Format
				}
			}

			var parser encsign.SignatureParser
			switch strings.ToLower(format) {
			case "json":
				parser = &encsign.JSONParser{}
			case "csv":
				parser = &encsign.CSVParser{}
			default:
				return fmt.Errorf("unsupported format %q", format)
			}

			records, err := parser.ParseSignatures(path)
			if err != nil {
				return err
			}

			config := encsign.DefaultBatchConfig()
			config.NumWorkers = a.cfg.Batch.Workers
			if cmd.Flags().Changed("workers") {
				config.NumWorkers = workers
			}

			start := time.Now()
			results, err := a.engine.VerifyBatch(cmd.Context(), records, config)
			if err != nil {
				return err
			}

			out := batchOutput{Total: len(results), Results: make([]batchRecordOutput, 0, len(results))}
			for _, res := range results {
				rec := batchRecordOutput{
					Index:     res.Index,
					Valid:     res.Valid,
					PublicKey: hex.EncodeToString(res.PublicKey),
					Address:   hex.EncodeToString(res.Address),
				}
				if res.Err != nil {
					rec.Error = res.Err.Error()
				}
				if res.Valid {
					out.Valid++
				}
				out.Results = append(out.Results, rec)
			}

			a.logger.Info("batch verified",
				zap.String("file", path),
				zap.Int("total", out.Total),
				zap.Int("valid", out.Valid),
				zap.Duration("elapsed", time.Since(start)))
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Signature file format (json or csv)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	return cmd
}
