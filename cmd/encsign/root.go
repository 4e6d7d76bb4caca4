package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/encsign/internal/config"
	"github.com/mahdiidarabi/encsign/internal/logger"
	"github.com/mahdiidarabi/encsign/pkg/encsign"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	ConfigPath string
	Curve      string
	LogLevel   string
	LogFormat  string
}

// app carries the state built once the persistent flags are parsed.
type app struct {
	flags  globalFlags
	cfg    config.Config
	logger *zap.Logger
	engine *encsign.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "encsign",
		Short: "Sign, verify and recover ECDSA signatures",
		Long: `encsign hashes messages with SHA-256 and signs, verifies and recovers
ECDSA signatures on P-256 (default) or secp256k1.

Results are printed as JSON on stdout. Logs go to stderr.

Examples:
  encsign keygen
  encsign sign --private-key <hex> --message hello
  encsign verify --public-key <hex> --message hello --signature <rpc hex>
  encsign recover --curve secp256k1 --hash <hex> --signature <rpc hex>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.flags.Curve, "curve", "", "Curve: P-256 or secp256k1 (overrides config)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "Log format: console|json (overrides config)")

	root.AddCommand(
		newKeygenCmd(a),
		newPubkeyCmd(a),
		newAddressCmd(a),
		newHashCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newRecoverCmd(a),
		newRPCSigCmd(a),
		newCertCmd(a),
		newBatchCmd(a),
	)
	return root
}

// init loads the config, applies flag overrides and builds the logger and engine.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.flags.Curve != "" {
		cfg.Curve = a.flags.Curve
	}
	if a.flags.LogLevel != "" {
		cfg.Log.Level = a.flags.LogLevel
	}
	if a.flags.LogFormat != "" {
		cfg.Log.Format = a.flags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	curve, err := encsign.CurveByName(cfg.Curve)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log.With(zap.String("command", cmd.Name()))
	a.engine = encsign.NewEngine().
		WithCurve(curve).
		WithLogger(a.logger).
		WithMaxSignAttempts(cfg.Sign.MaxAttempts)

	a.logger.Debug("engine ready",
		zap.String("curve", curve.Name()),
		zap.Int("max_sign_attempts", cfg.Sign.MaxAttempts))
	return nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// decodeHexArg decodes a hex argument, accepting a 0x prefix.
func decodeHexArg(name, value string) ([]byte, error) {
	if len(value) >= 2 && (value[:2] == "0x" || value[:2] == "0X") {
		value = value[2:]
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

// messageFlags selects the hash to operate on: a message to hash, or a hash given directly.
type messageFlags struct {
	Message string
	Hash    string
}

func (m *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.Message, "message", "", "Message to hash with SHA-256")
	cmd.Flags().StringVar(&m.Hash, "hash", "", "Message hash in hex (instead of --message)")
	cmd.MarkFlagsMutuallyExclusive("message", "hash")
}

func (m *messageFlags) resolve(engine *encsign.Engine) ([]byte, error) {
	switch {
	case m.Hash != "":
		return decodeHexArg("hash", m.Hash)
	case m.Message != "":
		return engine.HashString(m.Message)
	default:
		return nil, errors.New("one of --message or --hash is required")
	}
}

// signatureFlags accept a signature either as an RPC hex string or as r, s and v.
type signatureFlags struct {
	RPC string
	R   string
	S   string
	V   int
}

func (f *signatureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.RPC, "signature", "", "Signature in RPC hex form (r || s || v)")
	cmd.Flags().StringVar(&f.R, "r", "", "Signature r in hex")
	cmd.Flags().StringVar(&f.S, "s", "", "Signature s in hex")
	cmd.Flags().IntVar(&f.V, "v", 0, "Signature v (27 or 28)")
	cmd.MarkFlagsMutuallyExclusive("signature", "r")
	cmd.MarkFlagsMutuallyExclusive("signature", "s")
	cmd.MarkFlagsMutuallyExclusive("signature", "v")
}

func (f *signatureFlags) resolve() (encsign.Signature, error) {
	if f.RPC != "" {
		return encsign.FromRpcSig(f.RPC)
	}
	if f.R == "" || f.S == "" {
		return nil, errors.New("either --signature or --r, --s and --v are required")
	}
	return encsign.SignResult{R: f.R, S: f.S, V: f.V}, nil
}
