package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encsign.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
curve: secp256k1
log:
  level: debug
  format: json
sign:
  max_attempts: 3
batch:
  workers: 4
  format: csv
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secp256k1", cfg.Curve)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Sign.MaxAttempts)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "csv", cfg.Batch.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "curve: secp256k1\n")
	t.Setenv(EnvCurve, "p256")
	t.Setenv(EnvBatchWorkers, "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p256", cfg.Curve)
	assert.Equal(t, 2, cfg.Batch.Workers)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
curve: ed25519
sign:
  max_attempts: 0
batch:
  workers: -1
  format: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported curve")
	assert.Contains(t, err.Error(), "max_attempts")
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "batch format")
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv(EnvMaxSignAttempt, "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeCurve(t *testing.T) {
	cases := map[string]string{
		"P-256":      "P-256",
		"p256":       "P-256",
		"prime256v1": "P-256",
		"secp256k1":  "secp256k1",
		" K256 ":     "secp256k1",
	}
	for in, want := range cases {
		got, err := NormalizeCurve(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeCurve("curve25519")
	assert.Error(t, err)
}
