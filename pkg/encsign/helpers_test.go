package encsign

import (
	"crypto/rand"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Known P-256 vector.
const (
	vectorPrivateKey = "615de73b60d4267c09c9fc5b13df18b7035c5692c35b33c222b2262ce37cb873"
	vectorPublicKey  = "59a2d814f5e0341fb81b138206069d20f5263c1e59fb79f03d0e98850994c7448f05a67f4c71e6fc48379fae6936827cf22ec2e535d34612b8df179fd24eabb7"
	vectorMessage    = "hello"
	vectorHash       = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	vectorR          = "fefdddf43e04401ec49931c5a558e3cf5e076a6f1557f08db4d85c70b8a0577d"
	vectorS          = "5bfb92fea024b3bf4c0588e3a5ffa8886fee88be999169437798f29d747ffb89"
	vectorV          = 28
)

func vectorSignature() SignResult {
	return SignResult{R: vectorR, S: vectorS, V: vectorV}
}

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := decodeHex(s)
	require.NoError(t, err)
	return b
}

func testdataPath(name string) string {
	return filepath.Join("testdata", name)
}

// engines returns one engine per supported curve.
func engines() map[string]*Engine {
	return map[string]*Engine{
		"P-256":     NewEngine(),
		"secp256k1": NewEngine().WithCurve(Secp256k1()),
	}
}

// randomKey draws a valid private key for e.
func randomKey(t *testing.T, e *Engine) []byte {
	t.Helper()
	key, err := e.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key
}

// scalar returns n as a 32-byte big-endian slice.
func scalar(n *big.Int) []byte {
	out := make([]byte, PrivateKeyLength)
	n.FillBytes(out)
	return out
}
