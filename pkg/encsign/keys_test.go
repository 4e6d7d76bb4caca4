package encsign

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ripemd160"
)

// uncompressed P-256 public key
const taggedPublicKey = "04e6075af709d5af38e3f7a290770e32675b70a737cab5c9d8917739ae03a036ad72b33c896d1ef61b6d2a8849926e6eccbc8152fa1988185cd76eebd473cc5179"

func TestIsValidPrivateKey(t *testing.T) {
	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			n := engine.Curve().Order()

			assert.False(t, engine.IsValidPrivateKey(make([]byte, 32)), "zero key")
			assert.False(t, engine.IsValidPrivateKey(scalar(n)), "curve order")
			assert.False(t, engine.IsValidPrivateKey(nil))
			assert.True(t, engine.IsValidPrivateKey(scalar(big.NewInt(1))))
			assert.True(t, engine.IsValidPrivateKey(scalar(new(big.Int).Sub(n, big.NewInt(1)))))

			key := randomKey(t, engine)
			assert.True(t, engine.IsValidPrivateKey(key))
			assert.False(t, engine.IsValidPrivateKey(key[1:]))
			assert.False(t, engine.IsValidPrivateKey(append(key, 0)))
		})
	}
}

func TestPrivateToPublic(t *testing.T) {
	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			pub, err := engine.PrivateToPublic(randomKey(t, engine))
			require.NoError(t, err)
			assert.Len(t, pub, PublicKeyLength)
			assert.True(t, engine.IsValidPublicKey(pub, false))

			_, err = engine.PrivateToPublic(make([]byte, 32))
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

func TestImportPublic(t *testing.T) {
	engine := NewEngine()
	tagged := mustDecode(t, taggedPublicKey)

	require.True(t, engine.IsValidPublicKey(tagged, true))
	assert.False(t, engine.IsValidPublicKey(tagged, false))

	raw, err := engine.ImportPublic(tagged)
	require.NoError(t, err)
	assert.Len(t, raw, PublicKeyLength)
	assert.Equal(t, tagged[1:], raw)

	same, err := engine.ImportPublic(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, same)

	_, err = engine.ImportPublic([]byte{0x04, 0x01})
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestImportPublic_Compressed(t *testing.T) {
	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			raw, err := engine.PrivateToPublic(randomKey(t, engine))
			require.NoError(t, err)

			y := new(big.Int).SetBytes(raw[32:])
			compressed := append([]byte{0x02 | byte(y.Bit(0))}, raw[:32]...)

			require.True(t, engine.IsValidPublicKey(compressed, true))
			imported, err := engine.ImportPublic(compressed)
			require.NoError(t, err)
			assert.Equal(t, raw, imported)
		})
	}
}

func TestIsValidPublicKey_NeverFailsLoudly(t *testing.T) {
	engine := NewEngine()
	inputs := [][]byte{
		nil,
		{},
		make([]byte, 64),
		bytes.Repeat([]byte{0xff}, 64),
		bytes.Repeat([]byte{0xff}, 65),
		{0x02},
		{0x07, 0x01, 0x02},
	}
	for _, in := range inputs {
		assert.False(t, engine.IsValidPublicKey(in, false))
		assert.False(t, engine.IsValidPublicKey(in, true))
	}
}

func TestIsValidPublicKey_CurveMismatch(t *testing.T) {
	p256 := NewEngine()
	k1 := NewEngine().WithCurve(Secp256k1())

	pub, err := p256.PrivateToPublic(mustDecode(t, vectorPrivateKey))
	require.NoError(t, err)

	assert.True(t, p256.IsValidPublicKey(pub, false))
	assert.False(t, k1.IsValidPublicKey(pub, false))
}

func TestPublicToAddress(t *testing.T) {
	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			pub, err := engine.PrivateToPublic(randomKey(t, engine))
			require.NoError(t, err)

			address, err := engine.PublicToAddress(pub, false)
			require.NoError(t, err)
			assert.Len(t, address, AddressLength)

			tagged := append([]byte{0x04}, pub...)
			sanitized, err := engine.PublicToAddress(tagged, true)
			require.NoError(t, err)
			assert.Equal(t, address, sanitized)

			// Without sanitize the tagged bytes are hashed as they are.
			unsanitized, err := engine.PublicToAddress(tagged, false)
			require.NoError(t, err)
			assert.NotEqual(t, address, unsanitized)
		})
	}
}

func TestPublicToAddress_KnownVector(t *testing.T) {
	engine := NewEngine()
	pub := mustDecode(t, vectorPublicKey)

	digest := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(digest[:])
	sum := h.Sum(nil)
	expected := sum[len(sum)-AddressLength:]

	address, err := engine.PublicToAddress(pub, false)
	require.NoError(t, err)
	assert.Equal(t, expected, address)
	assert.Equal(t, "6e7ce3babe418d6d0a58b16634e78b89437d1eda", hex.EncodeToString(address))

	// The address depends only on the key bytes, not on the engine curve.
	k1Address, err := engine.WithCurve(Secp256k1()).PublicToAddress(pub, false)
	require.NoError(t, err)
	assert.Equal(t, address, k1Address)
}

func TestPublicToAddress_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.PublicToAddress(nil, false)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = engine.PublicToAddress([]byte{0x04, 0x01}, true)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestGenerateKey(t *testing.T) {
	engine := NewEngine()

	key, err := engine.GenerateKey(rand.Reader)
	require.NoError(t, err)
	assert.True(t, engine.IsValidPrivateKey(key))

	_, err = engine.GenerateKey(bytes.NewReader(make([]byte, 32*maxGenerateAttempts)))
	assert.Error(t, err, "all-zero randomness never yields a valid key")

	_, err = engine.GenerateKey(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}
