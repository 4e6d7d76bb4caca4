package encsign

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/ripemd160"

	"github.com/mahdiidarabi/encsign/internal/curve"
)

const (
	// PrivateKeyLength is the size of a private key.
	PrivateKeyLength = curve.ScalarLength
	// PublicKeyLength is the size of a raw X || Y public key.
	PublicKeyLength = curve.RawPublicKeyLength
	// AddressLength is the size of an address.
	AddressLength = 20

	maxGenerateAttempts = 64
)

// IsValidPrivateKey reports whether privateKey is 32 bytes encoding an integer
// in (0, N).
func (e *Engine) IsValidPrivateKey(privateKey []byte) bool {
	if len(privateKey) != PrivateKeyLength {
		e.logger.Debug("private key rejected", zap.Int("length", len(privateKey)))
		return false
	}
	d := new(big.Int).SetBytes(privateKey)
	return d.Sign() > 0 && d.Cmp(e.curve.Order()) < 0
}

// PrivateToPublic derives the 64-byte raw public key of privateKey.
func (e *Engine) PrivateToPublic(privateKey []byte) ([]byte, error) {
	pub, err := e.curve.PublicKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return pub.Raw(), nil
}

// ImportPublic converts a compressed or uncompressed tagged public key into the
// 64-byte raw form. 64-byte input is returned unchanged.
func (e *Engine) ImportPublic(publicKey []byte) ([]byte, error) {
	if len(publicKey) == PublicKeyLength {
		return publicKey, nil
	}
	pub, err := e.curve.Parse(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub.Raw(), nil
}

// IsValidPublicKey reports whether publicKey lies on the curve. Only the 64-byte
// raw form is accepted unless sanitize is set, in which case tagged encodings
// are decoded too.
func (e *Engine) IsValidPublicKey(publicKey []byte, sanitize bool) bool {
	var err error
	switch {
	case len(publicKey) == PublicKeyLength:
		_, err = curve.ParseRaw(e.curve, publicKey)
	case !sanitize:
		return false
	default:
		_, err = e.curve.Parse(publicKey)
	}

	if err != nil {
		e.logger.Debug("public key rejected",
			zap.Int("length", len(publicKey)),
			zap.Bool("sanitize", sanitize),
			zap.Error(err))
		return false
	}
	return true
}

// PublicToAddress returns the 20-byte address of publicKey:
// the last 20 bytes of RIPEMD160(SHA256(publicKey)).
func (e *Engine) PublicToAddress(publicKey []byte, sanitize bool) ([]byte, error) {
	if len(publicKey) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPublicKey)
	}
	if sanitize && len(publicKey) != PublicKeyLength {
		imported, err := e.ImportPublic(publicKey)
		if err != nil {
			return nil, err
		}
		publicKey = imported
	}

	digest, err := e.Hash(publicKey)
	if err != nil {
		return nil, err
	}

	h := ripemd160.New()
	h.Write(digest)
	sum := h.Sum(nil)
	return sum[len(sum)-AddressLength:], nil
}

// GenerateKey draws a random valid private key from rand.
func (e *Engine) GenerateKey(rand io.Reader) ([]byte, error) {
	key := make([]byte, PrivateKeyLength)
	for i := 0; i < maxGenerateAttempts; i++ {
		if _, err := io.ReadFull(rand, key); err != nil {
			return nil, fmt.Errorf("failed to read randomness: %w", err)
		}
		if e.IsValidPrivateKey(key) {
			return key, nil
		}
	}
	return nil, errors.New("no valid private key produced by the random source")
}
