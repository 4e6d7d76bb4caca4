package encsign

import (
	"crypto/sha256"
	"fmt"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/encsign/internal/curve"
)

// DefaultMaxSignAttempts bounds the sign-then-verify loop in Sign.
const DefaultMaxSignAttempts = 8

// HashLength is the size of a message hash.
const HashLength = sha256.Size

// Engine hashes, signs, verifies and recovers over a fixed curve.
//
// An Engine is immutable once built: the With* methods return a modified copy,
// so one Engine can be shared between goroutines.
type Engine struct {
	curve           Curve
	logger          *zap.Logger
	maxSignAttempts int
}

// NewEngine creates an engine on P-256 with default settings.
func NewEngine() *Engine {
	return &Engine{
		curve:           P256(),
		logger:          zap.NewNop(),
		maxSignAttempts: DefaultMaxSignAttempts,
	}
}

// WithCurve returns a copy of the engine running on c.
func (e *Engine) WithCurve(c Curve) *Engine {
	cp := *e
	cp.curve = c
	return &cp
}

// WithLogger returns a copy of the engine logging to logger.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	cp := *e
	if logger == nil {
		logger = zap.NewNop()
	}
	cp.logger = logger
	return &cp
}

// WithMaxSignAttempts returns a copy of the engine with a different bound on
// the sign-then-verify loop. Values below 1 are treated as 1.
func (e *Engine) WithMaxSignAttempts(n int) *Engine {
	cp := *e
	if n < 1 {
		n = 1
	}
	cp.maxSignAttempts = n
	return &cp
}

// Curve returns the curve the engine runs on.
func (e *Engine) Curve() Curve { return e.curve }

// Hash returns the SHA-256 digest of message.
func (e *Engine) Hash(message []byte) ([]byte, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	h := sha256.Sum256(message)
	return h[:], nil
}

// HashString hashes the raw bytes of message.
func (e *Engine) HashString(message string) ([]byte, error) {
	return e.Hash([]byte(message))
}

// Sign signs msgHash with privateKey. A candidate is only returned once it
// verifies against the signer's public key and carries a recovery id of 0 or 1.
func (e *Engine) Sign(msgHash, privateKey []byte) (SignResult, error) {
	if !e.IsValidPrivateKey(privateKey) {
		return SignResult{}, ErrInvalidPrivateKey
	}

	pub, err := e.curve.PublicKey(privateKey)
	if err != nil {
		return SignResult{}, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	for attempt := 1; attempt <= e.maxSignAttempts; attempt++ {
		r, s, recID, err := e.curve.Sign(msgHash, privateKey)
		if err != nil {
			e.logger.Warn("signing attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if recID > 1 {
			e.logger.Warn("discarding signature with high recovery id",
				zap.Int("attempt", attempt), zap.Uint8("recovery_id", recID))
			continue
		}
		if !e.curve.Verify(msgHash, r, s, pub) {
			e.logger.Warn("discarding signature that does not verify", zap.Int("attempt", attempt))
			continue
		}
		return newSignResult(r, s, recID), nil
	}

	return SignResult{}, fmt.Errorf("%w after %d attempts", ErrSignatureNotVerified, e.maxSignAttempts)
}

// Verify checks sig over msgHash against a 64-byte raw public key. A
// well-formed signature that does not match returns false with a nil error.
func (e *Engine) Verify(msgHash []byte, sig Signature, publicKey []byte) (bool, error) {
	if !e.IsValidPublicKey(publicKey, false) {
		return false, ErrInvalidPublicKey
	}
	pub, err := curve.ParseRaw(e.curve, publicKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	r, s, _, err := decodeSignature(sig)
	if err != nil {
		return false, err
	}

	return e.curve.Verify(msgHash, r, s, pub), nil
}

// Ecrecover returns the 64-byte raw public key that produced sig over msgHash.
func (e *Engine) Ecrecover(msgHash []byte, sig Signature) ([]byte, error) {
	r, s, recID, err := decodeSignature(sig)
	if err != nil {
		return nil, err
	}

	pub, err := e.curve.Recover(msgHash, r, s, recID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecoveryFailed, err)
	}
	return pub.Raw(), nil
}
