// Package curve wraps the elliptic-curve libraries behind a single interface so
// the signing engine can run over P-256 or secp256k1 without caring which
// arithmetic backend does the work.
package curve

import (
	"errors"
	"fmt"
	"math/big"
)

// Encoding sizes shared by every supported curve.
const (
	ScalarLength       = 32
	RawPublicKeyLength = 64 // X || Y, no format tag
	UncompressedLength = 65 // 0x04 || X || Y
	CompressedLength   = 33 // 0x02/0x03 || X

	TagUncompressed = 0x04
)

var (
	// ErrInvalidScalar is returned when a private scalar is not in (0, N).
	ErrInvalidScalar = errors.New("scalar out of range")
	// ErrInvalidPoint is returned when an encoding does not decode to a point on the curve.
	ErrInvalidPoint = errors.New("point is not on the curve")
	// ErrNoRecovery is returned when no public key can be recovered from a signature.
	ErrNoRecovery = errors.New("public key is not recoverable")
)

// Point is an affine curve point.
type Point struct {
	X *big.Int
	Y *big.Int
}

// Raw returns the 64-byte X || Y form of the point.
func (p Point) Raw() []byte {
	out := make([]byte, RawPublicKeyLength)
	p.X.FillBytes(out[:32])
	p.Y.FillBytes(out[32:])
	return out
}

// Curve is the set of primitives the engine needs from an elliptic-curve library.
// Implementations must be safe for concurrent use.
type Curve interface {
	// Name returns the canonical curve name ("P-256", "secp256k1").
	Name() string

	// Order returns the order N of the base point. Callers must not modify it.
	Order() *big.Int

	// PublicKey multiplies the base point by the 32-byte big-endian scalar.
	PublicKey(priv []byte) (Point, error)

	// Parse decodes a tagged (compressed or uncompressed) point encoding and
	// checks that it lies on the curve.
	Parse(encoded []byte) (Point, error)

	// IsOnCurve reports whether (x, y) satisfies the curve equation.
	IsOnCurve(p Point) bool

	// Sign produces one ECDSA signature candidate over hash and the recovery
	// id that identifies the signer's public key among the recovery candidates.
	Sign(hash, priv []byte) (r, s *big.Int, recID byte, err error)

	// Verify checks an ECDSA signature against a public key.
	Verify(hash []byte, r, s *big.Int, pub Point) bool

	// Recover returns the public key that produced (r, s) over hash with the
	// given recovery id.
	Recover(hash []byte, r, s *big.Int, recID byte) (Point, error)
}

// ParseRaw re-tags a 64-byte X || Y key with the uncompressed prefix and decodes it.
func ParseRaw(c Curve, raw []byte) (Point, error) {
	if len(raw) != RawPublicKeyLength {
		return Point{}, ErrInvalidPoint
	}
	tagged := make([]byte, 0, UncompressedLength)
	tagged = append(tagged, TagUncompressed)
	tagged = append(tagged, raw...)
	return c.Parse(tagged)
}

// validScalar reports whether priv encodes an integer in (0, n).
func validScalar(priv []byte, n *big.Int) bool {
	if len(priv) != ScalarLength {
		return false
	}
	d := new(big.Int).SetBytes(priv)
	return d.Sign() > 0 && d.Cmp(n) < 0
}

// hashToInt converts a hash to an integer the way crypto/ecdsa does, keeping
// only the leftmost bits that fit the order.
func hashToInt(hash []byte, n *big.Int) *big.Int {
	orderBits := n.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

// findRecoveryID returns the recovery id whose recovered key equals pub.
func findRecoveryID(c Curve, hash []byte, r, s *big.Int, pub Point) (byte, error) {
	for i := byte(0); i < 4; i++ {
		candidate, err := c.Recover(hash, r, s, i)
		if err != nil {
			continue
		}
		if candidate.X.Cmp(pub.X) == 0 && candidate.Y.Cmp(pub.Y) == 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no recovery id matches the signing key", ErrNoRecovery)
}
