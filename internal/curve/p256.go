package curve

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"
)

// nistCurve implements Curve over one of the crypto/elliptic NIST curves.
// Public key recovery is not offered by crypto/ecdsa, so it is computed here
// from the curve group operations.
type nistCurve struct {
	name  string
	curve elliptic.Curve
	rand  io.Reader
}

// P256 returns the NIST P-256 (secp256r1) curve.
func P256() Curve {
	return &nistCurve{name: "P-256", curve: elliptic.P256(), rand: rand.Reader}
}

// P256WithRand returns P-256 drawing signing randomness from r. It is meant for tests.
func P256WithRand(r io.Reader) Curve {
	return &nistCurve{name: "P-256", curve: elliptic.P256(), rand: r}
}

func (c *nistCurve) Name() string { return c.name }

func (c *nistCurve) Order() *big.Int { return c.curve.Params().N }

func (c *nistCurve) PublicKey(priv []byte) (Point, error) {
	if !validScalar(priv, c.Order()) {
		return Point{}, ErrInvalidScalar
	}
	x, y := c.curve.ScalarBaseMult(priv)
	return Point{X: x, Y: y}, nil
}

func (c *nistCurve) Parse(encoded []byte) (Point, error) {
	var x, y *big.Int
	switch {
	case len(encoded) == UncompressedLength && encoded[0] == TagUncompressed:
		x, y = elliptic.Unmarshal(c.curve, encoded)
	case len(encoded) == CompressedLength && (encoded[0] == 0x02 || encoded[0] == 0x03):
		x, y = elliptic.UnmarshalCompressed(c.curve, encoded)
	default:
		return Point{}, ErrInvalidPoint
	}
	if x == nil {
		return Point{}, ErrInvalidPoint
	}
	return Point{X: x, Y: y}, nil
}

func (c *nistCurve) IsOnCurve(p Point) bool {
	if p.X == nil || p.Y == nil {
		return false
	}
	return c.curve.IsOnCurve(p.X, p.Y)
}

func (c *nistCurve) Sign(hash, priv []byte) (*big.Int, *big.Int, byte, error) {
	pub, err := c.PublicKey(priv)
	if err != nil {
		return nil, nil, 0, err
	}
	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: c.curve, X: pub.X, Y: pub.Y},
		D:         new(big.Int).SetBytes(priv),
	}

	r, s, err := ecdsa.Sign(c.rand, key, hash)
	if err != nil {
		return nil, nil, 0, err
	}

	recID, err := findRecoveryID(c, hash, r, s, pub)
	if err != nil {
		return nil, nil, 0, err
	}
	return r, s, recID, nil
}

func (c *nistCurve) Verify(hash []byte, r, s *big.Int, pub Point) bool {
	if !c.IsOnCurve(pub) {
		return false
	}
	key := &ecdsa.PublicKey{Curve: c.curve, X: pub.X, Y: pub.Y}
	return ecdsa.Verify(key, hash, r, s)
}

// Recover computes Q = r⁻¹(s·R − e·G) where R is the point with x = r + (recID>>1)·N
// and y parity recID&1.
func (c *nistCurve) Recover(hash []byte, r, s *big.Int, recID byte) (Point, error) {
	params := c.curve.Params()
	n := params.N

	if recID > 3 || r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return Point{}, ErrNoRecovery
	}

	rx := new(big.Int).Set(r)
	if recID&2 != 0 {
		rx.Add(rx, n)
		if rx.Cmp(params.P) >= 0 {
			return Point{}, ErrNoRecovery
		}
	}

	compressed := make([]byte, CompressedLength)
	compressed[0] = 0x02 | (recID & 1)
	rx.FillBytes(compressed[1:])
	Rx, Ry := elliptic.UnmarshalCompressed(c.curve, compressed)
	if Rx == nil {
		return Point{}, ErrNoRecovery
	}

	rInv := new(big.Int).ModInverse(r, n)
	if rInv == nil {
		return Point{}, ErrNoRecovery
	}

	e := hashToInt(hash, n)
	e.Mod(e, n)

	// u1 = -e·r⁻¹, u2 = s·r⁻¹ (mod N)
	u1 := new(big.Int).Neg(e)
	u1.Mul(u1, rInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(s, rInv)
	u2.Mod(u2, n)

	x1, y1 := c.curve.ScalarBaseMult(scalarBytes(u1))
	x2, y2 := c.curve.ScalarMult(Rx, Ry, scalarBytes(u2))
	qx, qy := c.curve.Add(x1, y1, x2, y2)

	if qx.Sign() == 0 && qy.Sign() == 0 {
		return Point{}, ErrNoRecovery
	}
	return Point{X: qx, Y: qy}, nil
}

// scalarBytes left-pads k to the 32-byte scalar width.
func scalarBytes(k *big.Int) []byte {
	out := make([]byte, ScalarLength)
	k.FillBytes(out)
	return out
}
