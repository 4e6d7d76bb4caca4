package curve

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// compactRecoveryCode is the header offset used by decred's compact signatures:
// header = 27 + recID (+4 for compressed keys).
const compactRecoveryCode = 27

type koblitzCurve struct{}

// Secp256k1 returns the secp256k1 curve backed by decred's implementation.
// Signing is deterministic (RFC 6979) and always yields low-S signatures.
func Secp256k1() Curve {
	return koblitzCurve{}
}

func (koblitzCurve) Name() string { return "secp256k1" }

func (koblitzCurve) Order() *big.Int { return secp256k1.S256().Params().N }

func (c koblitzCurve) PublicKey(priv []byte) (Point, error) {
	if !validScalar(priv, c.Order()) {
		return Point{}, ErrInvalidScalar
	}
	pub := secp256k1.PrivKeyFromBytes(priv).PubKey()
	return Point{X: pub.X(), Y: pub.Y()}, nil
}

func (koblitzCurve) Parse(encoded []byte) (Point, error) {
	pub, err := secp256k1.ParsePubKey(encoded)
	if err != nil {
		return Point{}, ErrInvalidPoint
	}
	return Point{X: pub.X(), Y: pub.Y()}, nil
}

func (koblitzCurve) IsOnCurve(p Point) bool {
	if p.X == nil || p.Y == nil {
		return false
	}
	curve := secp256k1.S256()
	fp := curve.Params().P
	if p.X.Sign() < 0 || p.Y.Sign() < 0 || p.X.Cmp(fp) >= 0 || p.Y.Cmp(fp) >= 0 {
		return false
	}
	return curve.IsOnCurve(p.X, p.Y)
}

func (c koblitzCurve) Sign(hash, priv []byte) (*big.Int, *big.Int, byte, error) {
	if !validScalar(priv, c.Order()) {
		return nil, nil, 0, ErrInvalidScalar
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	defer key.Zero()

	compact := ecdsa.SignCompact(key, hash, false)
	recID := compact[0] - compactRecoveryCode
	r := new(big.Int).SetBytes(compact[1:33])
	s := new(big.Int).SetBytes(compact[33:65])
	return r, s, recID, nil
}

func (c koblitzCurve) Verify(hash []byte, r, s *big.Int, pub Point) bool {
	if !c.IsOnCurve(pub) {
		return false
	}
	if r.Sign() <= 0 || s.Sign() <= 0 || r.BitLen() > 256 || s.BitLen() > 256 {
		return false
	}

	var rs, ss secp256k1.ModNScalar
	if rs.SetByteSlice(r.Bytes()) || ss.SetByteSlice(s.Bytes()) {
		return false // overflow
	}

	var x, y secp256k1.FieldVal
	x.SetByteSlice(pub.X.Bytes())
	y.SetByteSlice(pub.Y.Bytes())
	key := secp256k1.NewPublicKey(&x, &y)

	return ecdsa.NewSignature(&rs, &ss).Verify(hash, key)
}

func (koblitzCurve) Recover(hash []byte, r, s *big.Int, recID byte) (Point, error) {
	if recID > 3 || r.Sign() <= 0 || s.Sign() <= 0 || r.BitLen() > 256 || s.BitLen() > 256 {
		return Point{}, ErrNoRecovery
	}

	compact := make([]byte, 65)
	compact[0] = compactRecoveryCode + recID
	r.FillBytes(compact[1:33])
	s.FillBytes(compact[33:65])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return Point{}, ErrNoRecovery
	}
	return Point{X: pub.X(), Y: pub.Y()}, nil
}
