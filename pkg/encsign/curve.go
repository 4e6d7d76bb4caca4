package encsign

import (
	"fmt"
	"strings"

	"github.com/mahdiidarabi/encsign/internal/curve"
)

// Curve is the elliptic-curve backend an Engine runs on.
type Curve = curve.Curve

// P256 returns the NIST P-256 curve. It is the default engine curve.
func P256() Curve { return curve.P256() }

// Secp256k1 returns the secp256k1 curve used by Ethereum and Bitcoin.
func Secp256k1() Curve { return curve.Secp256k1() }

// CurveByName resolves a curve from its name or a common alias.
func CurveByName(name string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "p256", "p-256", "secp256r1", "prime256v1":
		return P256(), nil
	case "secp256k1", "k256":
		return Secp256k1(), nil
	default:
		return nil, fmt.Errorf("unsupported curve %q", name)
	}
}
