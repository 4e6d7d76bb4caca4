// Package certutil extracts raw public keys from X.509 certificates.
//
// Only the SubjectPublicKeyInfo of the certificate is read, so certificates
// for curves that crypto/x509 does not support (such as secp256k1) work too.
// The returned bytes are the key exactly as stored in the certificate; for EC
// keys that is the uncompressed 0x04 || X || Y point, ready for
// encsign.Engine.ImportPublic.
package certutil

import (
	"bytes"
	encasn1 "encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformedCertificate is returned when a certificate cannot be parsed.
var ErrMalformedCertificate = errors.New("malformed certificate")

var pemBlockPattern = regexp.MustCompile(`(-----\s*BEGIN ?[^-]+?-----)([\s\S]*)(-----\s*END ?[^-]+?-----)`)

var (
	oidECPublicKey = encasn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidP256        = encasn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp256k1   = encasn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// PublicKeyInfo is the parsed SubjectPublicKeyInfo of a certificate.
type PublicKeyInfo struct {
	Algorithm encasn1.ObjectIdentifier
	// Curve is "P-256", "secp256k1", the dotted OID of another named curve,
	// or empty for non-EC keys.
	Curve string
	Key   []byte
}

// FormatCertificate puts the BEGIN and END markers of a PEM block on their own
// lines and terminates the block with a newline. Empty input yields "".
func FormatCertificate(pemText string) (string, error) {
	if len(pemText) == 0 {
		return "", nil
	}

	matches := pemBlockPattern.FindStringSubmatch(pemText)
	if len(matches) != 4 {
		return "", fmt.Errorf("%w: invalid PEM block", ErrMalformedCertificate)
	}

	parts := make([]string, 0, 3)
	for _, m := range matches[1:] {
		parts = append(parts, strings.TrimSpace(m))
	}
	return strings.Join(parts, "\n") + "\n", nil
}

// PublicKeyFromPEM formats pemText and returns the raw public key of the certificate.
func PublicKeyFromPEM(pemText string) ([]byte, error) {
	info, err := parsePEM(pemText)
	if err != nil {
		return nil, err
	}
	return info.Key, nil
}

// PublicKeyFromCertificate returns the raw public key of a PEM or DER certificate.
func PublicKeyFromCertificate(data []byte) ([]byte, error) {
	info, err := ParsePublicKeyInfo(data)
	if err != nil {
		return nil, err
	}
	return info.Key, nil
}

// ParsePublicKeyInfo parses the SubjectPublicKeyInfo of a PEM or DER certificate.
func ParsePublicKeyInfo(data []byte) (*PublicKeyInfo, error) {
	if bytes.Contains(data, []byte("BEGIN")) {
		return parsePEM(string(data))
	}
	return parseDER(data)
}

func parsePEM(pemText string) (*PublicKeyInfo, error) {
	formatted, err := FormatCertificate(pemText)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode([]byte(formatted))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrMalformedCertificate)
	}
	return parseDER(block.Bytes)
}

// parseDER walks Certificate -> TBSCertificate -> SubjectPublicKeyInfo.
func parseDER(der []byte) (*PublicKeyInfo, error) {
	input := cryptobyte.String(der)

	var cert, tbs cryptobyte.String
	if !input.ReadASN1(&cert, asn1.SEQUENCE) || !cert.ReadASN1(&tbs, asn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid certificate structure", ErrMalformedCertificate)
	}

	// version, serialNumber, signature, issuer, validity, subject
	if !tbs.SkipOptionalASN1(asn1.Tag(0).Constructed().ContextSpecific()) ||
		!tbs.SkipASN1(asn1.INTEGER) ||
		!tbs.SkipASN1(asn1.SEQUENCE) ||
		!tbs.SkipASN1(asn1.SEQUENCE) ||
		!tbs.SkipASN1(asn1.SEQUENCE) ||
		!tbs.SkipASN1(asn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid TBS certificate", ErrMalformedCertificate)
	}

	var spki, algorithm cryptobyte.String
	if !tbs.ReadASN1(&spki, asn1.SEQUENCE) || !spki.ReadASN1(&algorithm, asn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: invalid subject public key info", ErrMalformedCertificate)
	}

	info := &PublicKeyInfo{}
	if !algorithm.ReadASN1ObjectIdentifier(&info.Algorithm) {
		return nil, fmt.Errorf("%w: invalid public key algorithm", ErrMalformedCertificate)
	}
	if info.Algorithm.Equal(oidECPublicKey) && algorithm.PeekASN1Tag(asn1.OBJECT_IDENTIFIER) {
		var named encasn1.ObjectIdentifier
		if !algorithm.ReadASN1ObjectIdentifier(&named) {
			return nil, fmt.Errorf("%w: invalid curve identifier", ErrMalformedCertificate)
		}
		info.Curve = curveName(named)
	}

	if !spki.ReadASN1BitStringAsBytes(&info.Key) {
		return nil, fmt.Errorf("%w: invalid public key bit string", ErrMalformedCertificate)
	}
	return info, nil
}

func curveName(oid encasn1.ObjectIdentifier) string {
	switch {
	case oid.Equal(oidP256):
		return "P-256"
	case oid.Equal(oidSecp256k1):
		return "secp256k1"
	default:
		return oid.String()
	}
}
