package encsign

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// RPCSignatureLength is the size of the flat r || s || v signature.
	RPCSignatureLength = 65

	// recoveryOffset is added to the recovery id to form v.
	recoveryOffset = 27

	componentLength = 32
)

// Signature is either a SignResult or a RawSignature. Every engine operation
// accepts both and normalizes to SignResult first.
type Signature interface {
	signResult() (SignResult, error)
}

// SignResult is the structured signature form.
type SignResult struct {
	R string `json:"r"` // 32-byte big-endian r, hex
	S string `json:"s"` // 32-byte big-endian s, hex
	V int    `json:"v"` // recovery id + 27
}

func (sig SignResult) signResult() (SignResult, error) { return sig, nil }

// RawSignature is the flat 65-byte r || s || v form. v may be 0/1 or 27/28.
type RawSignature []byte

func (sig RawSignature) signResult() (SignResult, error) { return ToSignResult(sig) }

// RecoveryID returns v-27, failing unless it is 0 or 1.
func (sig SignResult) RecoveryID() (byte, error) {
	recovery := sig.V - recoveryOffset
	if recovery != 0 && recovery != 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSignatureRecovery, sig.V)
	}
	return byte(recovery), nil
}

// Bytes flattens the signature to r(32) || s(32) || v, with v in its minimal
// big-endian encoding.
func (sig SignResult) Bytes() ([]byte, error) {
	if _, err := sig.RecoveryID(); err != nil {
		return nil, err
	}
	r, s, err := sig.components()
	if err != nil {
		return nil, err
	}

	v := big.NewInt(int64(sig.V)).Bytes()
	out := make([]byte, 2*componentLength, 2*componentLength+len(v))
	r.FillBytes(out[:componentLength])
	s.FillBytes(out[componentLength:])
	return append(out, v...), nil
}

// components decodes r and s, accepting an optional 0x prefix and values
// shorter than 32 bytes.
func (sig SignResult) components() (*big.Int, *big.Int, error) {
	r, err := decodeComponent("r", sig.R)
	if err != nil {
		return nil, nil, err
	}
	s, err := decodeComponent("s", sig.S)
	if err != nil {
		return nil, nil, err
	}
	return r, s, nil
}

// decodeComponent decodes r or s. A scalar is a number, so odd-length hex is
// read as if it had a leading zero.
func decodeComponent(name, value string) (*big.Int, error) {
	value = trimHexPrefix(value)
	if len(value)%2 != 0 {
		value = "0" + value
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSignature, name, err)
	}
	if len(b) > componentLength {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrMalformedSignature, name, len(b))
	}
	return new(big.Int).SetBytes(b), nil
}

// decodeHex decodes a byte string in hex with an optional 0x prefix.
// Odd-length input is rejected.
func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(trimHexPrefix(s))
}

func trimHexPrefix(s string) string {
	s = strings.TrimPrefix(s, "0x")
	return strings.TrimPrefix(s, "0X")
}

func newSignResult(r, s *big.Int, recID byte) SignResult {
	var rb, sb [componentLength]byte
	r.FillBytes(rb[:])
	s.FillBytes(sb[:])
	return SignResult{
		R: hex.EncodeToString(rb[:]),
		S: hex.EncodeToString(sb[:]),
		V: int(recID) + recoveryOffset,
	}
}

// decodeSignature normalizes sig and returns its scalar components and recovery id.
func decodeSignature(sig Signature) (*big.Int, *big.Int, byte, error) {
	if sig == nil {
		return nil, nil, 0, fmt.Errorf("%w: nil signature", ErrMalformedSignature)
	}
	res, err := sig.signResult()
	if err != nil {
		return nil, nil, 0, err
	}
	recID, err := res.RecoveryID()
	if err != nil {
		return nil, nil, 0, err
	}
	r, s, err := res.components()
	if err != nil {
		return nil, nil, 0, err
	}
	return r, s, recID, nil
}
