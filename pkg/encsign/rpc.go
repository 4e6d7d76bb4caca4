package encsign

import (
	"encoding/hex"
	"fmt"
)

// ToSignResult converts a flat r || s || v signature into its structured form.
// Both v conventions of eth_sign responses (0/1 and 27/28) are accepted; the
// result always carries 27/28.
func ToSignResult(sig []byte) (SignResult, error) {
	if len(sig) != RPCSignatureLength {
		return SignResult{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(sig), RPCSignatureLength)
	}

	v := int(sig[RPCSignatureLength-1])
	if v < recoveryOffset {
		v += recoveryOffset
	}

	return SignResult{
		R: hex.EncodeToString(sig[:componentLength]),
		S: hex.EncodeToString(sig[componentLength : 2*componentLength]),
		V: v,
	}, nil
}

// ToRpcSig encodes a signature in the eth_sign RPC format.
func ToRpcSig(sig SignResult) (string, error) {
	b, err := sig.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// FromRpcSig decodes an eth_sign RPC signature. A 0x prefix is optional.
func FromRpcSig(sig string) (SignResult, error) {
	if len(sig) == 0 {
		return SignResult{}, fmt.Errorf("%w: empty signature", ErrInvalidSignatureLength)
	}
	raw, err := decodeHex(sig)
	if err != nil {
		return SignResult{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return ToSignResult(raw)
}

// ToRpcSig is the engine form of the package-level ToRpcSig.
func (e *Engine) ToRpcSig(sig SignResult) (string, error) { return ToRpcSig(sig) }

// FromRpcSig is the engine form of the package-level FromRpcSig.
func (e *Engine) FromRpcSig(sig string) (SignResult, error) { return FromRpcSig(sig) }
