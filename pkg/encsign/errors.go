package encsign

import "errors"

var (
	// ErrInvalidPrivateKey is returned when a private key is not 32 bytes or not in (0, N).
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey is returned when a public key does not decode to a point on the curve.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSignatureRecovery is returned when v-27 is not 0 or 1.
	ErrInvalidSignatureRecovery = errors.New("invalid signature v value")

	// ErrInvalidSignatureLength is returned for flat signatures that are not 65 bytes
	// and for empty RPC signatures.
	ErrInvalidSignatureLength = errors.New("invalid signature length")

	// ErrMalformedSignature is returned when r, s or an RPC signature is not valid hex
	// or r/s do not fit in 32 bytes.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrEmptyMessage is returned when hashing an empty message.
	ErrEmptyMessage = errors.New("the message must not be empty")

	// ErrSignatureNotVerified is returned when no signature candidate verified
	// within the configured number of attempts.
	ErrSignatureNotVerified = errors.New("signature did not verify")

	// ErrRecoveryFailed is returned when no public key can be recovered from a signature.
	ErrRecoveryFailed = errors.New("public key recovery failed")
)
