// Package encsign provides ECDSA key handling, signing, verification and public
// key recovery with Ethereum style signature encodings.
//
// Public keys are handled in their 64-byte raw form (X || Y, no format tag).
// Signatures travel either as a SignResult ({r, s, v} with v = recovery id + 27)
// or as the flat 65-byte r || s || v layout used by the eth_sign RPC method.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/encsign/pkg/encsign"
//
//	engine := encsign.NewEngine()
//
//	hash, _ := engine.HashString("hello")
//	sig, err := engine.Sign(hash, privateKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	publicKey, _ := engine.PrivateToPublic(privateKey)
//	ok, err := engine.Verify(hash, sig, publicKey)
//
//	recovered, err := engine.Ecrecover(hash, sig)
//
// # Curves
//
// The engine runs on NIST P-256 by default. Use secp256k1 for signatures that
// must be recoverable by Ethereum tooling:
//
//	engine := encsign.NewEngine().WithCurve(encsign.Secp256k1())
//
// # RPC signatures
//
//	rpc, _ := encsign.ToRpcSig(sig)          // hex r || s || v
//	sig, _ = encsign.FromRpcSig(rpc)
//	ok, _ = engine.Verify(hash, encsign.RawSignature(raw), publicKey)
//
// # Batch verification
//
// Signature files in JSON or CSV can be verified in parallel:
//
//	records, err := (&encsign.JSONParser{}).ParseSignatures("signatures.json")
//	results, err := engine.VerifyBatch(ctx, records, encsign.DefaultBatchConfig())
package encsign
