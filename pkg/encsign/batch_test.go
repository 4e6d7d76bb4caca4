package encsign

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyBatch_Fixture(t *testing.T) {
	engine := NewEngine()
	records, err := (&JSONParser{}).ParseSignatures(testdataPath("signatures.json"))
	require.NoError(t, err)

	results, err := engine.VerifyBatch(context.Background(), records, BatchConfig{NumWorkers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	pub := mustDecode(t, vectorPublicKey)
	address, err := engine.PublicToAddress(pub, false)
	require.NoError(t, err)

	for i, res := range results[:2] {
		assert.Equal(t, i, res.Index)
		assert.NoError(t, res.Err)
		assert.True(t, res.Valid, "record %d", i)
		assert.Equal(t, pub, res.PublicKey)
		assert.Equal(t, address, res.Address)
	}

	assert.NoError(t, results[2].Err)
	assert.False(t, results[2].Valid, "signature over a different message")
}

func TestVerifyBatch_Generated(t *testing.T) {
	for name, engine := range engines() {
		t.Run(name, func(t *testing.T) {
			prv := randomKey(t, engine)
			pub, err := engine.PrivateToPublic(prv)
			require.NoError(t, err)

			records := make([]*SignatureRecord, 50)
			for i := range records {
				msg := []byte(fmt.Sprintf("batch message %d", i))
				hash, err := engine.Hash(msg)
				require.NoError(t, err)
				sig, err := engine.Sign(hash, prv)
				require.NoError(t, err)
				records[i] = &SignatureRecord{Message: msg, Signature: sig, PublicKey: pub}
			}
			records[7].Message = []byte("tampered")
			records[9].Signature.V = 31

			results, err := engine.VerifyBatch(context.Background(), records, DefaultBatchConfig())
			require.NoError(t, err)
			require.Len(t, results, len(records))

			for i, res := range results {
				switch i {
				case 7:
					assert.False(t, res.Valid)
				case 9:
					assert.ErrorIs(t, res.Err, ErrInvalidSignatureRecovery)
				default:
					assert.NoError(t, res.Err, "record %d", i)
					assert.True(t, res.Valid, "record %d", i)
				}
			}
		})
	}
}

func TestVerifyBatch_EmptyMessage(t *testing.T) {
	engine := NewEngine()
	records := []*SignatureRecord{{Signature: vectorSignature()}}

	results, err := engine.VerifyBatch(context.Background(), records, BatchConfig{NumWorkers: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, ErrEmptyMessage)
}

func TestVerifyBatch_Cancelled(t *testing.T) {
	engine := NewEngine()
	records := []*SignatureRecord{{Message: []byte(vectorMessage), Signature: vectorSignature()}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.VerifyBatch(ctx, records, DefaultBatchConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyBatch_NoRecords(t *testing.T) {
	results, err := NewEngine().VerifyBatch(context.Background(), nil, DefaultBatchConfig())
	require.NoError(t, err)
	assert.Empty(t, results)
}
