package encsign

import (
	"bytes"
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// BatchConfig configures VerifyBatch.
type BatchConfig struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int
}

// DefaultBatchConfig returns a sensible default configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{NumWorkers: 0}
}

// BatchResult is the outcome for one record of a batch.
type BatchResult struct {
	Index     int    // Position of the record in the input
	Valid     bool   // Signature verified against the expected or recovered key
	PublicKey []byte // Recovered 64-byte public key
	Address   []byte // Address of the recovered key
	Err       error  // Set when the record could not be processed
}

// VerifyBatch verifies and recovers every record using a pool of workers.
//
// When a record carries a public key the signature is verified against it and
// must also recover to it. Otherwise the record is valid when the signature
// verifies against the key it recovers to.
func (e *Engine) VerifyBatch(ctx context.Context, records []*SignatureRecord, config BatchConfig) ([]BatchResult, error) {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(records) {
		numWorkers = len(records)
	}

	e.logger.Debug("starting batch verification",
		zap.Int("records", len(records)),
		zap.Int("workers", numWorkers))

	results := make([]BatchResult, len(records))
	workChan := make(chan int, numWorkers*10)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				results[idx] = e.verifyRecord(idx, records[idx])
			}
		}()
	}

	var cancelled error
feed:
	for i := range records {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case workChan <- i:
		}
	}
	close(workChan)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

func (e *Engine) verifyRecord(idx int, rec *SignatureRecord) BatchResult {
	result := BatchResult{Index: idx}

	hash := rec.Hash
	if len(hash) == 0 {
		h, err := e.Hash(rec.Message)
		if err != nil {
			result.Err = err
			return result
		}
		hash = h
	}

	recovered, err := e.Ecrecover(hash, rec.Signature)
	if err != nil {
		result.Err = err
		return result
	}
	result.PublicKey = recovered

	address, err := e.PublicToAddress(recovered, false)
	if err != nil {
		result.Err = err
		return result
	}
	result.Address = address

	expected := recovered
	if len(rec.PublicKey) > 0 {
		expected, err = e.ImportPublic(rec.PublicKey)
		if err != nil {
			result.Err = err
			return result
		}
	}

	valid, err := e.Verify(hash, rec.Signature, expected)
	if err != nil {
		result.Err = err
		return result
	}
	result.Valid = valid && bytes.Equal(expected, recovered)

	if !result.Valid {
		e.logger.Debug("batch record did not verify", zap.Int("index", idx))
	}
	return result
}
