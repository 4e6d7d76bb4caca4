package encsign

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SignatureRecord is one entry of a signature file.
type SignatureRecord struct {
	Message   []byte     // Signed message; hashed when Hash is empty
	Hash      []byte     // Message hash
	Signature SignResult // Signature over the hash
	PublicKey []byte     // Optional expected signer, any supported encoding
}

// SignatureParser defines the interface for parsing signature records from various sources.
type SignatureParser interface {
	// ParseSignatures parses signature records from a source and returns them.
	ParseSignatures(source string) ([]*SignatureRecord, error)
}

// fieldNames holds the column or key names used by the parsers.
type fieldNames struct {
	message, hash, r, s, v, rpc, publicKey string
}

func resolveFields(message, hash, r, s, v, rpc, publicKey string) fieldNames {
	pick := func(value, def string) string {
		if value == "" {
			return def
		}
		return value
	}
	return fieldNames{
		message:   pick(message, "message"),
		hash:      pick(hash, "hash"),
		r:         pick(r, "r"),
		s:         pick(s, "s"),
		v:         pick(v, "v"),
		rpc:       pick(rpc, "signature"),
		publicKey: pick(publicKey, "public_key"),
	}
}

// JSONParser parses signature records from JSON files.
type JSONParser struct {
	MessageField   string // Field name for message (default: "message")
	HashField      string // Field name for the hash (default: "hash")
	RField         string // Field name for r (default: "r")
	SField         string // Field name for s (default: "s")
	VField         string // Field name for v (default: "v")
	RPCField       string // Field name for a flat RPC signature (default: "signature")
	PublicKeyField string // Field name for the public key (default: "public_key")
}

// ParseSignatures parses signature records from a JSON file.
//
// Expected format:
// [
//
//	{"message": "...", "r": "...", "s": "...", "v": 27},
//	{"hash": "0x...", "signature": "0x...", "public_key": "04..."}
//
// ]
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*SignatureRecord, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads signature records from r.
func (p *JSONParser) Parse(r io.Reader) ([]*SignatureRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	fields := resolveFields(p.MessageField, p.HashField, p.RField, p.SField, p.VField, p.RPCField, p.PublicKeyField)
	records := make([]*SignatureRecord, 0, len(items))

	for i, item := range items {
		values := make(map[string]string, len(item))
		for key, val := range item {
			s, err := stringValue(val)
			if err != nil {
				return nil, fmt.Errorf("record %d: field %s: %w", i, key, err)
			}
			values[key] = s
		}

		rec, err := buildRecord(values, fields)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// CSVParser parses signature records from CSV files.
type CSVParser struct {
	MessageCol   string // Column name for message (default: "message")
	HashCol      string // Column name for the hash (default: "hash")
	RCol         string // Column name for r (default: "r")
	SCol         string // Column name for s (default: "s")
	VCol         string // Column name for v (default: "v")
	RPCCol       string // Column name for a flat RPC signature (default: "signature")
	PublicKeyCol string // Column name for the public key (default: "public_key")
}

// ParseSignatures parses signature records from a CSV file.
func (p *CSVParser) ParseSignatures(csvFile string) ([]*SignatureRecord, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads signature records from r. The first row is the header.
func (p *CSVParser) Parse(r io.Reader) ([]*SignatureRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	fields := resolveFields(p.MessageCol, p.HashCol, p.RCol, p.SCol, p.VCol, p.RPCCol, p.PublicKeyCol)
	records := make([]*SignatureRecord, 0)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				values[col] = strings.TrimSpace(row[i])
			}
		}

		rec, err := buildRecord(values, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// buildRecord assembles a record from raw field values. A flat RPC signature
// takes precedence over separate r, s and v fields.
func buildRecord(values map[string]string, f fieldNames) (*SignatureRecord, error) {
	rec := &SignatureRecord{}

	if h := values[f.hash]; h != "" {
		hash, err := decodeHex(h)
		if err != nil {
			return nil, fmt.Errorf("failed to parse hash: %w", err)
		}
		rec.Hash = hash
	} else if m, ok := values[f.message]; ok && m != "" {
		rec.Message = []byte(m)
	} else {
		return nil, fmt.Errorf("missing %s or %s field", f.message, f.hash)
	}

	if rpc := values[f.rpc]; rpc != "" {
		sig, err := FromRpcSig(rpc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse signature: %w", err)
		}
		rec.Signature = sig
	} else {
		r, okR := values[f.r]
		s, okS := values[f.s]
		v, okV := values[f.v]
		if !okR || !okS || !okV || r == "" || s == "" || v == "" {
			return nil, fmt.Errorf("missing %s field or %s/%s/%s fields", f.rpc, f.r, f.s, f.v)
		}
		vn, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse v: %w", err)
		}
		rec.Signature = SignResult{R: r, S: s, V: vn}
	}

	if pk := values[f.publicKey]; pk != "" {
		pub, err := decodeHex(pk)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		rec.PublicKey = pub
	}

	return rec, nil
}

// stringValue renders a decoded JSON scalar as a string.
func stringValue(val interface{}) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported type: %T", val)
	}
}
