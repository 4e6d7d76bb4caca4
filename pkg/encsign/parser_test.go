package encsign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_ParseSignatures(t *testing.T) {
	parser := &JSONParser{}

	records, err := parser.ParseSignatures(testdataPath("signatures.json"))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []byte(vectorMessage), records[0].Message)
	assert.Nil(t, records[0].Hash)
	assert.Equal(t, vectorSignature(), records[0].Signature)
	assert.Equal(t, mustDecode(t, vectorPublicKey), records[0].PublicKey)

	assert.Equal(t, mustDecode(t, vectorHash), records[1].Hash)
	assert.Equal(t, vectorSignature(), records[1].Signature, "flat v=1 normalizes to 28")
	assert.Nil(t, records[1].PublicKey)

	assert.Len(t, records[2].PublicKey, 65)
}

func TestJSONParser_CustomFields(t *testing.T) {
	parser := &JSONParser{MessageField: "msg", RField: "sig_r", SField: "sig_s", VField: "sig_v"}
	input := `[{"msg": "hello", "sig_r": "` + vectorR + `", "sig_s": "` + vectorS + `", "sig_v": "28"}]`

	records, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, vectorSignature(), records[0].Signature)
}

func TestJSONParser_Errors(t *testing.T) {
	parser := &JSONParser{}

	_, err := parser.ParseSignatures(testdataPath("nonexistent.json"))
	assert.Error(t, err)

	_, err = parser.ParseSignatures(testdataPath("invalid_v.json"))
	assert.ErrorContains(t, err, "failed to parse v")

	_, err = parser.Parse(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = parser.Parse(strings.NewReader(`[{"r": "01", "s": "02", "v": 27}]`))
	assert.ErrorContains(t, err, "missing message or hash field")

	_, err = parser.Parse(strings.NewReader(`[{"message": "m", "r": "01"}]`))
	assert.ErrorContains(t, err, "missing signature field")

	_, err = parser.Parse(strings.NewReader(`[{"message": "m", "signature": "abcd"}]`))
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)

	_, err = parser.Parse(strings.NewReader(`[{"hash": "abc", "signature": "` + vectorR + vectorS + `1c"}]`))
	assert.ErrorContains(t, err, "failed to parse hash")

	_, err = parser.Parse(strings.NewReader(`[{"message": "m", "signature": "` + vectorR + vectorS + `1c", "public_key": "` + vectorPublicKey[:127] + `"}]`))
	assert.ErrorContains(t, err, "failed to parse public key")

	_, err = parser.Parse(strings.NewReader(`[{"message": true}]`))
	assert.ErrorContains(t, err, "unsupported type")
}

func TestCSVParser_ParseSignatures(t *testing.T) {
	parser := &CSVParser{}

	records, err := parser.ParseSignatures(testdataPath("signatures.csv"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []byte("hello"), records[0].Message)
	assert.Equal(t, vectorSignature(), records[0].Signature)
	assert.Equal(t, []byte("goodbye"), records[1].Message)
}

func TestCSVParser_Errors(t *testing.T) {
	parser := &CSVParser{}

	_, err := parser.ParseSignatures(testdataPath("nonexistent.csv"))
	assert.Error(t, err)

	_, err = parser.Parse(strings.NewReader(""))
	assert.ErrorContains(t, err, "failed to read header")

	_, err = parser.Parse(strings.NewReader("message,r,s,v\nhello,01,02,x\n"))
	assert.ErrorContains(t, err, "line 2")
}
