package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureVerifier_Verify(t *testing.T) {
	verifier := NewSignatureVerifier(map[string]string{"lytex": "secret-one"})
	body := []byte(`{"event":"payment.approved","data":{"id":"G1"}}`)

	require.NoError(t, verifier.Verify("lytex", body, Sign("secret-one", body)))

	err := verifier.Verify("lytex", body, Sign("wrong-secret", body))
	require.Error(t, err)
	assert.Equal(t, 401, err.(*AppError).Code)

	// Signature must cover the exact raw body
	err = verifier.Verify("lytex", append(body, ' '), Sign("secret-one", body))
	require.Error(t, err)

	err = verifier.Verify("lytex", body, "")
	require.Error(t, err)
	assert.Equal(t, 401, err.(*AppError).Code)

	err = verifier.Verify("unknown-gateway", body, Sign("secret-one", body))
	require.Error(t, err)
	assert.Equal(t, 401, err.(*AppError).Code)
}

func TestSign_HexDigest(t *testing.T) {
	// SHA-256 always yields a 64-char hex string, deterministic per input
	a := Sign("k", []byte("payload"))
	b := Sign("k", []byte("payload"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Sign("k", []byte("payload2")))
}
