package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks webhook signatures. One mechanism is used for
// every inbound gateway callback: HMAC-SHA256 over the full raw request
// body, hex-encoded, with the shared secret looked up by gateway name.
type SignatureVerifier struct {
	secrets map[string]string
}

// NewSignatureVerifier creates a verifier from a gateway-name-to-secret map.
func NewSignatureVerifier(secrets map[string]string) *SignatureVerifier {
	return &SignatureVerifier{secrets: secrets}
}

// Sign computes the hex HMAC-SHA256 digest of body with the given secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for body and compares it to the supplied
// one in constant time. Unknown gateways and mismatches both fail with an
// authentication error.
func (v *SignatureVerifier) Verify(gateway string, body []byte, signature string) error {
	secret, ok := v.secrets[gateway]
	if !ok {
		return NewAuthenticationError(ErrInvalidSignature)
	}
	if signature == "" {
		return NewAuthenticationError(ErrInvalidSignature)
	}
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return NewAuthenticationError(ErrInvalidSignature)
	}
	return nil
}
