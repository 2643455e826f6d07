package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// SignPayload computes the webhook signature header value for a JSON body:
// HMAC-SHA256 over the raw bytes, hex-encoded, prefixed with "sha256=".
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}

// VerifyPayload checks a signature produced by SignPayload in constant time.
func VerifyPayload(payload []byte, secret, signature string) bool {
	expected := SignPayload(payload, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// GenerateWebhookSecret returns a new endpoint secret. The "whsec_" prefix
// makes leaked secrets recognizable in logs.
func GenerateWebhookSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return "whsec_" + hex.EncodeToString(b), nil
}
