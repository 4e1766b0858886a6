package automation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	domain "github.com/erp/automation/internal/domain/automation"
)

// SignatureHeader carries the hex HMAC-SHA256 of a pushed webhook payload
const SignatureHeader = "X-Webhook-Signature"

// Sign returns the hex encoded HMAC-SHA256 of payload under secret
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against payload in constant time.
// An optional "sha256=" prefix is accepted.
func VerifySignature(payload []byte, signature, secret string) error {
	signature = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(signature, "sha256=")))
	if signature == "" {
		return domain.ErrInvalidSignature
	}
	if !hmac.Equal([]byte(Sign(payload, secret)), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
