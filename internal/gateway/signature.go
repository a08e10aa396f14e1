package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the Razorpay payment signature: the hex-encoded
// HMAC-SHA256 of "<orderID>|<paymentID>" under the API key secret.
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether provided matches the expected signature
// for the given order/payment id pair. Comparison is constant-time.
func VerifySignature(secret, orderID, paymentID, provided string) bool {
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
