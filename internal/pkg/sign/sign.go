// Package sign computes and verifies the HMAC-SHA256 signatures the
// payment gateway attaches to completed payments.
package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the hex-encoded HMAC-SHA256 of orderID|paymentID.
func Compute(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares the gateway-supplied signature against the expected
// one in constant time.
func Verify(secret, orderID, paymentID, signature string) bool {
	expected := Compute(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
