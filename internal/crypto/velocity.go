package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// SignatureSize is the length of the HMAC-SHA256 signature prefixed onto a
// Velocity forwarding payload.
const SignatureSize = 32

// SignVelocity returns HMAC-SHA256(secret, payload), as the proxy computes it
// before sending the forwarding plugin message.
func SignVelocity(secret []byte, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// VerifyVelocity reports whether signature is the correct HMAC-SHA256 of
// payload under secret, in constant time.
func VerifyVelocity(secret, signature, payload []byte) bool {
	expected := SignVelocity(secret, payload)
	return hmac.Equal(expected, signature)
}
