package crypto

import (
	"bytes"
	"testing"
)

func TestCFB8RoundTrip(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i * 7)
	}

	enc, err := NewCFB8(key)
	if err != nil {
		t.Fatalf("NewCFB8: %v", err)
	}
	dec, err := NewCFB8(key)
	if err != nil {
		t.Fatalf("NewCFB8: %v", err)
	}

	plain := []byte("hello, minecraft protocol frame boundary test data")
	cipherText := append([]byte(nil), plain...)
	enc.Encrypt(cipherText)

	if bytes.Equal(cipherText, plain) {
		t.Fatal("ciphertext equals plaintext")
	}

	recovered := append([]byte(nil), cipherText...)
	dec.Decrypt(recovered)

	if !bytes.Equal(recovered, plain) {
		t.Fatalf("round trip mismatch: got %q want %q", recovered, plain)
	}
}

func TestCFB8StreamsAcrossFrameBoundaries(t *testing.T) {
	var key [KeySize]byte
	enc, _ := NewCFB8(key)
	dec, _ := NewCFB8(key)

	frames := [][]byte{
		[]byte("first frame"),
		[]byte("second frame, different length"),
		[]byte("x"),
	}

	for _, f := range frames {
		ct := append([]byte(nil), f...)
		enc.Encrypt(ct)
		pt := append([]byte(nil), ct...)
		dec.Decrypt(pt)
		if !bytes.Equal(pt, f) {
			t.Fatalf("frame mismatch: got %q want %q", pt, f)
		}
	}
}

func TestVelocitySignatureRoundTrip(t *testing.T) {
	secret := []byte("forwarding-secret")
	payload := []byte("version+ip+uuid+username+properties")

	sig := SignVelocity(secret, payload)
	if len(sig) != SignatureSize {
		t.Fatalf("signature length = %d, want %d", len(sig), SignatureSize)
	}
	if !VerifyVelocity(secret, sig, payload) {
		t.Fatal("VerifyVelocity rejected a valid signature")
	}
	if VerifyVelocity(secret, sig, append(payload, 'x')) {
		t.Fatal("VerifyVelocity accepted a tampered payload")
	}
	if VerifyVelocity([]byte("wrong-secret"), sig, payload) {
		t.Fatal("VerifyVelocity accepted a signature from the wrong secret")
	}
}
