package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func encryptPKCS1v15ForTest(t *testing.T, pub *rsa.PublicKey, plain []byte) []byte {
	t.Helper()
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plain)
	if err != nil {
		t.Fatalf("EncryptPKCS1v15: %v", err)
	}
	return ct
}

func TestGenerateKeyPairRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.PrivateKey.N.BitLen() < keyBits-1 {
		t.Fatalf("generated key is %d bits, want ~%d", kp.PrivateKey.N.BitLen(), keyBits)
	}
	if len(kp.PublicDER) == 0 {
		t.Fatal("PublicDER is empty")
	}

	secret := bytes.Repeat([]byte{0x00}, KeySize)
	ciphertext := encryptPKCS1v15ForTest(t, &kp.PrivateKey.PublicKey, secret)

	plain, err := kp.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(plain, secret) {
		t.Fatalf("decrypted secret mismatch: got %x want %x", plain, secret)
	}
}
