package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// keyBits is the RSA modulus size used for the login encryption handshake.
// The original server generates a fresh key of this size on every startup.
const keyBits = 2048

// KeyPair holds the server's RSA key pair for the login encryption exchange.
// PublicDER is the DER-encoded SubjectPublicKeyInfo sent to clients verbatim
// in the encryption request packet.
type KeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicDER  []byte
}

// GenerateKeyPair generates a fresh RSA-2048 key pair with exponent 65537.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}

	// CRT precompute (Dp, Dq, Qinv) speeds up the crypto/rsa.DecryptPKCS1v15
	// calls this key pair performs during every offline login.
	privateKey.Precompute()

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("encoding public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: privateKey,
		PublicDER:  der,
	}, nil
}

// Decrypt decrypts a PKCS#1 v1.5 padded ciphertext, as sent by the client in
// its encryption response (shared secret and verify token are each encrypted
// this way against the server's public key).
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, k.PrivateKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("RSA decrypt: %w", err)
	}
	return plain, nil
}
