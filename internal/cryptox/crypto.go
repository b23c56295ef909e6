// Package cryptox seals credential values before they are written to the
// local cookie jar.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/hkdf"
)

// SecretSize is the length of the per-installation secret in bytes.
const SecretSize = 32

var ErrMalformed = errors.New("sealed value is malformed")

// Sealer encrypts and authenticates small values with AES-256-GCM.
// The output layout is nonce || ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from secret using HKDF-SHA256 with info
// as the context string, so one secret can back several independent sealers.
func NewSealer(secret []byte, info string) (*Sealer, error) {
	if len(secret) < SecretSize {
		return nil, fmt.Errorf("secret too short: %d bytes", len(secret))
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrMalformed
	}
	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return plaintext, nil
}

// LoadOrCreateSecret reads the secret stored at path, creating a fresh random
// one with 0600 permissions when the file does not exist yet.
func LoadOrCreateSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) != SecretSize {
			return nil, fmt.Errorf("secret file %s: unexpected size %d", path, len(secret))
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read secret: %w", err)
	}

	secret = make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("write secret: %w", err)
	}
	return secret, nil
}
