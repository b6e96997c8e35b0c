// Package cipherbox seals sensitive record fields with a single AES-256-GCM key.
//
// A sealed value is self-contained: nonce || ciphertext || tag. The key is set
// once when the Box is built and never changes afterwards, so a Box is safe for
// concurrent use without locking.
package cipherbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeySize is the size of the AES-256 key.
const KeySize = 32

var (
	// ErrDecryptionFailed covers short input, tampering and a wrong key alike.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidKey       = fmt.Errorf("encryption key must be %d bytes", KeySize)
)

type Box struct {
	aead cipher.AEAD
}

func New(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Box{aead: aead}, nil
}

func (b *Box) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (b *Box) Decrypt(sealed []byte) ([]byte, error) {
	nonceSize := b.aead.NonceSize()
	if len(sealed) < nonceSize+b.aead.Overhead() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := b.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func (b *Box) EncryptString(plaintext string) ([]byte, error) {
	return b.Encrypt([]byte(plaintext))
}

func (b *Box) DecryptString(sealed []byte) (string, error) {
	plaintext, err := b.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// GenerateKey returns a fresh random key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}
