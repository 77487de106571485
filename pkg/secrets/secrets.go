// Package secrets protects company-scoped API credentials at rest.
//
// Values are sealed with AES-256-GCM under a single service key. There is no
// plaintext fallback: a missing key or a failed decryption is an error the
// caller must surface as a configuration problem, never a silent degrade.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrNoKey is returned when the store was built without an encryption key.
var ErrNoKey = errors.New("secrets: encryption key not configured")

// Store seals and opens secret strings with a fixed service key.
type Store struct {
	key []byte // 32 bytes (AES-256); nil when unconfigured
}

// NewStore parses a hex-encoded 32-byte key. An empty key yields a store whose
// operations all fail with ErrNoKey.
func NewStore(hexKey string) (*Store, error) {
	if hexKey == "" {
		return &Store{}, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("secrets: decode key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("secrets: key must be 32 bytes, got %d", len(key))
	}
	return &Store{key: key}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (s *Store) Seal(plaintext string) (string, error) {
	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. Tampered or foreign ciphertext fails.
func (s *Store) Open(encoded string) (string, error) {
	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secrets: decode ciphertext: %w", err)
	}
	ns := gcm.NonceSize()
	if len(raw) < ns {
		return "", fmt.Errorf("secrets: ciphertext too short")
	}
	plain, err := gcm.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("secrets: open: %w", err)
	}
	return string(plain), nil
}

func (s *Store) gcm() (cipher.AEAD, error) {
	if len(s.key) == 0 {
		return nil, ErrNoKey
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("secrets: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
