// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/legaleagle/eagle-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// sealedPrefix marks a value as sealed (format: ENC:base64(nonce|ciphertext|tag)).
const sealedPrefix = "ENC:"

const (
	nonceSize  = 12 // AES-GCM standard nonce
	keySize    = 32 // AES-256
	secretSize = 32
	saltSize   = 32
	// OWASP-recommended iteration count for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrInvalidSealed indicates the sealed value format is invalid.
	ErrInvalidSealed = errors.New("invalid sealed value format")
	// ErrUnsealFailed indicates decryption failed (wrong key or tampered data).
	ErrUnsealFailed = errors.New("unseal failed: authentication tag mismatch")
)

// =============================================================================
// SEALER
// =============================================================================

// Sealer encrypts the access token before it reaches disk. The sealing
// key is derived via PBKDF2-SHA-256 from a machine-local random secret,
// so a copied database file alone does not expose the token.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer loads the secret and salt stored next to keyPath, creating
// both on first use, and derives the AES-256-GCM sealing key.
func NewSealer(keyPath string) (*Sealer, error) {
	secret, err := loadOrCreate(keyPath, secretSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load sealing secret: %w", err)
	}
	salt, err := loadOrCreate(keyPath+".salt", saltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load sealing salt: %w", err)
	}

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)
	zeroBytes(secret)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts a token for storage. Empty tokens seal to the empty
// string so a signed-in session without a token round-trips cleanly.
func (s *Sealer) Seal(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(token), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed token. Values without the sealed prefix are
// returned as-is.
func (s *Sealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return sealed, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSealed, err)
	}
	if len(data) < nonceSize {
		return "", ErrInvalidSealed
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrUnsealFailed
	}
	return string(plaintext), nil
}

// loadOrCreate reads a key material file, generating it when absent.
func loadOrCreate(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != size {
			return nil, fmt.Errorf("key material at %s has wrong length %d", path, len(data))
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data = make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, data); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return nil, err
	}
	return data, nil
}

// zeroBytes wipes key material to limit exposure via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
