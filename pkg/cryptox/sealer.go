package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the sealing key from master key material.
// The derivation runs once per store open, so these can afford to be heavier
// than a per-request password hash.
const (
	kdfMemory      = 64 * 1024 // KiB
	kdfIterations  = 3
	kdfParallelism = 2
	kdfKeyLength   = 32 // AES-256
	SaltLength     = 16
)

var (
	ErrCiphertext       = errors.New("cryptox: ciphertext too short")
	ErrEmptyKeyMaterial = errors.New("cryptox: empty key material")
)

// Sealer encrypts small secrets with AES-256-GCM under a key derived from
// master key material and a per-store salt.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from keyMaterial and salt using Argon2id.
func NewSealer(keyMaterial, salt []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, ErrEmptyKeyMaterial
	}
	if len(salt) < SaltLength {
		return nil, fmt.Errorf("cryptox: salt must be at least %d bytes", SaltLength)
	}

	key := argon2.IDKey(keyMaterial, salt, kdfIterations, kdfMemory, kdfParallelism, kdfKeyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: gcm}, nil
}

// Seal encrypts plaintext and binds it to additionalData (for example the
// key name it is stored under) so ciphertexts can't be swapped between rows.
// The output format is: [12-byte nonce][encrypted data][16-byte auth tag]
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses Seal. additionalData must match what was passed to Seal.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, ErrCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// NewSalt returns SaltLength random bytes.
func NewSalt() ([]byte, error) {
	return randomBytes(SaltLength)
}

// LoadKeyMaterial resolves master key material in order of preference:
//  1. the file at path (if set)
//  2. the literal value (typically an environment variable)
//  3. a random ephemeral key, reported through the ephemeral return value
//
// An ephemeral key means anything sealed with it is unreadable after restart,
// which is only acceptable in development.
func LoadKeyMaterial(path, value string) (material []byte, ephemeral bool, err error) {
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: operator supplied key path
		if err != nil {
			return nil, false, fmt.Errorf("failed to read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, false, ErrEmptyKeyMaterial
		}
		return data, false, nil
	}

	if value != "" {
		return []byte(value), false, nil
	}

	material, err = randomBytes(kdfKeyLength)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate ephemeral master key: %w", err)
	}
	return material, true, nil
}
