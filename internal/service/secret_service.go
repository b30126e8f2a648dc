package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// PostureProduction refuses to start without a valid key; PostureDevelopment
// generates a throwaway key.
const (
	PostureProduction  = "production"
	PostureDevelopment = "development"
)

// AESSecretStore implements ports.SecretStore using AES-256-GCM with one
// process-wide key. Every master secret and private key at rest goes
// through it; no plaintext secret is ever persisted or logged.
type AESSecretStore struct {
	key []byte // 32-byte key for AES-256
}

// NewAESSecretStore creates the secret store. hexKey must be a 64-character
// hex string (32 bytes decoded). In production posture a missing or
// malformed key is a fatal configuration error. In development posture a
// throwaway key is generated instead and logged loudly: ciphertext written
// under it is unrecoverable after restart.
func NewAESSecretStore(hexKey, posture string, log zerolog.Logger) (*AESSecretStore, error) {
	if hexKey == "" {
		if posture == PostureProduction {
			return nil, fmt.Errorf("no AES key configured in production posture")
		}
		key := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("generating throwaway key: %w", err)
		}
		log.Warn().
			Str("posture", posture).
			Msg("SECRET STORE RUNNING WITH A THROWAWAY KEY: all ciphertexts become unrecoverable after restart")
		return &AESSecretStore{key: key}, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding AES key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(key))
	}
	return &AESSecretStore{key: key}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns hex-encoded string: nonce + ciphertext.
func (s *AESSecretStore) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a hex-encoded AES-256-GCM ciphertext.
func (s *AESSecretStore) Decrypt(ciphertextHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}

	return string(plaintext), nil
}
