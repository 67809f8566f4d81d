// Package service provides the cryptographic services behind field-level
// encryption: AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), versioned key
// management, payload assembly, search hashing, and plaintext caching.
package service

import (
	"context"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg domain.Algorithm) (AEAD, error)
}

// KeyManager manages the versioned key chain backing field encryption.
//
// Versions are monotonic starting at 1. Rotation appends a new version and
// promotes it as current; older versions remain readable forever so that
// payloads encrypted under them keep decrypting.
type KeyManager interface {
	// Initialize loads all key versions from the store, generating version 1
	// when the store is empty.
	Initialize(ctx context.Context) error

	// Rotate generates a new key version, persists it, and promotes it as the
	// current encryption key.
	Rotate(ctx context.Context) (*domain.KeyVersion, error)

	// Key returns the key version for the given version number.
	Key(version uint32) (*domain.KeyVersion, error)

	// Current returns the key version new encryptions use.
	Current() (*domain.KeyVersion, error)

	// Close wipes all key material held in memory.
	Close() error
}

// CipherEngine encrypts and decrypts individual field values as versioned
// payloads.
type CipherEngine interface {
	// Encrypt encrypts plaintext under the current key version, binding the
	// optional context string as AAD.
	Encrypt(plaintext []byte, fieldContext string) (*domain.EncryptedPayload, error)

	// Decrypt decrypts a payload using the key version it names.
	Decrypt(payload *domain.EncryptedPayload) ([]byte, error)
}

// SearchHashGenerator produces deterministic hashes of plaintext values for
// equality lookups over encrypted columns.
type SearchHashGenerator interface {
	// Hash returns the hex digest for value, or "" when value is nil.
	Hash(value []byte) string
}

// ResultCache is a bounded cache of decrypted plaintexts keyed by payload
// fingerprint.
type ResultCache interface {
	// Get returns the cached plaintext for a fingerprint.
	Get(fingerprint string) (string, bool)

	// Put caches a plaintext, subject to the admission size limit.
	Put(fingerprint, plaintext string)

	// Clear drops every cached entry.
	Clear()

	// Len reports the number of cached entries.
	Len() int
}
