// Package usecase implements the application layer for field-level encryption.
//
// The use case composes the cryptographic services (key management, AEAD
// payload assembly, search hashing, plaintext caching) into the single facade
// the data-access layer calls per sensitive field. Callers store the returned
// payload verbatim in a database column and use the search hash as a secondary
// index for equality lookups.
package usecase

import (
	"context"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
)

// Metrics is a point-in-time snapshot of the engine's operation counters.
// All counters are monotonically increasing for the service's lifetime.
type Metrics struct {
	CacheHits     uint64 `json:"cache_hits"`
	CacheMisses   uint64 `json:"cache_misses"`
	Encryptions   uint64 `json:"encryptions"`
	Decryptions   uint64 `json:"decryptions"`
	Reencryptions uint64 `json:"reencryptions"`
	Rotations     uint64 `json:"rotations"`
	Errors        uint64 `json:"errors"`
	CacheEntries  int    `json:"cache_entries"`
}

// FieldEncryptionUseCase is the facade the rest of the system uses to protect
// individual field values.
type FieldEncryptionUseCase interface {
	// Encrypt encrypts a field value under the current key version.
	// A nil value is a no-op and returns a nil payload; every non-nil value,
	// including zero values, encrypts normally.
	Encrypt(ctx context.Context, value any, fieldContext string) (*domain.EncryptedPayload, error)

	// Decrypt recovers the plaintext for a payload, consulting the plaintext
	// cache first. A nil payload returns the empty string.
	Decrypt(ctx context.Context, payload *domain.EncryptedPayload) (string, error)

	// Reencrypt decrypts a payload under its original key version and
	// re-encrypts the plaintext under the current version, preserving the
	// field context. Used to migrate stored data forward after a rotation.
	Reencrypt(ctx context.Context, payload *domain.EncryptedPayload) (*domain.EncryptedPayload, error)

	// GenerateSearchHash returns the deterministic equality-search digest for
	// a value, or "" for nil.
	GenerateSearchHash(ctx context.Context, value any) (string, error)

	// RotateKey generates and promotes a new key version.
	RotateKey(ctx context.Context) (*domain.KeyVersion, error)

	// Metrics returns a snapshot of the operation counters.
	Metrics() Metrics

	// Cleanup clears the plaintext cache and wipes key material. The service
	// cannot be used after Cleanup.
	Cleanup(ctx context.Context) error
}
