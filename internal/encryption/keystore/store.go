// Package keystore persists the versioned key table. Implementations must be
// durable before a new version becomes visible: the key manager publishes a
// rotated version in memory only after Put and SetCurrentVersion succeed.
package keystore

import (
	"context"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/errors"
)

// ErrKeyNotFound indicates the requested key version is absent from the store.
var ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key version not found")

// Store defines the external key store contract.
//
// Stores are append-only with respect to key versions: Put never overwrites
// an existing version, and nothing ever deletes one. I/O failures map to
// domain.ErrKeyStoreUnavailable; operations against the store fail closed.
type Store interface {
	// Get returns the key version, or ErrKeyNotFound when absent.
	Get(ctx context.Context, version uint32) (*domain.KeyVersion, error)

	// Put persists a new key version. Returns an error if the version
	// already exists.
	Put(ctx context.Context, kv *domain.KeyVersion) error

	// CurrentVersion returns the current-version pointer, or 0 when the
	// store holds no keys yet.
	CurrentVersion(ctx context.Context) (uint32, error)

	// SetCurrentVersion durably updates the current-version pointer.
	SetCurrentVersion(ctx context.Context, version uint32) error

	// Close releases store resources.
	Close() error
}
