package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/keystore"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/securemem"
	"github.com/shipdocs/employee-onboarding-sub012/internal/errors"
)

// KeyManagerService implements the KeyManager interface over a keystore.Store.
//
// The service keeps every known key version in an in-memory chain so that
// decryption never touches the store on the hot path. The store is the source
// of truth: Initialize hydrates the chain from it and Rotate persists the new
// version before publishing it to the chain, so a crash between the two steps
// leaves the store ahead of memory, never behind.
type KeyManagerService struct {
	store keystore.Store
	alg   domain.Algorithm
	chain *domain.KeyChain

	// Serializes Rotate calls. Readers of the chain are lock-free.
	mu sync.Mutex
}

// NewKeyManager creates a new KeyManagerService. New key versions are
// generated for the given algorithm; previously stored versions keep the
// algorithm they were created with.
func NewKeyManager(store keystore.Store, alg domain.Algorithm) *KeyManagerService {
	return &KeyManagerService{
		store: store,
		alg:   alg,
		chain: domain.NewKeyChain(),
	}
}

// Initialize loads all key versions from the store into the chain. When the
// store is empty, version 1 is generated and persisted so the engine is
// always ready to encrypt after initialization.
func (km *KeyManagerService) Initialize(ctx context.Context) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	current, err := km.store.CurrentVersion(ctx)
	if err != nil {
		return errors.Wrap(domain.ErrKeyStoreUnavailable, err.Error())
	}

	if current == 0 {
		_, err := km.generate(ctx, 1)
		return err
	}

	for version := uint32(1); version <= current; version++ {
		kv, err := km.store.Get(ctx, version)
		if err != nil {
			// A hole in the append-only version sequence means the store
			// is corrupt, not that a payload referenced an unknown key.
			if errors.Is(err, keystore.ErrKeyNotFound) {
				return errors.Wrap(domain.ErrKeyStoreUnavailable,
					fmt.Sprintf("key version %d is missing from the store", version))
			}
			return errors.Wrap(domain.ErrKeyStoreUnavailable, err.Error())
		}
		km.chain.Add(kv)
	}

	km.chain.Promote(current)
	return nil
}

// Rotate generates the next key version, persists it, and promotes it as the
// current encryption key. Payloads encrypted under older versions remain
// decryptable because versions are never removed from the chain or the store.
func (km *KeyManagerService) Rotate(ctx context.Context) (*domain.KeyVersion, error) {
	km.mu.Lock()
	defer km.mu.Unlock()

	current, err := km.store.CurrentVersion(ctx)
	if err != nil {
		return nil, errors.Wrap(domain.ErrKeyStoreUnavailable, err.Error())
	}

	return km.generate(ctx, current+1)
}

// generate creates, persists, and promotes a key version. Callers must hold mu.
func (km *KeyManagerService) generate(ctx context.Context, version uint32) (*domain.KeyVersion, error) {
	material := make([]byte, domain.KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	kv := &domain.KeyVersion{
		ID:        uuid.Must(uuid.NewV7()),
		Version:   version,
		Algorithm: km.alg,
		Material:  material,
		CreatedAt: time.Now().UTC(),
	}

	if err := km.store.Put(ctx, kv); err != nil {
		securemem.Wipe(material)
		return nil, errors.Wrap(domain.ErrKeyStoreUnavailable, err.Error())
	}
	if err := km.store.SetCurrentVersion(ctx, version); err != nil {
		securemem.Wipe(material)
		return nil, errors.Wrap(domain.ErrKeyStoreUnavailable, err.Error())
	}

	// Publish only after the store accepted the version, so readers never
	// observe a current version whose key bytes are unavailable.
	km.chain.Add(kv)
	km.chain.Promote(version)

	return kv, nil
}

// Key returns the key version for the given version number.
// Returns ErrMissingKey when the version is unknown.
func (km *KeyManagerService) Key(version uint32) (*domain.KeyVersion, error) {
	kv, ok := km.chain.Get(version)
	if !ok {
		return nil, errors.Wrap(domain.ErrMissingKey,
			fmt.Sprintf("no key material for version %d", version))
	}
	return kv, nil
}

// Current returns the key version new encryptions use.
// Returns ErrMissingKey when the manager has not been initialized.
func (km *KeyManagerService) Current() (*domain.KeyVersion, error) {
	version := km.chain.Current()
	if version == 0 {
		return nil, errors.Wrap(domain.ErrMissingKey, "no current key version")
	}
	return km.Key(version)
}

// Close wipes all key material held in memory. The store is closed separately
// by its owner.
func (km *KeyManagerService) Close() error {
	km.mu.Lock()
	defer km.mu.Unlock()

	km.chain.Close()
	return nil
}
