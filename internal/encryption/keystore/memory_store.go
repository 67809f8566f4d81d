package keystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
)

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
// Keys do not survive process restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	keys    map[uint32]*domain.KeyVersion
	current uint32
}

// NewMemoryStore creates an empty in-memory key store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[uint32]*domain.KeyVersion)}
}

// Get returns a copy of the stored key version.
func (m *MemoryStore) Get(_ context.Context, version uint32) (*domain.KeyVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kv, ok := m.keys[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %d", ErrKeyNotFound, version)
	}
	return copyKeyVersion(kv), nil
}

// Put stores a copy of the key version, rejecting overwrites.
func (m *MemoryStore) Put(_ context.Context, kv *domain.KeyVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[kv.Version]; exists {
		return fmt.Errorf("%w: version %d already exists", domain.ErrKeyStoreUnavailable, kv.Version)
	}
	m.keys[kv.Version] = copyKeyVersion(kv)
	return nil
}

// CurrentVersion returns the current-version pointer, 0 when empty.
func (m *MemoryStore) CurrentVersion(_ context.Context) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, nil
}

// SetCurrentVersion updates the current-version pointer.
func (m *MemoryStore) SetCurrentVersion(_ context.Context, version uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[version]; !exists {
		return fmt.Errorf("%w: cannot point at unknown version %d", domain.ErrKeyStoreUnavailable, version)
	}
	m.current = version
	return nil
}

// Close zeroes all stored key material.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kv := range m.keys {
		domain.Zero(kv.Material)
	}
	m.keys = make(map[uint32]*domain.KeyVersion)
	m.current = 0
	return nil
}

func copyKeyVersion(kv *domain.KeyVersion) *domain.KeyVersion {
	cp := *kv
	cp.Material = append([]byte(nil), kv.Material...)
	return &cp
}
