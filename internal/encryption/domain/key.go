package domain

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// KeyVersion represents one entry in the versioned key table.
// Versions are monotonic starting at 1; the highest version encrypts new data
// while every older version remains available for decryption.
type KeyVersion struct {
	ID        uuid.UUID // Unique identifier (UUIDv7)
	Version   uint32    // Monotonic version number, starts at 1
	Algorithm Algorithm // AEAD algorithm bound to this key
	Material  []byte    // Raw 32-byte key, zeroed on chain Close
	CreatedAt time.Time
}

// KeyChain manages the in-memory key table with thread-safe access.
// It is effectively append-only: rotation adds a version and then promotes
// it, so concurrent readers never observe a version whose key bytes are not
// yet available.
type KeyChain struct {
	current atomic.Uint32
	keys    sync.Map // version -> *KeyVersion
}

// NewKeyChain creates an empty key chain.
func NewKeyChain() *KeyChain {
	return &KeyChain{}
}

// Current returns the version used for new encryptions, or 0 when the chain
// has not been initialized.
func (k *KeyChain) Current() uint32 {
	return k.current.Load()
}

// Get retrieves a key version from the chain.
func (k *KeyChain) Get(version uint32) (*KeyVersion, bool) {
	if kv, ok := k.keys.Load(version); ok {
		return kv.(*KeyVersion), true
	}
	return nil, false
}

// Add inserts a key version into the chain. It does not change the current
// pointer; callers Promote only after the key is durably persisted.
func (k *KeyChain) Add(kv *KeyVersion) {
	k.keys.Store(kv.Version, kv)
}

// Promote atomically publishes version as the current encryption key.
func (k *KeyChain) Promote(version uint32) {
	k.current.Store(version)
}

// Close zeroes all key material and resets the chain.
func (k *KeyChain) Close() {
	k.keys.Range(func(key, value any) bool {
		if kv, ok := value.(*KeyVersion); ok {
			Zero(kv.Material)
		}
		k.keys.Delete(key)
		return true
	})
	k.current.Store(0)
}
