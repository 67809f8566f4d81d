package service

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUResultCache implements ResultCache on a fixed-size LRU.
//
// Entries are keyed by payload fingerprint, which binds the cached plaintext
// to the exact key version and ciphertext it came from. Values larger than
// maxPlaintextBytes are never admitted, so a handful of oversized fields
// cannot evict the small hot values the cache exists for.
type LRUResultCache struct {
	cache             *lru.Cache[string, string]
	maxPlaintextBytes int
}

// NewLRUResultCache creates a cache holding up to capacity entries, admitting
// only plaintexts of at most maxPlaintextBytes bytes.
func NewLRUResultCache(capacity, maxPlaintextBytes int) (*LRUResultCache, error) {
	cache, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUResultCache{cache: cache, maxPlaintextBytes: maxPlaintextBytes}, nil
}

// Get returns the cached plaintext for a fingerprint.
func (c *LRUResultCache) Get(fingerprint string) (string, bool) {
	return c.cache.Get(fingerprint)
}

// Put caches a plaintext unless it exceeds the admission size limit.
func (c *LRUResultCache) Put(fingerprint, plaintext string) {
	if len(plaintext) > c.maxPlaintextBytes {
		return
	}
	c.cache.Add(fingerprint, plaintext)
}

// Clear drops every cached entry.
func (c *LRUResultCache) Clear() {
	c.cache.Purge()
}

// Len reports the number of cached entries.
func (c *LRUResultCache) Len() int {
	return c.cache.Len()
}
