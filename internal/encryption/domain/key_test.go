package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyVersion(version uint32) *KeyVersion {
	material := make([]byte, KeySize)
	for i := range material {
		material[i] = byte(version)
	}
	return &KeyVersion{
		ID:        uuid.Must(uuid.NewV7()),
		Version:   version,
		Algorithm: AESGCM,
		Material:  material,
		CreatedAt: time.Now().UTC(),
	}
}

func TestKeyChain(t *testing.T) {
	t.Run("empty chain has no current version", func(t *testing.T) {
		kc := NewKeyChain()
		assert.Equal(t, uint32(0), kc.Current())

		_, ok := kc.Get(1)
		assert.False(t, ok)
	})

	t.Run("add then promote", func(t *testing.T) {
		kc := NewKeyChain()
		kc.Add(newKeyVersion(1))
		assert.Equal(t, uint32(0), kc.Current(), "Add must not publish the version")

		kc.Promote(1)
		assert.Equal(t, uint32(1), kc.Current())

		kv, ok := kc.Get(1)
		require.True(t, ok)
		assert.Equal(t, uint32(1), kv.Version)
	})

	t.Run("old versions survive promotion", func(t *testing.T) {
		kc := NewKeyChain()
		kc.Add(newKeyVersion(1))
		kc.Promote(1)
		kc.Add(newKeyVersion(2))
		kc.Promote(2)

		assert.Equal(t, uint32(2), kc.Current())
		_, ok := kc.Get(1)
		assert.True(t, ok)
	})

	t.Run("close zeroes material and clears chain", func(t *testing.T) {
		kc := NewKeyChain()
		kv := newKeyVersion(1)
		material := kv.Material
		kc.Add(kv)
		kc.Promote(1)

		kc.Close()

		assert.Equal(t, uint32(0), kc.Current())
		_, ok := kc.Get(1)
		assert.False(t, ok)
		for _, b := range material {
			assert.Equal(t, byte(0), b)
		}
	})

	t.Run("concurrent readers during promotion", func(t *testing.T) {
		kc := NewKeyChain()
		kc.Add(newKeyVersion(1))
		kc.Promote(1)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					current := kc.Current()
					_, ok := kc.Get(current)
					assert.True(t, ok, "current version must always resolve to a key")
				}
			}()
		}
		for v := uint32(2); v <= 10; v++ {
			kc.Add(newKeyVersion(v))
			kc.Promote(v)
		}
		wg.Wait()
	})
}
