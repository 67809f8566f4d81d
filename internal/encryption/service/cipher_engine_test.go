package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/keystore"
)

func newTestEngine(t *testing.T) (*CipherEngineService, *KeyManagerService) {
	t.Helper()
	store := keystore.NewMemoryStore()
	km := NewKeyManager(store, domain.AESGCM)
	require.NoError(t, km.Initialize(context.Background()))
	t.Cleanup(func() {
		_ = km.Close()
		_ = store.Close()
	})
	return NewCipherEngine(km, NewAEADManager()), km
}

func TestCipherEngineService_RoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t)

	t.Run("with context", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte("123-45-6789"), "employee.ssn")
		require.NoError(t, err)
		assert.Equal(t, uint32(1), payload.Version)
		assert.Len(t, payload.Nonce, domain.NonceSize)
		assert.Len(t, payload.AuthTag, domain.TagSize)
		assert.Equal(t, "employee.ssn", payload.Context)

		plaintext, err := engine.Decrypt(payload)
		require.NoError(t, err)
		assert.Equal(t, []byte("123-45-6789"), plaintext)
	})

	t.Run("without context", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte("plain value"), "")
		require.NoError(t, err)

		plaintext, err := engine.Decrypt(payload)
		require.NoError(t, err)
		assert.Equal(t, []byte("plain value"), plaintext)
	})

	t.Run("empty plaintext", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte{}, "")
		require.NoError(t, err)

		plaintext, err := engine.Decrypt(payload)
		require.NoError(t, err)
		assert.Empty(t, plaintext)
	})

	t.Run("survives JSON round trip", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte("serialized"), "doc.field")
		require.NoError(t, err)

		data, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded domain.EncryptedPayload
		require.NoError(t, json.Unmarshal(data, &decoded))

		plaintext, err := engine.Decrypt(&decoded)
		require.NoError(t, err)
		assert.Equal(t, []byte("serialized"), plaintext)
	})
}

func TestCipherEngineService_Tampering(t *testing.T) {
	engine, _ := newTestEngine(t)

	encrypt := func(t *testing.T) *domain.EncryptedPayload {
		payload, err := engine.Encrypt([]byte("sensitive"), "field.ctx")
		require.NoError(t, err)
		return payload
	}

	t.Run("flipped ciphertext bit", func(t *testing.T) {
		payload := encrypt(t)
		payload.Ciphertext[0] ^= 0x01
		_, err := engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("flipped nonce bit", func(t *testing.T) {
		payload := encrypt(t)
		payload.Nonce[0] ^= 0x01
		_, err := engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("flipped tag bit", func(t *testing.T) {
		payload := encrypt(t)
		payload.AuthTag[domain.TagSize-1] ^= 0x01
		_, err := engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("swapped context", func(t *testing.T) {
		payload := encrypt(t)
		payload.Context = "other.ctx"
		_, err := engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("stripped context", func(t *testing.T) {
		payload := encrypt(t)
		payload.Context = ""
		_, err := engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})
}

func TestCipherEngineService_Decrypt_InvalidPayload(t *testing.T) {
	engine, _ := newTestEngine(t)

	t.Run("nil payload", func(t *testing.T) {
		_, err := engine.Decrypt(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})

	t.Run("malformed shape", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte("value"), "")
		require.NoError(t, err)
		payload.Nonce = payload.Nonce[:domain.NonceSize-1]

		_, err = engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})

	t.Run("unknown key version", func(t *testing.T) {
		payload, err := engine.Encrypt([]byte("value"), "")
		require.NoError(t, err)
		payload.Version = 42

		_, err = engine.Decrypt(payload)
		assert.ErrorIs(t, err, domain.ErrMissingKey)
	})
}

func TestCipherEngineService_Rotation(t *testing.T) {
	ctx := context.Background()
	engine, km := newTestEngine(t)

	before, err := engine.Encrypt([]byte("pre-rotation"), "employee.email")
	require.NoError(t, err)

	_, err = km.Rotate(ctx)
	require.NoError(t, err)

	t.Run("old payloads still decrypt", func(t *testing.T) {
		plaintext, err := engine.Decrypt(before)
		require.NoError(t, err)
		assert.Equal(t, []byte("pre-rotation"), plaintext)
	})

	t.Run("new payloads use the new version", func(t *testing.T) {
		after, err := engine.Encrypt([]byte("post-rotation"), "employee.email")
		require.NoError(t, err)
		assert.Equal(t, uint32(2), after.Version)

		plaintext, err := engine.Decrypt(after)
		require.NoError(t, err)
		assert.Equal(t, []byte("post-rotation"), plaintext)
	})
}

func TestCipherEngineService_AlgorithmChangeAcrossRotation(t *testing.T) {
	ctx := context.Background()
	store := keystore.NewMemoryStore()
	defer store.Close()

	aesManager := NewKeyManager(store, domain.AESGCM)
	require.NoError(t, aesManager.Initialize(ctx))
	aesEngine := NewCipherEngine(aesManager, NewAEADManager())

	payload, err := aesEngine.Encrypt([]byte("aes era"), "")
	require.NoError(t, err)
	require.NoError(t, aesManager.Close())

	// Reopen configured for ChaCha20; version 1 keeps its stored algorithm.
	chachaManager := NewKeyManager(store, domain.ChaCha20)
	require.NoError(t, chachaManager.Initialize(ctx))
	defer chachaManager.Close()
	chachaEngine := NewCipherEngine(chachaManager, NewAEADManager())

	rotated, err := chachaManager.Rotate(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ChaCha20, rotated.Algorithm)

	plaintext, err := chachaEngine.Decrypt(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("aes era"), plaintext)
}
