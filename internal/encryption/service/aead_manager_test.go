package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
)

func TestNewAEADManager(t *testing.T) {
	manager := NewAEADManager()
	assert.NotNil(t, manager)
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	validKey := make([]byte, domain.KeySize)
	_, err := rand.Read(validKey)
	require.NoError(t, err)

	t.Run("create AES-GCM cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, domain.AESGCM)
		require.NoError(t, err)

		_, ok := cipher.(*AESGCMCipher)
		assert.True(t, ok, "cipher should be of type *AESGCMCipher")
	})

	t.Run("create ChaCha20-Poly1305 cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, domain.ChaCha20)
		require.NoError(t, err)

		_, ok := cipher.(*ChaCha20Poly1305Cipher)
		assert.True(t, ok, "cipher should be of type *ChaCha20Poly1305Cipher")
	})

	t.Run("create cipher with unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(validKey, domain.Algorithm("unsupported"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
	})

	t.Run("create cipher with invalid key size", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			_, err := manager.CreateCipher(make([]byte, size), domain.AESGCM)
			assert.ErrorIs(t, err, domain.ErrInvalidKeySize, "key size %d", size)
		}
	})

	t.Run("create cipher with nil key", func(t *testing.T) {
		_, err := manager.CreateCipher(nil, domain.AESGCM)
		assert.ErrorIs(t, err, domain.ErrInvalidKeySize)
	})
}

func TestAEADRoundTrip(t *testing.T) {
	manager := NewAEADManager()
	key := make([]byte, domain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	for _, alg := range []domain.Algorithm{domain.AESGCM, domain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("secret message")
			aad := []byte("employee.ssn")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, domain.NonceSize)
			assert.Len(t, ciphertext, len(plaintext)+domain.TagSize)

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})

		t.Run(string(alg)+" rejects wrong AAD", func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			ciphertext, nonce, err := cipher.Encrypt([]byte("payload"), []byte("context-a"))
			require.NoError(t, err)

			_, err = cipher.Decrypt(ciphertext, nonce, []byte("context-b"))
			assert.Error(t, err)
		})

		t.Run(string(alg)+" nonces are unique per call", func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			_, nonce1, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			_, nonce2, err := cipher.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			assert.NotEqual(t, nonce1, nonce2)
		})
	}
}
