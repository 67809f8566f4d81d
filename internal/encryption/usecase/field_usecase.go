package usecase

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/service"
	"github.com/shipdocs/employee-onboarding-sub012/internal/errors"
)

// fieldEncryptionUseCase implements FieldEncryptionUseCase.
//
// Crypto errors are surfaced verbatim and never retried here: an
// authentication failure is permanent (tampering or corruption) and a
// key-store failure is something only the operator can fix. Every error path
// increments the errors counter so the metrics snapshot reflects operational
// trouble.
type fieldEncryptionUseCase struct {
	engine service.CipherEngine
	keys   service.KeyManager
	cache  service.ResultCache
	hasher service.SearchHashGenerator

	// Collapses concurrent decrypts of the same fingerprint into one
	// cryptographic operation.
	group singleflight.Group

	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
	encryptions   atomic.Uint64
	decryptions   atomic.Uint64
	reencryptions atomic.Uint64
	rotations     atomic.Uint64
	errorCount    atomic.Uint64
}

// NewFieldEncryptionUseCase creates the field encryption facade.
func NewFieldEncryptionUseCase(
	engine service.CipherEngine,
	keys service.KeyManager,
	cache service.ResultCache,
	hasher service.SearchHashGenerator,
) FieldEncryptionUseCase {
	return &fieldEncryptionUseCase{
		engine: engine,
		keys:   keys,
		cache:  cache,
		hasher: hasher,
	}
}

// fail counts an error before returning it unchanged.
func (u *fieldEncryptionUseCase) fail(err error) error {
	u.errorCount.Add(1)
	return err
}

// Encrypt encrypts a field value under the current key version. Only a nil
// value short-circuits; zero values such as 0, false, and "" are real data
// and encrypt normally.
func (u *fieldEncryptionUseCase) Encrypt(
	_ context.Context,
	value any,
	fieldContext string,
) (*domain.EncryptedPayload, error) {
	if value == nil {
		return nil, nil
	}

	plaintext, err := domain.Canonicalize(value)
	if err != nil {
		return nil, u.fail(errors.Wrap(domain.ErrInvalidPayload, err.Error()))
	}

	payload, err := u.engine.Encrypt(plaintext, fieldContext)
	if err != nil {
		return nil, u.fail(err)
	}

	u.encryptions.Add(1)
	return payload, nil
}

// Decrypt recovers the plaintext for a payload. Cache lookups are keyed by the
// payload fingerprint, which covers the key version and full ciphertext, so a
// hit can never return plaintext for different encrypted bytes.
func (u *fieldEncryptionUseCase) Decrypt(
	_ context.Context,
	payload *domain.EncryptedPayload,
) (string, error) {
	if payload == nil {
		return "", nil
	}
	if err := payload.Validate(); err != nil {
		return "", u.fail(err)
	}

	fingerprint := payload.Fingerprint()
	if plaintext, ok := u.cache.Get(fingerprint); ok {
		u.cacheHits.Add(1)
		return plaintext, nil
	}
	u.cacheMisses.Add(1)

	result, err, _ := u.group.Do(fingerprint, func() (any, error) {
		plaintext, err := u.engine.Decrypt(payload)
		if err != nil {
			return nil, err
		}
		u.cache.Put(fingerprint, string(plaintext))
		return string(plaintext), nil
	})
	if err != nil {
		return "", u.fail(err)
	}

	u.decryptions.Add(1)
	return result.(string), nil
}

// Reencrypt migrates a payload to the current key version. It decrypts
// through the engine rather than the cache so the original payload is always
// re-authenticated before its plaintext is sealed under the new key.
func (u *fieldEncryptionUseCase) Reencrypt(
	_ context.Context,
	payload *domain.EncryptedPayload,
) (*domain.EncryptedPayload, error) {
	if payload == nil {
		return nil, nil
	}

	plaintext, err := u.engine.Decrypt(payload)
	if err != nil {
		return nil, u.fail(err)
	}

	fresh, err := u.engine.Encrypt(plaintext, payload.Context)
	if err != nil {
		return nil, u.fail(err)
	}

	u.reencryptions.Add(1)
	return fresh, nil
}

// GenerateSearchHash returns the deterministic digest for a value, or "" for
// nil. The digest depends only on the configured salt and the canonical form
// of the value, so it remains stable across key rotations.
func (u *fieldEncryptionUseCase) GenerateSearchHash(_ context.Context, value any) (string, error) {
	if value == nil {
		return "", nil
	}

	plaintext, err := domain.Canonicalize(value)
	if err != nil {
		return "", u.fail(errors.Wrap(domain.ErrInvalidPayload, err.Error()))
	}

	return u.hasher.Hash(plaintext), nil
}

// RotateKey generates and promotes a new key version. The cache is left
// intact: fingerprints are version-qualified, so entries for old payloads
// remain valid after rotation.
func (u *fieldEncryptionUseCase) RotateKey(ctx context.Context) (*domain.KeyVersion, error) {
	kv, err := u.keys.Rotate(ctx)
	if err != nil {
		return nil, u.fail(err)
	}

	u.rotations.Add(1)
	return kv, nil
}

// Metrics returns a snapshot of the operation counters.
func (u *fieldEncryptionUseCase) Metrics() Metrics {
	return Metrics{
		CacheHits:     u.cacheHits.Load(),
		CacheMisses:   u.cacheMisses.Load(),
		Encryptions:   u.encryptions.Load(),
		Decryptions:   u.decryptions.Load(),
		Reencryptions: u.reencryptions.Load(),
		Rotations:     u.rotations.Load(),
		Errors:        u.errorCount.Load(),
		CacheEntries:  u.cache.Len(),
	}
}

// Cleanup clears the plaintext cache and wipes all key material.
func (u *fieldEncryptionUseCase) Cleanup(_ context.Context) error {
	u.cache.Clear()
	return u.keys.Close()
}
