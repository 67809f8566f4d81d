package service

import (
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/securemem"
	"github.com/shipdocs/employee-onboarding-sub012/internal/errors"
)

// CipherEngineService implements CipherEngine on top of a KeyManager and an
// AEADManager.
//
// Encryption always uses the current key version; decryption uses whatever
// version the payload names, so values encrypted before a rotation keep
// decrypting. Key material is handled inside a locked, scoped memory buffer
// while a cipher is being constructed.
type CipherEngineService struct {
	keys  KeyManager
	aeads AEADManager
}

// NewCipherEngine creates a new CipherEngineService.
func NewCipherEngine(keys KeyManager, aeads AEADManager) *CipherEngineService {
	return &CipherEngineService{keys: keys, aeads: aeads}
}

// Encrypt encrypts plaintext under the current key version. The field context,
// when non-empty, is bound as AAD: decryption then fails authentication unless
// the payload still carries the same context.
func (ce *CipherEngineService) Encrypt(plaintext []byte, fieldContext string) (*domain.EncryptedPayload, error) {
	kv, err := ce.keys.Current()
	if err != nil {
		return nil, err
	}

	var sealed, nonce []byte
	withErr := securemem.WithCopy(kv.Material, func(key []byte) error {
		aead, err := ce.aeads.CreateCipher(key, kv.Algorithm)
		if err != nil {
			return err
		}
		sealed, nonce, err = aead.Encrypt(plaintext, contextAAD(fieldContext))
		return err
	})
	if withErr != nil {
		return nil, withErr
	}

	// Seal appends the 16-byte tag to the ciphertext; the payload stores the
	// two parts separately.
	split := len(sealed) - domain.TagSize
	return &domain.EncryptedPayload{
		Version:    kv.Version,
		Ciphertext: sealed[:split],
		Nonce:      nonce,
		AuthTag:    sealed[split:],
		Context:    fieldContext,
	}, nil
}

// Decrypt validates the payload shape, resolves the key version it names, and
// decrypts. An unknown version yields ErrMissingKey; any tampering with the
// ciphertext, nonce, tag, or context yields ErrAuthenticationFailed.
func (ce *CipherEngineService) Decrypt(payload *domain.EncryptedPayload) ([]byte, error) {
	if payload == nil {
		return nil, errors.Wrap(domain.ErrInvalidPayload, "payload is nil")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	kv, err := ce.keys.Key(payload.Version)
	if err != nil {
		return nil, err
	}

	combined := make([]byte, 0, len(payload.Ciphertext)+len(payload.AuthTag))
	combined = append(combined, payload.Ciphertext...)
	combined = append(combined, payload.AuthTag...)

	var plaintext []byte
	withErr := securemem.WithCopy(kv.Material, func(key []byte) error {
		aead, err := ce.aeads.CreateCipher(key, kv.Algorithm)
		if err != nil {
			return err
		}
		plaintext, err = aead.Decrypt(combined, payload.Nonce, contextAAD(payload.Context))
		return err
	})
	if withErr != nil {
		if errors.Is(withErr, domain.ErrInvalidKeySize) || errors.Is(withErr, domain.ErrUnsupportedAlgorithm) {
			return nil, withErr
		}
		return nil, errors.Wrap(domain.ErrAuthenticationFailed, withErr.Error())
	}

	return plaintext, nil
}

// contextAAD maps the empty context to nil AAD so that payloads written with
// no context and payloads written with an explicit empty string authenticate
// identically.
func contextAAD(fieldContext string) []byte {
	if fieldContext == "" {
		return nil
	}
	return []byte(fieldContext)
}
