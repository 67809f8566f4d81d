package domain

import (
	"github.com/shipdocs/employee-onboarding-sub012/internal/errors"
)

// Field-level encryption error definitions.
//
// Every error carries a stable code from internal/errors. The engine never
// retries or downgrades these internally: authentication failures and missing
// keys indicate corruption, tampering, or an operational key-management gap
// and are surfaced verbatim to the caller.
var (
	// ErrInvalidPayload indicates the payload passed to decrypt is malformed:
	// missing fields, wrong nonce or tag length, or version zero.
	ErrInvalidPayload = errors.NewCoded(
		errors.CodeInvalidInput,
		"invalid encrypted payload",
	)

	// ErrAuthenticationFailed indicates AEAD tag verification failed. The
	// ciphertext, nonce, tag, or context was modified after encryption. This
	// is the tamper-detection guarantee; corrupted plaintext is never returned.
	ErrAuthenticationFailed = errors.NewCoded(
		errors.CodeAuthenticationFailed,
		"authentication failed: payload has been tampered with or corrupted",
	)

	// ErrMissingKey indicates the payload references a key version that is
	// not present in the key table.
	ErrMissingKey = errors.NewCoded(
		errors.CodeMissingKey,
		"missing key: payload references an unknown key version",
	)

	// ErrKeyStoreUnavailable indicates the external key store could not be
	// read or written. Fatal to the operation; the engine never falls back to
	// storing plaintext.
	ErrKeyStoreUnavailable = errors.NewCoded(
		errors.CodeKeyStoreUnavailable,
		"key store unavailable",
	)

	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is
	// not supported. Supported: "aes-gcm", "chacha20-poly1305".
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")
)
