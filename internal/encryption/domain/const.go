// Package domain defines the core domain models for field-level encryption:
// versioned keys, the encrypted payload format, and the error taxonomy.
//
// The engine uses single-tier envelope encryption: each payload records the
// version of the symmetric key that produced it, so keys can be rotated
// without immediately re-encrypting historical data. Supported AEAD
// algorithms are AES-256-GCM and ChaCha20-Poly1305 with 256-bit keys.
package domain

// Algorithm represents the AEAD algorithm used for encryption.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred on hardware without
	// AES acceleration; constant-time in software.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the key length in bytes for both supported algorithms.
	KeySize = 32

	// NonceSize is the nonce length in bytes (96 bits, random per encryption).
	NonceSize = 12

	// TagSize is the authentication tag length in bytes (128 bits).
	TagSize = 16
)

// ParseAlgorithm converts an algorithm name to an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown names.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
