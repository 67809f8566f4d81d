package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	validation "github.com/jellydator/validation"
)

// EncryptedPayload is the opaque result of a field encryption.
//
// The payload is immutable once created; re-encryption produces a new payload
// rather than mutating an existing one. The nonce is freshly random per
// encryption and never reused under the same key. The tag authenticates both
// the ciphertext and the context string, so a payload cannot be replayed
// under a different context even though the context itself is not secret.
//
// Callers persist the payload verbatim (e.g., as a JSON column value) and
// hand it back for decryption. Wire form: {"v":1,"e":"...","i":"...","t":"...","c":"email"}
// with base64 standard encoding for the byte fields; "c" is omitted when no
// context was bound.
type EncryptedPayload struct {
	Version    uint32 // key version used for encryption
	Ciphertext []byte // encrypted data, tag excluded
	Nonce      []byte // 12-byte random nonce ("iv" on the wire)
	AuthTag    []byte // 16-byte authentication tag
	Context    string // additional authenticated data, empty when unbound
}

// payloadJSON is the wire representation of EncryptedPayload.
type payloadJSON struct {
	Version    uint32 `json:"v"`
	Ciphertext string `json:"e"`
	Nonce      string `json:"i"`
	AuthTag    string `json:"t"`
	Context    string `json:"c,omitempty"`
}

// MarshalJSON serializes the payload into its wire form.
func (p EncryptedPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(payloadJSON{
		Version:    p.Version,
		Ciphertext: base64.StdEncoding.EncodeToString(p.Ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(p.Nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(p.AuthTag),
		Context:    p.Context,
	})
}

// UnmarshalJSON parses the wire form. Malformed JSON or invalid base64 yields
// ErrInvalidPayload; field-level checks are left to Validate.
func (p *EncryptedPayload) UnmarshalJSON(data []byte) error {
	var wire payloadJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(wire.Ciphertext)
	if err != nil {
		return fmt.Errorf("%w: ciphertext is not valid base64", ErrInvalidPayload)
	}
	nonce, err := base64.StdEncoding.DecodeString(wire.Nonce)
	if err != nil {
		return fmt.Errorf("%w: nonce is not valid base64", ErrInvalidPayload)
	}
	tag, err := base64.StdEncoding.DecodeString(wire.AuthTag)
	if err != nil {
		return fmt.Errorf("%w: auth tag is not valid base64", ErrInvalidPayload)
	}

	p.Version = wire.Version
	p.Ciphertext = ciphertext
	p.Nonce = nonce
	p.AuthTag = tag
	p.Context = wire.Context
	return nil
}

// Validate checks the payload shape before decryption: version at least 1,
// ciphertext present, nonce exactly 12 bytes, tag exactly 16 bytes.
// Returns ErrInvalidPayload wrapping the field-level detail.
func (p *EncryptedPayload) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Version, validation.Required),
		validation.Field(&p.Ciphertext, validation.Required),
		validation.Field(&p.Nonce, validation.Required, validation.Length(NonceSize, NonceSize)),
		validation.Field(&p.AuthTag, validation.Required, validation.Length(TagSize, TagSize)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// Fingerprint returns a deterministic cache key for this payload. The
// ciphertext is unique per encryption call (fresh nonce), so the fingerprint
// only ever matches repeated decryption of the same payload.
func (p *EncryptedPayload) Fingerprint() string {
	sum := sha256.Sum256(p.Ciphertext)
	return fmt.Sprintf("%d:%x", p.Version, sum)
}
