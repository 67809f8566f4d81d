package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSearchHash implements SearchHashGenerator using HMAC-SHA256.
//
// The hash is deterministic for a given salt, which is what makes encrypted
// columns searchable by equality: the same plaintext always produces the same
// 64-character hex digest, so a lookup hashes the query value and compares
// digests without ever decrypting. Keying the digest with a salt keeps
// attackers without the salt from precomputing hashes of guessed values.
//
// The digest intentionally survives key rotation; it depends only on the salt
// and the plaintext, never on a key version.
type HMACSearchHash struct {
	salt []byte
}

// NewHMACSearchHash creates a generator keyed with the given salt.
func NewHMACSearchHash(salt []byte) *HMACSearchHash {
	cp := make([]byte, len(salt))
	copy(cp, salt)
	return &HMACSearchHash{salt: cp}
}

// Hash returns the lowercase hex HMAC-SHA256 digest of value, or "" when
// value is nil. An empty non-nil value hashes normally.
func (h *HMACSearchHash) Hash(value []byte) string {
	if value == nil {
		return ""
	}
	mac := hmac.New(sha256.New, h.salt)
	mac.Write(value)
	return hex.EncodeToString(mac.Sum(nil))
}
