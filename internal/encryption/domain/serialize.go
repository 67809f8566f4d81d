package domain

import (
	"encoding/json"
	"fmt"
)

// Canonicalize converts a value to the byte form that gets encrypted or
// hashed. Strings and byte slices pass through untouched; everything else is
// serialized to JSON, which is deterministic in Go (struct fields in
// declaration order, map keys sorted).
//
// Decryption returns exactly these bytes, so a struct encrypted here comes
// back as its JSON text; turning it back into a structured value is the
// caller's responsibility.
func Canonicalize(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("%w: value is not serializable: %v", ErrInvalidPayload, err)
		}
		return b, nil
	}
}
