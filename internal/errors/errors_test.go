package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoded(t *testing.T) {
	err := NewCoded(CodeMissingKey, "unknown key version")
	assert.Equal(t, "unknown key version", err.Error())
	assert.Equal(t, CodeMissingKey, err.Code())
}

func TestCodeOf(t *testing.T) {
	t.Run("direct coded error", func(t *testing.T) {
		err := NewCoded(CodeAuthenticationFailed, "tag mismatch")
		assert.Equal(t, CodeAuthenticationFailed, CodeOf(err))
	})

	t.Run("wrapped coded error", func(t *testing.T) {
		base := NewCoded(CodeKeyStoreUnavailable, "store unreadable")
		wrapped := Wrap(base, "initialize")
		doubleWrapped := fmt.Errorf("outer: %w", wrapped)
		assert.Equal(t, CodeKeyStoreUnavailable, CodeOf(doubleWrapped))
	})

	t.Run("uncoded error falls back to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(New("plain error")))
	})
}

func TestWrap(t *testing.T) {
	t.Run("preserves the error chain", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "decrypt payload")
		require.Error(t, wrapped)
		assert.True(t, Is(wrapped, ErrInvalidInput))
		assert.Contains(t, wrapped.Error(), "decrypt payload")
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
	})

	t.Run("coded error survives wrapping", func(t *testing.T) {
		wrapped := Wrap(NewCoded(CodeInvalidInput, "bad payload"), "context")
		var coded *Error
		require.True(t, As(wrapped, &coded))
		assert.Equal(t, CodeInvalidInput, coded.Code())
	})
}
