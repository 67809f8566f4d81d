package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

// RunDecrypt decrypts a JSON payload and writes the plaintext.
func RunDecrypt(
	ctx context.Context,
	useCase usecase.FieldEncryptionUseCase,
	io IOTuple,
	payloadJSON string,
) error {
	var payload domain.EncryptedPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	plaintext, err := useCase.Decrypt(ctx, &payload)
	if err != nil {
		return fmt.Errorf("failed to decrypt payload: %w", err)
	}

	fmt.Fprintln(io.Writer, plaintext)
	return nil
}
