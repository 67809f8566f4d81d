package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

// RunEncrypt encrypts a single field value and writes the payload as JSON.
// The output is exactly what a caller would store in a database column.
func RunEncrypt(
	ctx context.Context,
	useCase usecase.FieldEncryptionUseCase,
	io IOTuple,
	value, fieldContext string,
) error {
	payload, err := useCase.Encrypt(ctx, value, fieldContext)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	fmt.Fprintln(io.Writer, string(data))
	return nil
}
