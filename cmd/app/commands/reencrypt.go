package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

// RunReencrypt migrates a JSON payload to the current key version and writes
// the replacement payload. The stored value should be overwritten with the
// output; the plaintext never changes.
func RunReencrypt(
	ctx context.Context,
	useCase usecase.FieldEncryptionUseCase,
	logger *slog.Logger,
	io IOTuple,
	payloadJSON string,
) error {
	var payload domain.EncryptedPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	fresh, err := useCase.Reencrypt(ctx, &payload)
	if err != nil {
		return fmt.Errorf("failed to reencrypt payload: %w", err)
	}

	logger.Info("payload reencrypted",
		slog.Uint64("from_version", uint64(payload.Version)),
		slog.Uint64("to_version", uint64(fresh.Version)),
	)

	data, err := json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	fmt.Fprintln(io.Writer, string(data))
	return nil
}
