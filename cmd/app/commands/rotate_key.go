package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

// RunRotateKey generates a new key version and promotes it for new
// encryptions. Existing payloads remain decryptable under their original
// versions; run reencrypt over stored data to migrate it forward.
func RunRotateKey(
	ctx context.Context,
	useCase usecase.FieldEncryptionUseCase,
	logger *slog.Logger,
	io IOTuple,
) error {
	kv, err := useCase.RotateKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	logger.Info("key rotated",
		slog.Uint64("version", uint64(kv.Version)),
		slog.String("algorithm", string(kv.Algorithm)),
	)
	fmt.Fprintf(io.Writer, "rotated to key version: %d (%s)\n", kv.Version, kv.Algorithm)
	return nil
}
