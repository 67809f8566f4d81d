package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/service"
)

// RunInitKeys ensures the key store holds at least key version 1 and reports
// the current version. Safe to run repeatedly: an already populated store is
// loaded, never regenerated.
func RunInitKeys(
	ctx context.Context,
	keyManager *service.KeyManagerService,
	logger *slog.Logger,
	io IOTuple,
) error {
	kv, err := keyManager.Current()
	if err != nil {
		return fmt.Errorf("failed to read current key version: %w", err)
	}

	logger.Info("key store initialized",
		slog.Uint64("version", uint64(kv.Version)),
		slog.String("algorithm", string(kv.Algorithm)),
	)
	fmt.Fprintf(io.Writer, "current key version: %d (%s)\n", kv.Version, kv.Algorithm)
	return nil
}
