package commands

import (
	"context"
	"fmt"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

// RunSearchHash writes the deterministic equality-search digest for a value.
// The digest matches what the engine produces for the same value and salt, so
// it can be compared directly against a stored search-hash column.
func RunSearchHash(
	ctx context.Context,
	useCase usecase.FieldEncryptionUseCase,
	io IOTuple,
	value string,
) error {
	digest, err := useCase.GenerateSearchHash(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to generate search hash: %w", err)
	}

	fmt.Fprintln(io.Writer, digest)
	return nil
}
