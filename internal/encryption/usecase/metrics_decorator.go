package usecase

import (
	"context"
	"time"

	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/metrics"
)

// fieldEncryptionWithMetrics decorates FieldEncryptionUseCase with metrics instrumentation.
type fieldEncryptionWithMetrics struct {
	next     FieldEncryptionUseCase
	recorder metrics.OperationRecorder
}

// NewFieldEncryptionWithMetrics wraps a FieldEncryptionUseCase with metrics recording.
func NewFieldEncryptionWithMetrics(useCase FieldEncryptionUseCase, r metrics.OperationRecorder) FieldEncryptionUseCase {
	return &fieldEncryptionWithMetrics{
		next:     useCase,
		recorder: r,
	}
}

// record emits the counter and duration samples for one operation.
func (f *fieldEncryptionWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.recorder.RecordOperation(ctx, operation, status)
	f.recorder.RecordDuration(ctx, operation, time.Since(start), status)
}

// Encrypt records metrics for field encryption operations.
func (f *fieldEncryptionWithMetrics) Encrypt(
	ctx context.Context,
	value any,
	fieldContext string,
) (*domain.EncryptedPayload, error) {
	start := time.Now()
	payload, err := f.next.Encrypt(ctx, value, fieldContext)
	f.record(ctx, "encrypt", start, err)
	return payload, err
}

// Decrypt records metrics for field decryption operations.
func (f *fieldEncryptionWithMetrics) Decrypt(
	ctx context.Context,
	payload *domain.EncryptedPayload,
) (string, error) {
	start := time.Now()
	plaintext, err := f.next.Decrypt(ctx, payload)
	f.record(ctx, "decrypt", start, err)
	return plaintext, err
}

// Reencrypt records metrics for payload migration operations.
func (f *fieldEncryptionWithMetrics) Reencrypt(
	ctx context.Context,
	payload *domain.EncryptedPayload,
) (*domain.EncryptedPayload, error) {
	start := time.Now()
	fresh, err := f.next.Reencrypt(ctx, payload)
	f.record(ctx, "reencrypt", start, err)
	return fresh, err
}

// GenerateSearchHash records metrics for search hash generation.
func (f *fieldEncryptionWithMetrics) GenerateSearchHash(ctx context.Context, value any) (string, error) {
	start := time.Now()
	digest, err := f.next.GenerateSearchHash(ctx, value)
	f.record(ctx, "generate_search_hash", start, err)
	return digest, err
}

// RotateKey records metrics for key rotation operations.
func (f *fieldEncryptionWithMetrics) RotateKey(ctx context.Context) (*domain.KeyVersion, error) {
	start := time.Now()
	kv, err := f.next.RotateKey(ctx)
	f.record(ctx, "rotate_key", start, err)
	return kv, err
}

// Metrics returns the inner snapshot without instrumentation.
func (f *fieldEncryptionWithMetrics) Metrics() Metrics {
	return f.next.Metrics()
}

// Cleanup records metrics for service shutdown.
func (f *fieldEncryptionWithMetrics) Cleanup(ctx context.Context) error {
	start := time.Now()
	err := f.next.Cleanup(ctx)
	f.record(ctx, "cleanup", start, err)
	return err
}
