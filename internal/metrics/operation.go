package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OperationRecorder defines the interface for recording encryption operation
// metrics. Implementations track operation counts and durations for
// observability.
type OperationRecorder interface {
	// RecordOperation records an engine operation with its status.
	// Operation examples: "encrypt", "decrypt", "reencrypt", "rotate_key"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, operation, status string)

	// RecordDuration records the duration of an engine operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
}

// operationRecorder implements OperationRecorder using OpenTelemetry metrics.
type operationRecorder struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewOperationRecorder creates an OperationRecorder on the provided meter
// provider. The namespace prefixes all metric names.
func NewOperationRecorder(meterProvider metric.MeterProvider, namespace string) (OperationRecorder, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of encryption engine operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of encryption engine operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &operationRecorder{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

// RecordOperation increments the operation counter with operation and status labels.
func (r *operationRecorder) RecordOperation(ctx context.Context, operation, status string) {
	r.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with operation and status labels.
func (r *operationRecorder) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	r.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RegisterCacheGauge exposes the plaintext cache size as an observable gauge.
// The callback is invoked at scrape time with the current entry count.
func RegisterCacheGauge(meterProvider metric.MeterProvider, namespace string, entries func() int64) error {
	meter := meterProvider.Meter(namespace)

	gauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_cache_entries", namespace),
		metric.WithDescription("Number of plaintexts currently held in the result cache"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, entries())
		return nil
	}, gauge)
	if err != nil {
		return fmt.Errorf("failed to register cache gauge callback: %w", err)
	}

	return nil
}

// NoOpOperationRecorder is a no-op implementation for when metrics are disabled.
type NoOpOperationRecorder struct{}

// NewNoOpOperationRecorder creates a no-op OperationRecorder.
func NewNoOpOperationRecorder() OperationRecorder {
	return &NoOpOperationRecorder{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpOperationRecorder) RecordOperation(ctx context.Context, operation, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpOperationRecorder) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}
