package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Security event kinds recorded by the security components. Each indicates a
// different attack shape and must stay distinguishable even though callers see
// one generic error.
const (
	EventMalformedState   = "malformed_state"
	EventInvalidSignature = "invalid_signature"
	EventExpiredState     = "expired_state"
	EventReplayDetected   = "replay_detected"
	EventTamperedState    = "tampered_state"
	EventStepUpFailure    = "stepup_failure"
	EventDecryptFailure   = "decrypt_failure"
)

// SecurityMetrics records security-relevant events and operation durations for
// observability. Implementations must be safe for concurrent use.
type SecurityMetrics interface {
	// RecordSecurityEvent counts a security event by component and event kind.
	// Component examples: "oauth_state", "reauth", "pii".
	RecordSecurityEvent(ctx context.Context, component, event string)

	// RecordOperation records an operation with its status ("success"/"error").
	RecordOperation(ctx context.Context, component, operation, status string)

	// RecordDuration records the duration of an operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, component, operation string, duration time.Duration, status string)
}

// securityMetrics implements SecurityMetrics using OpenTelemetry metrics.
type securityMetrics struct {
	eventCounter     metric.Int64Counter
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewSecurityMetrics creates a SecurityMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names.
func NewSecurityMetrics(meterProvider metric.MeterProvider, namespace string) (SecurityMetrics, error) {
	meter := meterProvider.Meter(namespace)

	eventCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_events_total", namespace),
		metric.WithDescription("Total number of security events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event counter: %w", err)
	}

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of security operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of security operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &securityMetrics{
		eventCounter:     eventCounter,
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

// RecordSecurityEvent increments the event counter with component and event labels.
func (s *securityMetrics) RecordSecurityEvent(ctx context.Context, component, event string) {
	s.eventCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("component", component),
			attribute.String("event", event),
		),
	)
}

// RecordOperation increments the operation counter with component, operation, and status labels.
func (s *securityMetrics) RecordOperation(ctx context.Context, component, operation, status string) {
	s.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("component", component),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with component, operation, and status labels.
func (s *securityMetrics) RecordDuration(
	ctx context.Context,
	component, operation string,
	duration time.Duration,
	status string,
) {
	s.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("component", component),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoopSecurityMetrics returns a SecurityMetrics that records nothing. Used when
// metrics are disabled.
func NoopSecurityMetrics() SecurityMetrics {
	return noopSecurityMetrics{}
}

type noopSecurityMetrics struct{}

func (noopSecurityMetrics) RecordSecurityEvent(context.Context, string, string) {}
func (noopSecurityMetrics) RecordOperation(context.Context, string, string, string) {
}
func (noopSecurityMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {
}
