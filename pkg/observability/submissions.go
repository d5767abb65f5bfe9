package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeDropped  = "dropped"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// SubmissionMetrics counts form submissions by kind and outcome. It reads the
// global meter provider, so it is a no-op until Setup installs a meter provider.
type SubmissionMetrics struct {
	total metric.Int64Counter
}

func NewSubmissionMetrics() *SubmissionMetrics {
	meter := otel.Meter(tracerName)
	total, _ := meter.Int64Counter(
		"llante_submissions_total",
		metric.WithDescription("Form submissions by kind and outcome"),
		metric.WithUnit("{submission}"),
	)
	return &SubmissionMetrics{total: total}
}

func (m *SubmissionMetrics) Record(ctx context.Context, kind, outcome string) {
	if m == nil || m.total == nil {
		return
	}
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}
