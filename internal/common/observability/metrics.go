// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Observability bundles the agent's metric instruments. The prometheus
// exporter registers on the default registry; the CLI exposes it via
// promhttp when asked.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	questionCount  otelmetric.Int64Counter
	nodeDuration   otelmetric.Float64Histogram
	repairAttempts otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("failed to create prometheus exporter: %v", err)
		return &Observability{}
	}

	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)))
	if err != nil {
		res = resource.Default()
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	questionCount, _ := meter.Int64Counter(
		"questions.processed",
		otelmetric.WithDescription("Number of questions processed"),
	)
	nodeDuration, _ := meter.Float64Histogram(
		"workflow.node.duration",
		otelmetric.WithDescription("Per-node processing duration"),
		otelmetric.WithUnit("ms"),
	)
	repairAttempts, _ := meter.Int64Counter(
		"workflow.repair.attempts",
		otelmetric.WithDescription("SQL repair attempts taken"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		questionCount:  questionCount,
		nodeDuration:   nodeDuration,
		repairAttempts: repairAttempts,
	}
}

// RecordQuestion counts a finished run by branch and status.
func (o *Observability) RecordQuestion(ctx context.Context, branch, status string) {
	if o.questionCount != nil {
		o.questionCount.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("branch", branch),
			attribute.String("status", status),
		))
	}
}

// RecordNodeDuration records one node execution.
func (o *Observability) RecordNodeDuration(ctx context.Context, node string, d time.Duration) {
	if o.nodeDuration != nil {
		o.nodeDuration.Record(ctx, float64(d.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("node", node),
		))
	}
}

// RecordRepairAttempt counts one trip around the repair edge.
func (o *Observability) RecordRepairAttempt(ctx context.Context) {
	if o.repairAttempts != nil {
		o.repairAttempts.Add(ctx, 1)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
