package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records provider call timings through OpenTelemetry. The
// Prometheus exporter publishes them on the default registry, so they show
// up on /metrics next to the promauto counters.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	relayCounter  otelmetric.Int64Counter
	relayDuration otelmetric.Float64Histogram
}

// New returns a no-op Observability when the exporter cannot be registered.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	relayCounter, _ := meter.Int64Counter(
		"relay.provider.calls",
		otelmetric.WithDescription("Number of outbound provider calls"),
	)

	relayDuration, _ := meter.Float64Histogram(
		"relay.provider.duration",
		otelmetric.WithDescription("Outbound provider call duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		relayCounter:  relayCounter,
		relayDuration: relayDuration,
	}
}

// RecordRelay records one provider call.
func (o *Observability) RecordRelay(ctx context.Context, provider, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	)
	if o.relayCounter != nil {
		o.relayCounter.Add(ctx, 1, attrs)
	}
	if o.relayDuration != nil {
		o.relayDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
