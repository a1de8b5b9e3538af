package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/wirekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the wirekit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// ResolverMetrics holds the instruments recorded by a resolver.
type ResolverMetrics struct {
	lookups        metric.Int64Counter
	instantiations metric.Int64Counter
	constructTime  metric.Float64Histogram
	failures       metric.Int64Counter
}

// NewResolverMetrics creates resolver instruments on the given meter.
func NewResolverMetrics(meter metric.Meter) (*ResolverMetrics, error) {
	lookups, err := meter.Int64Counter("di.lookups",
		metric.WithDescription("Number of GetObject calls by strategy"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.lookups counter: %w", err)
	}

	instantiations, err := meter.Int64Counter("di.instantiations",
		metric.WithDescription("Number of instances constructed by strategy"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.instantiations counter: %w", err)
	}

	constructTime, err := meter.Float64Histogram("di.construct.duration",
		metric.WithDescription("Time spent constructing and injecting an instance"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.construct.duration histogram: %w", err)
	}

	failures, err := meter.Int64Counter("di.failures",
		metric.WithDescription("Resolution failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.failures counter: %w", err)
	}

	return &ResolverMetrics{
		lookups:        lookups,
		instantiations: instantiations,
		constructTime:  constructTime,
		failures:       failures,
	}, nil
}

// RecordLookup counts one GetObject call.
func (m *ResolverMetrics) RecordLookup(ctx context.Context, strategy string, cached bool) {
	if m == nil {
		return
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.Bool("cached", cached),
	))
}

// RecordInstantiation counts one constructed instance and its construction time.
func (m *ResolverMetrics) RecordInstantiation(ctx context.Context, strategy string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.instantiations.Add(ctx, 1, attrs)
	m.constructTime.Record(ctx, d.Seconds(), attrs)
}

// RecordFailure counts one failed resolution.
func (m *ResolverMetrics) RecordFailure(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}
