package bootstrap

import (
	"context"
	"errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/wirekit/component"
	"github.com/kbukum/wirekit/config"
	"github.com/kbukum/wirekit/observability"
)

const telemetryName = "telemetry"

// telemetryComponent installs the OTLP tracer and meter providers on start
// and flushes them on stop. Resolver spans and instruments are created from
// the global providers, so they pick up the exporters once this runs.
type telemetryComponent struct {
	tracerCfg observability.TracerConfig
	meterCfg  observability.MeterConfig

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

func newTelemetryComponent(svc *config.ServiceConfig) *telemetryComponent {
	tc := observability.TracerConfig{
		ServiceName:    svc.Name,
		ServiceVersion: svc.Version,
		Environment:    svc.Environment,
		Endpoint:       svc.Telemetry.Endpoint,
		Insecure:       svc.Telemetry.Insecure,
		SampleRate:     svc.Telemetry.SampleRate,
	}
	mc := observability.MeterConfig{
		ServiceName:    svc.Name,
		ServiceVersion: svc.Version,
		Environment:    svc.Environment,
		Endpoint:       svc.Telemetry.Endpoint,
		Insecure:       svc.Telemetry.Insecure,
		Interval:       svc.Telemetry.MetricsInterval,
	}
	return &telemetryComponent{tracerCfg: tc, meterCfg: mc}
}

func (t *telemetryComponent) Name() string { return telemetryName }

func (t *telemetryComponent) Start(ctx context.Context) error {
	tp, err := observability.InitTracer(ctx, t.tracerCfg)
	if err != nil {
		return err
	}
	mp, err := observability.InitMeter(ctx, t.meterCfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}

	t.mu.Lock()
	t.tp, t.mp = tp, mp
	t.mu.Unlock()
	return nil
}

func (t *telemetryComponent) Stop(ctx context.Context) error {
	t.mu.Lock()
	tp, mp := t.tp, t.mp
	t.tp, t.mp = nil, nil
	t.mu.Unlock()

	var errs []error
	if tp != nil {
		errs = append(errs, tp.Shutdown(ctx))
	}
	if mp != nil {
		errs = append(errs, mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetryComponent) Health(ctx context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tp == nil || t.mp == nil {
		return component.Health{Name: telemetryName, Status: component.StatusDegraded, Message: "exporters not running"}
	}
	return component.Health{Name: telemetryName, Status: component.StatusHealthy}
}
