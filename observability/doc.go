// Package observability provides OpenTelemetry tracing and metrics for
// dependency resolution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("catalog"))
//	defer tp.Shutdown(ctx)
//
// Resolvers open a di.resolve span per GetObject and a di.instantiate span
// per constructed instance; nested resolutions become child spans when the
// *Context variants of the resolver methods are used.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("catalog"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewResolverMetrics(observability.Meter())
//	resolver := di.NewResolver(di.WithMetrics(metrics))
package observability
