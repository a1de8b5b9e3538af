package di

import (
	"context"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

// Lookup is one link of a resolver chain. GetObject and Instantiate walk
// the chain from the local resolver upwards and let the first link that has
// the key produce the object.
type Lookup interface {
	HasWiring(key string) bool
	LocalObject(ctx context.Context, key string) (any, error)
	LocalInstance(ctx context.Context, key string) (any, error)
	Parent() Lookup
}

// Producer computes a configured payload value at instantiation time.
type Producer interface {
	Produce() any
}

// Resolver owns a registry of wirings and resolves object graphs from it.
//
// Resolution never holds the registry lock while constructing, so factories
// and Initialize may resolve further keys. Dependency cycles are not
// detected: a key whose graph leads back to itself recurses without bound.
type Resolver struct {
	registry  *registry
	parent    Lookup
	messenger Messenger
	log       *logger.Logger
	tracer    trace.Tracer
	metrics   *observability.ResolverMetrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithParent sets the lookup delegate consulted on local misses.
func WithParent(parent Lookup) Option {
	return func(r *Resolver) {
		if p, ok := parent.(*Resolver); ok && p == nil {
			return
		}
		r.parent = parent
	}
}

// WithMessenger sets the messenger bound to views this resolver constructs.
func WithMessenger(m Messenger) Option {
	return func(r *Resolver) { r.messenger = m }
}

// WithLogger sets the resolver's logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTracer sets the tracer used for resolution spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// WithMetrics sets the instruments recorded on lookups and instantiations.
func WithMetrics(m *observability.ResolverMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates an empty resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{registry: newRegistry()}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get(logger.ComponentDI)
	}
	return r
}

// WireOption configures a constructed wiring.
type WireOption func(*wiring)

// WithWiring sets the dependencies injected into instances of the wiring.
// It replaces the declaration the instance would report through Wired and
// applies to class, singleton and view wirings alike. Views take their
// dependencies this way only; Configure rejects them.
func WithWiring(decl Declaration) WireOption {
	return func(w *wiring) { w.config = decl }
}

// WireValue maps key to value. GetObject returns value itself on every call.
func (r *Resolver) WireValue(key string, value any) {
	r.set(&wiring{key: key, strategy: StrategyValue, value: value})
}

// WireClass maps key to factory. Every GetObject builds a new instance.
func (r *Resolver) WireClass(key string, factory Factory, opts ...WireOption) error {
	return r.wireFactory(key, StrategyClass, factory, opts)
}

// WireSingleton maps key to factory. The first GetObject builds the
// instance; later calls return it.
func (r *Resolver) WireSingleton(key string, factory Factory, opts ...WireOption) error {
	return r.wireFactory(key, StrategySingleton, factory, opts)
}

// WireView maps key to a view factory. GetObject returns a ViewConstructor
// whose instances are bound to this resolver's messenger.
func (r *Resolver) WireView(key string, factory Factory, opts ...WireOption) error {
	return r.wireFactory(key, StrategyView, factory, opts)
}

func (r *Resolver) wireFactory(key string, strategy Strategy, factory Factory, opts []WireOption) error {
	if factory == nil {
		return errors.MissingField("factory").WithDetail("key", key)
	}
	w := &wiring{key: key, strategy: strategy, factory: factory}
	for _, opt := range opts {
		opt(w)
	}
	if strategy == StrategyView {
		w.view = &ViewConstructor{key: key, owner: r, factory: factory, config: w.config}
	}
	r.set(w)
	return nil
}

func (r *Resolver) set(w *wiring) {
	r.registry.set(w)
	r.log.Debug("wiring registered", logger.Fields(
		logger.FieldKey, w.key,
		logger.FieldStrategy, w.strategy.String(),
	))
}

// HasWiring reports whether key is wired in this resolver. Parents are not
// consulted.
func (r *Resolver) HasWiring(key string) bool {
	return r.registry.has(key)
}

// Parent returns the lookup delegate, or nil.
func (r *Resolver) Parent() Lookup {
	return r.parent
}

// GetObject returns the object for key from the first resolver in the chain
// that has it.
func (r *Resolver) GetObject(key string) (any, error) {
	return r.GetObjectContext(context.Background(), key)
}

// GetObjectContext is GetObject with a context for tracing.
func (r *Resolver) GetObjectContext(ctx context.Context, key string) (any, error) {
	ctx, span := observability.StartSpan(ctx, r.tracer, observability.SpanResolve,
		trace.WithAttributes(attribute.String(observability.AttrKey, key)),
	)

	owner := r.owner(key)
	if owner == nil {
		err := r.fail(ctx, key, errors.UnresolvedKey(key))
		observability.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool(observability.AttrDelegated, owner != Lookup(r)))

	obj, err := owner.LocalObject(ctx, key)
	observability.EndSpan(span, err)
	return obj, err
}

// Instantiate builds a new instance for key regardless of strategy, without
// touching any singleton slot. For a view key it returns a new view.
func (r *Resolver) Instantiate(key string) (any, error) {
	return r.InstantiateContext(context.Background(), key)
}

// InstantiateContext is Instantiate with a context for tracing.
func (r *Resolver) InstantiateContext(ctx context.Context, key string) (any, error) {
	owner := r.owner(key)
	if owner == nil {
		return nil, r.fail(ctx, key, errors.UnresolvedKey(key))
	}
	return owner.LocalInstance(ctx, key)
}

// owner walks the chain and returns the first link wiring key.
func (r *Resolver) owner(key string) Lookup {
	for l := Lookup(r); l != nil; l = l.Parent() {
		if l.HasWiring(key) {
			return l
		}
	}
	return nil
}

// LocalObject applies key's strategy in this resolver only.
func (r *Resolver) LocalObject(ctx context.Context, key string) (any, error) {
	w, ok := r.registry.get(key)
	if !ok {
		return nil, r.fail(ctx, key, errors.UnresolvedKey(key))
	}

	switch w.strategy {
	case StrategyValue:
		r.metrics.RecordLookup(ctx, w.strategy.String(), false)
		return w.value, nil
	case StrategyView:
		r.metrics.RecordLookup(ctx, w.strategy.String(), false)
		return w.view, nil
	case StrategySingleton:
		if instance, ok := r.registry.cachedInstance(w); ok {
			r.metrics.RecordLookup(ctx, w.strategy.String(), true)
			return instance, nil
		}
		r.metrics.RecordLookup(ctx, w.strategy.String(), false)
		instance, err := r.construct(ctx, w)
		if err != nil {
			return nil, err
		}
		instance = r.registry.storeInstance(w, instance)
		r.log.Debug("singleton created", logger.Fields(logger.FieldKey, key))
		return instance, nil
	default:
		r.metrics.RecordLookup(ctx, w.strategy.String(), false)
		return r.construct(ctx, w)
	}
}

// LocalInstance builds a fresh instance for key in this resolver only.
func (r *Resolver) LocalInstance(ctx context.Context, key string) (any, error) {
	w, ok := r.registry.get(key)
	if !ok {
		return nil, r.fail(ctx, key, errors.UnresolvedKey(key))
	}

	switch w.strategy {
	case StrategyValue:
		return nil, r.fail(ctx, key, errors.NotInstantiable(key, w.strategy.String()))
	case StrategyView:
		return w.view.NewContext(ctx)
	default:
		return r.construct(ctx, w)
	}
}

func (r *Resolver) construct(ctx context.Context, w *wiring) (any, error) {
	args := producePayload(r.registry.payloadOf(w))
	return r.build(ctx, w.key, w.strategy, w.factory, w.config, args)
}

// build allocates an instance, injects its dependencies, binds views to the
// messenger and finally initializes it with args.
func (r *Resolver) build(ctx context.Context, key string, strategy Strategy, factory Factory, config Declaration, args []any) (any, error) {
	ctx, span := observability.StartSpan(ctx, r.tracer, observability.SpanInstantiate,
		trace.WithAttributes(
			attribute.String(observability.AttrKey, key),
			attribute.String(observability.AttrStrategy, strategy.String()),
		),
	)
	start := time.Now()

	hook := func(instance any) error {
		if err := r.inject(ctx, instance, config); err != nil {
			return err
		}
		if strategy == StrategyView && r.messenger != nil {
			if binder, ok := instance.(ViewBinder); ok {
				binder.BindMessenger(r.messenger)
			}
		}
		return nil
	}

	instance, err := Wrap(factory, hook).New(args...)
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			err = r.fail(ctx, key, errors.ConstructionFailed(key, err))
		}
		observability.EndSpan(span, err)
		return nil, err
	}

	r.metrics.RecordInstantiation(ctx, strategy.String(), time.Since(start))
	observability.EndSpan(span, nil)
	return instance, nil
}

func producePayload(payload []any) []any {
	for i, p := range payload {
		switch fn := p.(type) {
		case Producer:
			payload[i] = fn.Produce()
		case func() any:
			payload[i] = fn()
		default:
			if v := reflect.ValueOf(p); isProducerFunc(v) {
				payload[i] = v.Call(nil)[0].Interface()
			}
		}
	}
	return payload
}

// isProducerFunc reports whether v is a non-nil func taking no arguments and
// returning exactly one value.
func isProducerFunc(v reflect.Value) bool {
	if v.Kind() != reflect.Func || v.IsNil() {
		return false
	}
	t := v.Type()
	return t.NumIn() == 0 && t.NumOut() == 1
}

// Resolve injects target's own declared dependencies.
func (r *Resolver) Resolve(target any) error {
	return r.inject(context.Background(), target, Declaration{})
}

// ResolveWith injects the dependencies listed in decl into target.
func (r *Resolver) ResolveWith(target any, decl Declaration) error {
	return r.inject(context.Background(), target, decl)
}

// ResolveContext is ResolveWith with a context for tracing. An empty decl
// falls back to the target's own declaration.
func (r *Resolver) ResolveContext(ctx context.Context, target any, decl Declaration) error {
	return r.inject(ctx, target, decl)
}

// Configure attaches payload as the argument list of key's next
// instantiations. Elements implementing Producer, and zero-argument funcs
// returning a single value, are evaluated at each instantiation. Only local
// singleton and class wirings accept a payload. A singleton already cached keeps its instance.
func (r *Resolver) Configure(key string, payload ...any) error {
	w, ok := r.registry.get(key)
	if !ok {
		return errors.UnresolvedKey(key)
	}
	if !w.strategy.Configurable() {
		return errors.InvalidConfigTarget(key, w.strategy.String())
	}
	r.registry.configure(w, payload)
	r.log.Debug("wiring configured", logger.Fields(
		logger.FieldKey, key,
		"payload_size", len(payload),
	))
	return nil
}

// Release removes key and its singleton slot. Unknown keys are ignored.
func (r *Resolver) Release(key string) {
	if r.registry.delete(key) {
		r.log.Debug("wiring released", logger.Fields(logger.FieldKey, key))
	}
}

// Wirings lists the local wirings sorted by key.
func (r *Resolver) Wirings() []WiringInfo {
	keys := r.registry.keys()
	result := make([]WiringInfo, 0, len(keys))
	for _, k := range keys {
		if info, ok := r.registry.info(k); ok {
			result = append(result, info)
		}
	}
	return result
}

// Wiring describes one local wiring.
func (r *Resolver) Wiring(key string) (WiringInfo, bool) {
	return r.registry.info(key)
}

func (r *Resolver) fail(ctx context.Context, key string, err error) error {
	code := "UNKNOWN"
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	r.metrics.RecordFailure(ctx, code)
	r.log.Warn("resolution failed", logger.MergeWithError(logger.Fields(logger.FieldKey, key), err))
	return err
}
