// Package appcontext provides the Context aggregate: one resolver, one event
// bus and an optional parent context used for delegated lookups.
//
// Views constructed by a context's resolver listen and dispatch on that
// context's bus only.
//
//	root, _ := appcontext.New(appcontext.WithName("app"))
//	root.Resolver().WireValue("config", cfg)
//
//	child, _ := appcontext.New(appcontext.WithParent(root), appcontext.WithDefinition(appcontext.Definition{
//	    Views: map[string]di.Factory{"editor": di.ClassOf[Editor]()},
//	}))
//	editor, err := di.NewView[*Editor](child, "editor")
package appcontext

import (
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/wirekit/bus"
	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

// Definition pre-wires keys when a context is created.
type Definition struct {
	Values     map[string]any
	Singletons map[string]di.Factory
	Classes    map[string]di.Factory
	Views      map[string]di.Factory
}

// Context owns one resolver and one event bus.
type Context struct {
	id       string
	name     string
	parent   *Context
	resolver *di.Resolver
	bus      *bus.Bus
	log      *logger.Logger
	tracer   trace.Tracer
	metrics  *observability.ResolverMetrics

	mu        sync.RWMutex
	children  []*Context
	destroyed bool
}

type options struct {
	parent     *Context
	name       string
	definition *Definition
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.ResolverMetrics
}

// Option configures a Context.
type Option func(*options)

// WithParent links the new context to parent for delegated lookups and
// DispatchToParent. The parent is not owned by the child.
func WithParent(parent *Context) Option {
	return func(o *options) { o.parent = parent }
}

// WithName sets a human-readable name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDefinition wires def into the new context's resolver.
func WithDefinition(def Definition) Option {
	return func(o *options) { o.definition = &def }
}

// WithLogger sets the logger shared by the context, its resolver and its bus.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracer sets the tracer used by the context's resolver.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics sets the resolver instruments.
func WithMetrics(m *observability.ResolverMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a context. Tracer and metrics are inherited from the parent
// unless set explicitly.
func New(opts ...Option) (*Context, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentAppContext)
	}

	c := &Context{
		id:      uuid.NewString(),
		name:    o.name,
		parent:  o.parent,
		tracer:  o.tracer,
		metrics: o.metrics,
	}
	if o.parent != nil {
		if c.tracer == nil {
			c.tracer = o.parent.tracer
		}
		if c.metrics == nil {
			c.metrics = o.parent.metrics
		}
	}
	c.log = o.log.WithFields(logger.Fields(logger.FieldContextID, c.id))
	c.bus = bus.New(bus.WithID(c.id), bus.WithLogger(c.log))

	resolverOpts := []di.Option{
		di.WithLogger(c.log),
		di.WithMessenger(messenger{c: c}),
		di.WithTracer(c.tracer),
		di.WithMetrics(c.metrics),
	}
	if o.parent != nil {
		resolverOpts = append(resolverOpts, di.WithParent(o.parent.resolver))
	}
	c.resolver = di.NewResolver(resolverOpts...)

	if o.definition != nil {
		if err := c.apply(*o.definition); err != nil {
			return nil, err
		}
	}

	if o.parent != nil {
		o.parent.adopt(c)
	}

	c.log.Debug("context created", logger.Fields("name", c.name, "parent_id", c.ParentID()))
	return c, nil
}

func (c *Context) apply(def Definition) error {
	for key, value := range def.Values {
		c.resolver.WireValue(key, value)
	}
	for key, f := range def.Singletons {
		if err := c.resolver.WireSingleton(key, f); err != nil {
			return err
		}
	}
	for key, f := range def.Classes {
		if err := c.resolver.WireClass(key, f); err != nil {
			return err
		}
	}
	for key, f := range def.Views {
		if err := c.resolver.WireView(key, f); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the context's unique identifier.
func (c *Context) ID() string { return c.id }

// Name returns the context name.
func (c *Context) Name() string { return c.name }

// Parent returns the parent context, or nil for a root.
func (c *Context) Parent() *Context { return c.parent }

// ParentID returns the parent's ID, or "" for a root.
func (c *Context) ParentID() string {
	if c.parent == nil {
		return ""
	}
	return c.parent.id
}

// Resolver returns the context's resolver.
func (c *Context) Resolver() *di.Resolver { return c.resolver }

// GetObject resolves key through the context's resolver chain.
func (c *Context) GetObject(key string) (any, error) {
	return c.resolver.GetObject(key)
}

// Bind injects target's declared dependencies from this context.
func (c *Context) Bind(target any) error {
	return c.resolver.Resolve(target)
}

// Listen subscribes handler to events matching pattern on this context's
// bus. Calling the returned function removes the subscription.
func (c *Context) Listen(listener any, pattern string, handler bus.Handler) func() {
	return c.bus.Subscribe(listener, pattern, handler)
}

// ListenOnce is Listen for a single delivery.
func (c *Context) ListenOnce(listener any, pattern string, handler bus.Handler) func() {
	return c.bus.Once(listener, pattern, handler)
}

// Dispatch publishes an event on this context's bus and returns the number
// of handlers that ran.
func (c *Context) Dispatch(event string, payload any) int {
	return c.bus.Publish(bus.Event{Name: event, Payload: payload, ContextID: c.id})
}

// DispatchToParent publishes an event on the parent's bus. A root context
// drops it.
func (c *Context) DispatchToParent(event string, payload any) int {
	if c.parent == nil {
		return 0
	}
	return c.parent.bus.Publish(bus.Event{Name: event, Payload: payload, ContextID: c.id})
}

// StopListening removes every subscription held by listener.
func (c *Context) StopListening(listener any) {
	c.bus.UnsubscribeListener(listener)
}

// Listeners returns the number of live subscriptions.
func (c *Context) Listeners() int { return c.bus.Len() }

// Destroy closes the bus and detaches the context from its parent. The
// resolver and anything already resolved stay usable.
func (c *Context) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()

	c.bus.Close()
	if c.parent != nil {
		c.parent.orphan(c)
	}
	c.log.Debug("context destroyed")
}

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// Children returns the live child contexts.
func (c *Context) Children() []*Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Context(nil), c.children...)
}

// Find returns the context with the given ID in c's subtree.
func (c *Context) Find(id string) (*Context, bool) {
	stack := []*Context{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.id == id {
			return cur, true
		}
		stack = append(stack, cur.Children()...)
	}
	return nil, false
}

func (c *Context) adopt(child *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, child)
}

func (c *Context) orphan(child *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			return
		}
	}
}
