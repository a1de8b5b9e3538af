package di

import "context"

// Handler receives events delivered through a Messenger.
type Handler func(event string, payload any)

// Messenger is the event surface a context lends to its views.
type Messenger interface {
	Listen(listener any, event string, handler Handler)
	Dispatch(event string, payload any)
	StopListening(listener any)
}

// ViewBinder is implemented by views that accept a messenger. Embed View to
// get it.
type ViewBinder interface {
	BindMessenger(m Messenger)
}

// View gives an embedding struct Listen and Dispatch bound to the context
// whose resolver constructed it. An unbound View drops both silently.
type View struct {
	messenger Messenger
}

// BindMessenger attaches m. Called by the resolver before Initialize.
func (v *View) BindMessenger(m Messenger) { v.messenger = m }

// Bound reports whether a messenger is attached.
func (v *View) Bound() bool { return v.messenger != nil }

// Listen subscribes handler to event on the owning context.
func (v *View) Listen(event string, handler Handler) {
	if v.messenger == nil {
		return
	}
	v.messenger.Listen(v, event, handler)
}

// Dispatch publishes event on the owning context.
func (v *View) Dispatch(event string, payload any) {
	if v.messenger == nil {
		return
	}
	v.messenger.Dispatch(event, payload)
}

// StopListening drops every subscription made through Listen.
func (v *View) StopListening() {
	if v.messenger == nil {
		return
	}
	v.messenger.StopListening(v)
}

// ViewConstructor is what GetObject returns for a view key. The same
// ViewConstructor is returned on every lookup; each New call builds a fresh
// view.
type ViewConstructor struct {
	key     string
	owner   *Resolver
	factory Factory
	config  Declaration
}

// Key returns the wiring key the constructor was registered under.
func (vc *ViewConstructor) Key() string { return vc.key }

// New builds a view: allocate, inject, bind the owning context's messenger,
// then Initialize(args...).
func (vc *ViewConstructor) New(args ...any) (any, error) {
	return vc.NewContext(context.Background(), args...)
}

// NewContext is New with a context for tracing nested resolutions.
func (vc *ViewConstructor) NewContext(ctx context.Context, args ...any) (any, error) {
	return vc.owner.build(ctx, vc.key, StrategyView, vc.factory, vc.config, args)
}
