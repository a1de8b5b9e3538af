// Package bus provides the synchronous in-process event bus behind a
// context's Listen and Dispatch.
//
// Subscriptions match event names with glob patterns ("widget:*", "*").
// Publish invokes matching handlers in subscription order on the calling
// goroutine and returns once all of them have run.
package bus

import (
	"path"
	"reflect"
	"sync"

	"github.com/kbukum/wirekit/logger"
)

// Event is one published message.
type Event struct {
	Name      string
	Payload   any
	ContextID string
}

// Handler receives matching events.
type Handler func(Event)

type subscription struct {
	id       uint64
	listener any
	pattern  string
	handler  Handler
	once     bool
}

// Bus routes events to subscribed handlers.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID uint64
	closed bool
	id     string
	log    *logger.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithID stamps every published event with id when the event has none.
func WithID(id string) Option {
	return func(b *Bus) { b.id = id }
}

// WithLogger sets the bus logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get(logger.ComponentBus)
	}
	return b
}

// Subscribe registers handler for events matching pattern on behalf of
// listener. It returns a function that removes just this subscription.
func (b *Bus) Subscribe(listener any, pattern string, handler Handler) func() {
	return b.add(listener, pattern, handler, false)
}

// Once is Subscribe for a single delivery.
func (b *Bus) Once(listener any, pattern string, handler Handler) func() {
	return b.add(listener, pattern, handler, true)
}

func (b *Bus) add(listener any, pattern string, handler Handler, once bool) func() {
	if handler == nil {
		return func() {}
	}
	if _, err := path.Match(pattern, ""); err != nil {
		b.log.Warn("invalid subscription pattern", logger.Fields("pattern", pattern, logger.FieldError, err.Error()))
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	b.nextID++
	sub := &subscription{id: b.nextID, listener: listener, pattern: pattern, handler: handler, once: once}
	b.subs = append(b.subs, sub)
	return func() { b.remove(sub.id) }
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching handler and returns how many ran.
// Events published on a closed bus are dropped.
func (b *Bus) Publish(e Event) int {
	if e.ContextID == "" {
		e.ContextID = b.id
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.log.Debug("event dropped on closed bus", logger.Fields(logger.FieldEvent, e.Name))
		return 0
	}
	var matched []*subscription
	kept := b.subs[:0:0]
	for _, s := range b.subs {
		ok, _ := path.Match(s.pattern, e.Name)
		if ok {
			matched = append(matched, s)
		}
		if !(ok && s.once) {
			kept = append(kept, s)
		}
	}
	b.subs = kept
	b.mu.Unlock()

	for _, s := range matched {
		s.handler(e)
	}
	return len(matched)
}

// UnsubscribeListener removes every subscription held by listener.
func (b *Bus) UnsubscribeListener(listener any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subs[:0:0]
	removed := 0
	for _, s := range b.subs {
		if sameListener(s.listener, listener) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	b.subs = kept
	return removed
}

// sameListener reports listener identity. Comparable values use ==; maps,
// slices and funcs match when they share the same underlying pointer. Other
// uncomparable values never match.
func sameListener(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return !va.IsValid() && !vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len()
	}
	return false
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Closed reports whether Close has been called.
func (b *Bus) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close drops all subscriptions. Later publishes and subscriptions are
// ignored. Safe to call multiple times.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.subs = nil
}
