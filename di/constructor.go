package di

import "fmt"

// Factory allocates a fresh, uninitialized instance. The instance's own
// initialization belongs in Initialize, so that dependencies can be assigned
// between the two steps.
type Factory func() any

// ClassOf returns a Factory allocating a zero *T.
func ClassOf[T any]() Factory {
	return func() any { return new(T) }
}

// Initializer is implemented by instances with initialization logic. It runs
// once per instance, after dependency injection, with the instantiation
// arguments.
type Initializer interface {
	Initialize(args ...any) error
}

// Hook runs against a freshly allocated instance before it is initialized.
type Hook func(instance any) error

// Constructor builds initialized instances from an argument list.
type Constructor interface {
	New(args ...any) (any, error)
}

type wrapped struct {
	factory Factory
	hook    Hook
}

// Wrap returns a Constructor that allocates with factory, runs hook on the
// new instance, then initializes it with the given arguments. With a nil hook
// it behaves exactly like Construct.
func Wrap(factory Factory, hook Hook) Constructor {
	return &wrapped{factory: factory, hook: hook}
}

// New allocates, hooks and initializes one instance.
func (c *wrapped) New(args ...any) (any, error) {
	if c.factory == nil {
		return nil, fmt.Errorf("nil factory")
	}
	instance := c.factory()
	if instance == nil {
		return nil, fmt.Errorf("factory returned nil")
	}
	if c.hook != nil {
		if err := c.hook(instance); err != nil {
			return nil, err
		}
	}
	if init, ok := instance.(Initializer); ok {
		if err := init.Initialize(args...); err != nil {
			return nil, fmt.Errorf("initialize %T: %w", instance, err)
		}
	}
	return instance, nil
}

// Construct allocates and initializes one instance without a hook.
func Construct(factory Factory, args ...any) (any, error) {
	return Wrap(factory, nil).New(args...)
}
