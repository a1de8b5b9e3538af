package di

import "fmt"

// Getter is anything that looks objects up by key; *Resolver implements it.
type Getter interface {
	GetObject(key string) (any, error)
}

// MustGet resolves key with type safety, panics on error.
// Use this in wiring code where a missing key is a programming error.
//
// Example:
//
//	repo := di.MustGet[*CatalogRepository](resolver, "catalogRepository")
func MustGet[T any](g Getter, key string) T {
	instance, err := g.GetObject(key)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", key, err))
	}
	result, ok := instance.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("di: object %s is %T, expected %T", key, instance, zero))
	}
	return result
}

// Get resolves key with type safety, returns error on failure.
// The resolution error is wrapped, so errors.Is still matches its code.
//
// Example:
//
//	repo, err := di.Get[*CatalogRepository](resolver, "catalogRepository")
//	if err != nil {
//	    return fmt.Errorf("failed to get catalog repository: %w", err)
//	}
func Get[T any](g Getter, key string) (T, error) {
	var zero T
	instance, err := g.GetObject(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: object %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryGet resolves key, returns zero value and false if not found.
// Use this when a dependency is optional.
//
// Example:
//
//	if clock, ok := di.TryGet[Clock](resolver, "clock"); ok {
//	    started = clock.Now()
//	}
func TryGet[T any](g Getter, key string) (T, bool) {
	var zero T
	instance, err := g.GetObject(key)
	if err != nil {
		return zero, false
	}
	result, ok := instance.(T)
	if !ok {
		return zero, false
	}
	return result, true
}

// NewView resolves a view key and builds one view from it.
func NewView[T any](g Getter, key string, args ...any) (T, error) {
	var zero T
	ctor, err := Get[*ViewConstructor](g, key)
	if err != nil {
		return zero, err
	}
	instance, err := ctor.New(args...)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: view %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}
