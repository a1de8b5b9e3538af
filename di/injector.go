package di

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/observability"
)

// Setter is implemented by targets that assign their own dependencies.
type Setter interface {
	SetDependency(property string, value any) error
}

// Bag is a map-backed injection target for ad-hoc objects.
type Bag map[string]any

// SetDependency stores value under property.
func (b Bag) SetDependency(property string, value any) error {
	b[property] = value
	return nil
}

// inject resolves decl (or the target's own declaration when decl is empty)
// starting at r and assigns every dependency onto target.
func (r *Resolver) inject(ctx context.Context, target any, decl Declaration) error {
	if decl.IsZero() {
		if w, ok := target.(Wired); ok {
			decl = w.Wiring()
		}
	}
	if decl.IsZero() {
		return nil
	}

	ctx, span := observability.StartSpan(ctx, r.tracer, observability.SpanInject,
		trace.WithAttributes(attribute.Int("di.dependencies", len(decl.bindings))),
	)

	for _, b := range decl.bindings {
		value, err := r.GetObjectContext(ctx, b.Key)
		if err != nil {
			observability.EndSpan(span, err)
			return err
		}
		if err := assign(target, b.Property, value); err != nil {
			appErr := errors.InjectionFailed(b.Property, b.Key, err)
			observability.EndSpan(span, appErr)
			return appErr
		}
	}

	observability.EndSpan(span, nil)
	return nil
}

// assign sets property on target. Setters are called directly; struct
// pointers get the field tagged `wire:"property"`, else the exported field
// whose name matches property case-insensitively.
func assign(target any, property string, value any) error {
	if s, ok := target.(Setter); ok {
		return s.SetDependency(property, value)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target %T is not a struct pointer or Setter", target)
	}
	elem := rv.Elem()

	field, err := fieldFor(elem, property)
	if err != nil {
		return err
	}

	if value == nil {
		field.SetZero()
		return nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("value of type %s is not assignable to field of type %s", v.Type(), field.Type())
	}
	field.Set(v)
	return nil
}

func fieldFor(elem reflect.Value, property string) (reflect.Value, error) {
	var byName []int
	for _, sf := range reflect.VisibleFields(elem.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if tag, ok := sf.Tag.Lookup("wire"); ok && tag == property {
			return fieldByIndex(elem, sf.Index)
		}
		if byName == nil && strings.EqualFold(sf.Name, property) {
			byName = sf.Index
		}
	}
	if byName == nil {
		return reflect.Value{}, fmt.Errorf("%s has no field for property %q", elem.Type(), property)
	}
	return fieldByIndex(elem, byName)
}

func fieldByIndex(elem reflect.Value, index []int) (reflect.Value, error) {
	field, err := elem.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}, err
	}
	if !field.CanSet() {
		return reflect.Value{}, fmt.Errorf("field %v of %s cannot be set", index, elem.Type())
	}
	return field, nil
}
