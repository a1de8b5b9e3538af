package di

import "sort"

// DeclarationForm tells how a Declaration was written.
type DeclarationForm int

const (
	// NoForm is the zero Declaration: nothing to inject.
	NoForm DeclarationForm = iota
	// KeysForm assigns each key onto the property of the same name.
	KeysForm
	// FieldsForm assigns each key onto an explicitly named property.
	FieldsForm
)

// Binding pairs a target property with the key resolved into it.
type Binding struct {
	Property string
	Key      string
}

// Declaration lists the dependencies a consumer needs.
//
// Build one with Keys or Fields. The zero value declares nothing.
type Declaration struct {
	form     DeclarationForm
	bindings []Binding
}

// Keys declares dependencies whose property names equal their keys.
func Keys(keys ...string) Declaration {
	if len(keys) == 0 {
		return Declaration{}
	}
	d := Declaration{form: KeysForm, bindings: make([]Binding, 0, len(keys))}
	for _, k := range keys {
		d = d.with(Binding{Property: k, Key: k})
	}
	return d
}

// Fields declares dependencies as a property name to key mapping.
func Fields(fields map[string]string) Declaration {
	if len(fields) == 0 {
		return Declaration{}
	}
	props := make([]string, 0, len(fields))
	for p := range fields {
		props = append(props, p)
	}
	sort.Strings(props)

	d := Declaration{form: FieldsForm, bindings: make([]Binding, 0, len(fields))}
	for _, p := range props {
		d.bindings = append(d.bindings, Binding{Property: p, Key: fields[p]})
	}
	return d
}

// Form returns how the declaration was written.
func (d Declaration) Form() DeclarationForm { return d.form }

// IsZero reports whether the declaration names no dependencies.
func (d Declaration) IsZero() bool { return len(d.bindings) == 0 }

// Bindings returns the property/key pairs in injection order.
func (d Declaration) Bindings() []Binding {
	out := make([]Binding, len(d.bindings))
	copy(out, d.bindings)
	return out
}

// Merge returns d extended by other. A property declared by both takes
// other's key. Embedding types use it to extend an embedded declaration:
//
//	func (p *Panel) Wiring() di.Declaration {
//	    return p.Widget.Wiring().Merge(di.Keys("theme"))
//	}
func (d Declaration) Merge(other Declaration) Declaration {
	if d.IsZero() {
		return other
	}
	if other.IsZero() {
		return d
	}
	merged := Declaration{form: FieldsForm, bindings: make([]Binding, 0, len(d.bindings)+len(other.bindings))}
	if d.form == KeysForm && other.form == KeysForm {
		merged.form = KeysForm
	}
	for _, b := range d.bindings {
		merged = merged.with(b)
	}
	for _, b := range other.bindings {
		merged = merged.with(b)
	}
	return merged
}

func (d Declaration) with(b Binding) Declaration {
	for i := range d.bindings {
		if d.bindings[i].Property == b.Property {
			d.bindings[i] = b
			return d
		}
	}
	d.bindings = append(d.bindings, b)
	return d
}

// Wired is implemented by consumers that declare their own dependencies.
// Methods promoted from embedded structs make declarations inheritable.
type Wired interface {
	Wiring() Declaration
}
