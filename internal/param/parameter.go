package param

import (
	"fmt"
	"slices"
)

// Parameter is the type-erased view of a TypedParameter used by the
// adapter layer.
type Parameter interface {
	Attr() *Attribute
	Kind() Kind
	// IsSet reports whether a value was supplied since the last Unset.
	IsSet() bool
	HasDefault() bool
	ResetToDefault()
	Unset()
	// Values returns the current value as a list: one element for an Item
	// parameter that is set, the elements for a List parameter.
	Values() []any
	// Assign replaces the value from a list of element values.
	Assign(vs []any) error
	// OnChange registers a listener fired after every value change.
	OnChange(fn func(Parameter))
}

// TypedParameter holds a single value of type T.
type TypedParameter[T any] struct {
	attr       Attribute
	kind       Kind
	value      T
	def        T
	hasDefault bool
	set        bool
	listeners  []func(Parameter)
	// self is the outermost wrapper handed to listeners.
	self Parameter
}

// New creates an Item parameter with no default.
func New[T any](kind Kind, attr Attribute) *TypedParameter[T] {
	attr.Cardinality = Item
	p := &TypedParameter[T]{attr: attr, kind: kind}
	p.self = p
	return p
}

// WithDefault sets the default and pushes it into the value.
func (p *TypedParameter[T]) WithDefault(v T) *TypedParameter[T] {
	p.SetDefault(v)
	p.ResetToDefault()
	return p
}

func (p *TypedParameter[T]) Attr() *Attribute { return &p.attr }
func (p *TypedParameter[T]) Kind() Kind        { return p.kind }
func (p *TypedParameter[T]) IsSet() bool       { return p.set }
func (p *TypedParameter[T]) HasDefault() bool  { return p.hasDefault }

// Value returns the current value, or the zero value when unset.
func (p *TypedParameter[T]) Value() T {
	return p.value
}

// Set stores v and notifies listeners.
func (p *TypedParameter[T]) Set(v T) {
	p.value = v
	p.set = true
	p.fire()
}

func (p *TypedParameter[T]) Default() T {
	return p.def
}

func (p *TypedParameter[T]) SetDefault(v T) {
	p.def = v
	p.hasDefault = true
}

// ResetToDefault pushes the default into the value. Without a default the
// parameter becomes unset.
func (p *TypedParameter[T]) ResetToDefault() {
	if !p.hasDefault {
		p.Unset()
		return
	}
	p.Set(p.def)
}

// Unset clears the value.
func (p *TypedParameter[T]) Unset() {
	var zero T
	wasSet := p.set
	p.value = zero
	p.set = false
	if wasSet {
		p.fire()
	}
}

func (p *TypedParameter[T]) OnChange(fn func(Parameter)) {
	p.listeners = append(p.listeners, fn)
}

func (p *TypedParameter[T]) Values() []any {
	if !p.set {
		return nil
	}
	return []any{p.value}
}

func (p *TypedParameter[T]) Assign(vs []any) error {
	if len(vs) != 1 {
		return fmt.Errorf("parameter %q takes a single value, got %d", p.attr.Name, len(vs))
	}
	v, ok := vs[0].(T)
	if !ok {
		var zero T
		return fmt.Errorf("parameter %q expects %T, got %T", p.attr.Name, zero, vs[0])
	}
	p.Set(v)
	return nil
}

func (p *TypedParameter[T]) fire() {
	for _, fn := range p.listeners {
		fn(p.self)
	}
}

// ArrayParameter holds an ordered list of T. Its cardinality is always List.
type ArrayParameter[T any] struct {
	*TypedParameter[[]T]
}

// NewArray creates a List parameter with no default.
func NewArray[T any](kind Kind, attr Attribute) *ArrayParameter[T] {
	inner := New[[]T](kind, attr)
	inner.attr.Cardinality = List
	a := &ArrayParameter[T]{TypedParameter: inner}
	inner.self = a
	return a
}

// WithDefault sets the default list and pushes a copy into the value.
func (a *ArrayParameter[T]) WithDefault(v []T) *ArrayParameter[T] {
	a.SetDefault(v)
	a.ResetToDefault()
	return a
}

// SetDefault stores a private copy of v.
func (a *ArrayParameter[T]) SetDefault(v []T) {
	a.TypedParameter.SetDefault(slices.Clone(v))
}

// Default returns a copy of the default list.
func (a *ArrayParameter[T]) Default() []T {
	return slices.Clone(a.TypedParameter.Default())
}

// ResetToDefault pushes a copy of the default so the value never aliases it.
func (a *ArrayParameter[T]) ResetToDefault() {
	if !a.hasDefault {
		a.Unset()
		return
	}
	a.Set(slices.Clone(a.def))
}

func (a *ArrayParameter[T]) Values() []any {
	if !a.set {
		return nil
	}
	out := make([]any, 0, len(a.value))
	for _, v := range a.value {
		out = append(out, v)
	}
	return out
}

func (a *ArrayParameter[T]) Assign(vs []any) error {
	list := make([]T, 0, len(vs))
	for i, raw := range vs {
		v, ok := raw.(T)
		if !ok {
			var zero T
			return fmt.Errorf("parameter %q element %d: expects %T, got %T", a.attr.Name, i, zero, raw)
		}
		list = append(list, v)
	}
	a.Set(list)
	return nil
}
