package ioc

import (
	"reflect"
)

// TypeOption customises a reflect-backed descriptor.
type TypeOption func(*reflectType)

// WithMarker attaches a registration marker. iface may be nil to request the
// initializer hook without a registration.
func WithMarker(iface TypeDescriptor, name string) TypeOption {
	return func(r *reflectType) {
		r.marker = &Marker{Interface: iface, Name: name}
	}
}

// WithInitializer overrides the hook discovered from the Initializer interface.
func WithInitializer(fn InitializeFunc) TypeOption {
	return func(r *reflectType) {
		r.init = fn
	}
}

type reflectType struct {
	t      reflect.Type
	marker *Marker
	init   InitializeFunc
}

// Interface returns the descriptor of interface type T.
func Interface[T any]() TypeDescriptor {
	return InterfaceOf(reflect.TypeOf((*T)(nil)).Elem())
}

// Concrete returns the descriptor of type T. Pointer types are described by
// their element type.
func Concrete[T any](opts ...TypeOption) TypeDescriptor {
	return ConcreteOf(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// InterfaceOf describes the interface type t.
func InterfaceOf(t reflect.Type) TypeDescriptor {
	return describe(t)
}

// ConcreteOf builds a descriptor for t. An Initializer implementation on the
// zero value is picked up unless WithInitializer is given.
func ConcreteOf(t reflect.Type, opts ...TypeOption) TypeDescriptor {
	return describe(t, opts...)
}

func describe(t reflect.Type, opts ...TypeOption) TypeDescriptor {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r := &reflectType{t: t}
	for _, opt := range opts {
		opt(r)
	}
	if r.init == nil && t.Kind() != reflect.Interface {
		if hook, ok := reflect.New(t).Interface().(Initializer); ok {
			r.init = hook.Initialize
		}
	}
	return r
}

func (r *reflectType) Name() string {
	return r.t.Name()
}

func (r *reflectType) FullName() string {
	if r.t.Name() == "" || r.t.PkgPath() == "" {
		return r.t.String()
	}
	return r.t.PkgPath() + "." + r.t.Name()
}

func (r *reflectType) IsInterface() bool {
	return r.t.Kind() == reflect.Interface
}

func (r *reflectType) AssignableFrom(other TypeDescriptor) bool {
	if other == nil {
		return false
	}
	ot := other.Type()
	if ot == nil {
		return false
	}
	if r.t.Kind() != reflect.Interface {
		return ot == r.t
	}
	if ot.Implements(r.t) {
		return true
	}
	return ot.Kind() != reflect.Interface && reflect.PointerTo(ot).Implements(r.t)
}

func (r *reflectType) Marker() (*Marker, error) {
	return r.marker, nil
}

func (r *reflectType) Initializer() InitializeFunc {
	return r.init
}

func (r *reflectType) Type() reflect.Type {
	return r.t
}

func (r *reflectType) String() string {
	return r.FullName()
}

// Instantiate returns a new value of the concrete type t suitable for
// assignment to iface: a pointer when *t implements iface, the value otherwise.
func Instantiate(t, iface reflect.Type) (reflect.Value, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	ptr := reflect.New(t)
	if ptr.Type().Implements(iface) {
		return ptr, true
	}
	if t.Implements(iface) {
		return ptr.Elem(), true
	}
	return reflect.Value{}, false
}
