// Package ioc defines the contracts shared by the module scanner, module
// loaders and container adapters, plus an in-process module implementation
// backed by Go reflection.
package ioc

import (
	"io"
	"reflect"
)

// TypeDescriptor describes one type declared by a module.
type TypeDescriptor interface {
	// Name is the simple (unqualified) type name used for convention matching.
	Name() string
	// FullName is unique across modules.
	FullName() string
	IsInterface() bool
	// AssignableFrom reports whether a value of other can be used where this
	// type is expected. Only meaningful on interface descriptors.
	AssignableFrom(other TypeDescriptor) bool
	// Marker returns the registration marker attached to the type, or nil.
	Marker() (*Marker, error)
	// Initializer returns the hook run before marker registration, or nil.
	Initializer() InitializeFunc
	// Type returns the bound Go type, or nil for purely declarative descriptors.
	Type() reflect.Type
}

// Marker is explicit per-type registration metadata.
// A nil Interface requests the initializer hook only.
type Marker struct {
	Interface TypeDescriptor
	Name      string
}

// InitializeFunc is a per-type setup hook receiving the target container.
type InitializeFunc func(c Container) error

// Initializer is implemented by types that need setup when they are scanned.
// The method is called on the zero value of the type.
type Initializer interface {
	Initialize(c Container) error
}

// Container is the registration surface of a dependency injection container.
// An empty name means an unnamed registration.
type Container interface {
	Register(iface, concrete TypeDescriptor, name string) error
}

// Module is a loadable unit of type descriptors and embedded resources.
type Module interface {
	Identity() string
	Types() []TypeDescriptor
	Resources() []string
	// OpenResource returns a nil reader when the resource cannot be opened.
	OpenResource(name string) (io.ReadCloser, error)
}

// Resolver answers cross-module lookups made while a module is being loaded.
type Resolver interface {
	ResolveModule(identity string) (Module, bool)
}

// Loader turns module files and byte payloads into modules.
type Loader interface {
	// Extension is the file extension of loadable modules, including the dot.
	Extension() string
	LoadFromPath(path string, resolver Resolver) (Module, error)
	LoadFromBytes(data []byte, resolver Resolver) (Module, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(identity string) (Module, bool)

// ResolveModule calls f(identity).
func (f ResolverFunc) ResolveModule(identity string) (Module, bool) {
	return f(identity)
}

// NoResolver resolves nothing.
var NoResolver Resolver = ResolverFunc(func(string) (Module, bool) { return nil, false })

// Concretes returns the non-interface descriptors of a module.
func Concretes(m Module) []TypeDescriptor {
	var out []TypeDescriptor
	for _, t := range m.Types() {
		if !t.IsInterface() {
			out = append(out, t)
		}
	}
	return out
}
