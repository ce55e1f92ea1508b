package annotations

import (
	"sort"
	"strings"
)

// Namespace prefixes every marker directive.
const Namespace = "ioc"

// Kind names a marker directive.
type Kind string

const (
	// KindInitialize asks the scanner to run the type's initializer and,
	// when an interface is given, register the type under it.
	KindInitialize Kind = "initialize"
)

// Parameter names accepted by KindInitialize.
const (
	ParamInterface = "Interface"
	ParamName      = "Name"
)

// schemas lists the parameters each kind accepts.
var schemas = map[Kind][]string{
	KindInitialize: {ParamInterface, ParamName},
}

// String returns the kind as written after the namespace.
func (k Kind) String() string {
	return string(k)
}

// Known reports whether k is a recognised directive.
func (k Kind) Known() bool {
	_, ok := schemas[k]
	return ok
}

// Accepts reports whether k takes a parameter named param.
func (k Kind) Accepts(param string) bool {
	for _, p := range schemas[k] {
		if p == param {
			return true
		}
	}
	return false
}

// suggest returns the accepted parameter matching param case-insensitively.
func (k Kind) suggest(param string) (string, bool) {
	for _, p := range schemas[k] {
		if strings.EqualFold(p, param) {
			return p, true
		}
	}
	return "", false
}

// Kinds returns every known directive in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(schemas))
	for k := range schemas {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Annotation is a parsed marker directive.
type Annotation struct {
	Kind       Kind
	Parameters map[string]string
	Raw        string
}

// Get returns a parameter value.
func (a *Annotation) Get(name string) (string, bool) {
	v, ok := a.Parameters[name]
	return v, ok
}

// GetString returns a parameter value or the fallback.
func (a *Annotation) GetString(name string, fallback ...string) string {
	if v, ok := a.Parameters[name]; ok {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// Marker is an initialize directive whose interface reference has not yet
// been resolved to a type.
type Marker struct {
	// Interface is a type reference, "Name" or "identity#Name". Empty means
	// initialize only.
	Interface string
	Name      string
}

// HasInterface reports whether the marker asks for a registration.
func (m *Marker) HasInterface() bool {
	return m.Interface != ""
}
