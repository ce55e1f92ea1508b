package adapters

import (
	"fmt"
	"sync"

	"github.com/toyz/iocscan/pkg/ioc"
)

// Binding is one registration seen by a Recorder
type Binding struct {
	Interface ioc.TypeDescriptor
	Concrete  ioc.TypeDescriptor
	Name      string
}

// String renders the binding as "iface -> concrete [name]"
func (b Binding) String() string {
	if b.Name == "" {
		return fmt.Sprintf("%s -> %s", b.Interface.FullName(), b.Concrete.FullName())
	}
	return fmt.Sprintf("%s -> %s [%s]", b.Interface.FullName(), b.Concrete.FullName(), b.Name)
}

// Recorder implements ioc.Container by keeping every registration in order.
// It never rejects a registration, so repeated bindings are all kept.
type Recorder struct {
	mu       sync.Mutex
	bindings []Binding
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Register records the binding
func (r *Recorder) Register(iface, concrete ioc.TypeDescriptor, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings = append(r.bindings, Binding{Interface: iface, Concrete: concrete, Name: name})
	return nil
}

// Bindings returns a copy of all recorded bindings
func (r *Recorder) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// For returns the bindings registered under the interface with the given full name
func (r *Recorder) For(ifaceFullName string) []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Binding
	for _, b := range r.bindings {
		if b.Interface.FullName() == ifaceFullName {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of recorded bindings
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bindings)
}
