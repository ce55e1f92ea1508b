package adapters

import (
	"sync"

	"go.uber.org/fx"

	"github.com/toyz/iocscan/pkg/ioc"
)

// FxAdapter implements ioc.Container by collecting fx.Provide options
type FxAdapter struct {
	mu      sync.Mutex
	options []fx.Option
}

// NewFxAdapter creates a new fx adapter
func NewFxAdapter() *FxAdapter {
	return &FxAdapter{}
}

// Register queues a provider for the binding. Named registrations use fx.Annotated.
func (f *FxAdapter) Register(iface, concrete ioc.TypeDescriptor, name string) error {
	ctor, err := constructor(iface, concrete)
	if err != nil {
		return err
	}

	var opt fx.Option
	if name == "" {
		opt = fx.Provide(ctor.Interface())
	} else {
		opt = fx.Provide(fx.Annotated{Name: name, Target: ctor.Interface()})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = append(f.options, opt)
	return nil
}

// Options returns every collected provider as a single fx option
func (f *FxAdapter) Options() fx.Option {
	f.mu.Lock()
	defer f.mu.Unlock()

	return fx.Options(f.options...)
}
