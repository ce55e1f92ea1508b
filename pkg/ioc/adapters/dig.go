package adapters

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"

	"github.com/toyz/iocscan/pkg/ioc"
)

// DigAdapter implements ioc.Container on top of a dig container
type DigAdapter struct {
	container *dig.Container
}

// NewDigAdapter creates a new dig adapter
func NewDigAdapter(c *dig.Container) *DigAdapter {
	return &DigAdapter{container: c}
}

// NewDefaultDigAdapter creates a new dig adapter with a fresh container
func NewDefaultDigAdapter() *DigAdapter {
	return &DigAdapter{container: dig.New()}
}

// Container returns the underlying dig container
func (d *DigAdapter) Container() *dig.Container {
	return d.container
}

// Register provides a constructor returning a new concrete value as iface.
// Named registrations use dig.Name.
func (d *DigAdapter) Register(iface, concrete ioc.TypeDescriptor, name string) error {
	ctor, err := constructor(iface, concrete)
	if err != nil {
		return err
	}

	var opts []dig.ProvideOption
	if name != "" {
		opts = append(opts, dig.Name(name))
	}
	return d.container.Provide(ctor.Interface(), opts...)
}

// constructor builds func() I returning a fresh concrete value.
func constructor(iface, concrete ioc.TypeDescriptor) (reflect.Value, error) {
	it, ct := iface.Type(), concrete.Type()
	if it == nil {
		return reflect.Value{}, fmt.Errorf("interface %s has no Go type binding", iface.FullName())
	}
	if ct == nil {
		return reflect.Value{}, fmt.Errorf("concrete %s has no Go type binding", concrete.FullName())
	}
	if it.Kind() != reflect.Interface {
		return reflect.Value{}, fmt.Errorf("%s is not an interface type", it)
	}
	if _, ok := ioc.Instantiate(ct, it); !ok {
		return reflect.Value{}, fmt.Errorf("%s does not implement %s", ct, it)
	}

	fnType := reflect.FuncOf(nil, []reflect.Type{it}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		v, _ := ioc.Instantiate(ct, it)
		out := reflect.New(it).Elem()
		out.Set(v)
		return []reflect.Value{out}
	}), nil
}
