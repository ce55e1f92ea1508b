package bundle

import (
	"fmt"
	"reflect"

	"github.com/toyz/iocscan/internal/annotations"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/pkg/ioc"
)

// declaredType is a type described by a manifest entry. When the entry names
// a catalog binding the Go type and initializer come from the catalog.
type declaredType struct {
	module *Module
	spec   TypeSpec
	bound  ioc.TypeDescriptor
	marker *annotations.Marker
}

func (d *declaredType) Name() string {
	return d.spec.Name
}

func (d *declaredType) FullName() string {
	return QualifiedName(d.module.Identity(), d.spec.Name)
}

func (d *declaredType) IsInterface() bool {
	return d.spec.Kind == KindInterface
}

func (d *declaredType) Type() reflect.Type {
	if d.bound == nil {
		return nil
	}
	return d.bound.Type()
}

func (d *declaredType) Initializer() ioc.InitializeFunc {
	if d.bound == nil {
		return nil
	}
	return d.bound.Initializer()
}

func (d *declaredType) String() string {
	return d.FullName()
}

// Marker resolves the marker's interface reference against this module, the
// modules already loaded by the same loader and finally the load-time resolver.
func (d *declaredType) Marker() (*ioc.Marker, error) {
	if d.marker == nil {
		return nil, nil
	}
	out := &ioc.Marker{Name: d.marker.Name}
	if !d.marker.HasInterface() {
		return out, nil
	}

	origin := errors.Origin{Module: d.module.Identity(), Type: d.spec.Name}
	iface, err := d.module.ResolveType(d.marker.Interface)
	if err != nil {
		return nil, errors.NewManifestError("marker", err.Error()).WithOrigin(origin)
	}
	if !iface.IsInterface() {
		return nil, errors.NewManifestError("marker", fmt.Sprintf("'%s' is not an interface", d.marker.Interface)).WithOrigin(origin)
	}
	out.Interface = iface
	return out, nil
}

// AssignableFrom uses Go's assignability when both sides are bound to Go
// types. Otherwise it walks the declared implements and extends references
// of other, at any depth.
func (d *declaredType) AssignableFrom(other ioc.TypeDescriptor) bool {
	if other == nil {
		return false
	}
	if !d.IsInterface() {
		return other.FullName() == d.FullName()
	}
	if d.bound != nil && other.Type() != nil {
		return d.bound.AssignableFrom(other)
	}

	target := d.FullName()
	seen := map[string]bool{}
	queue := []ioc.TypeDescriptor{other}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if t.FullName() == target {
			return true
		}
		if seen[t.FullName()] {
			continue
		}
		seen[t.FullName()] = true

		dt, ok := t.(*declaredType)
		if !ok {
			continue
		}
		for _, ref := range dt.parents() {
			parent, err := dt.module.ResolveType(ref)
			if err != nil {
				continue
			}
			queue = append(queue, parent)
		}
	}
	return false
}

func (d *declaredType) parents() []string {
	if d.IsInterface() {
		return d.spec.Extends
	}
	return d.spec.Implements
}
