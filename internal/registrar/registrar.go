// Package registrar binds concrete types to a container, either from their
// registration markers or by matching them against indexed interfaces.
package registrar

import (
	"log/slog"

	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/internal/typeindex"
	"github.com/toyz/iocscan/pkg/ioc"
)

const (
	strategyMarker     = "marker"
	strategyConvention = "convention"
)

// Stats counts what the passes did.
type Stats struct {
	Initialized             int
	MarkerRegistrations     int
	ConventionRegistrations int
	ConventionMisses        int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Initialized += other.Initialized
	s.MarkerRegistrations += other.MarkerRegistrations
	s.ConventionRegistrations += other.ConventionRegistrations
	s.ConventionMisses += other.ConventionMisses
}

// Registrar applies marker and convention registration against a container.
type Registrar struct {
	container ioc.Container
	index     *typeindex.Index
	logger    *slog.Logger
}

// New creates a registrar.
func New(container ioc.Container, index *typeindex.Index, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registrar{
		container: container,
		index:     index,
		logger:    logger,
	}
}

// RegisterByMarker runs the initializer of every marked concrete type and
// then registers it under the marker's interface and name, if any.
func (r *Registrar) RegisterByMarker(modules []ioc.Module) (Stats, error) {
	var stats Stats
	for _, m := range modules {
		for _, concrete := range ioc.Concretes(m) {
			origin := errors.Origin{Module: m.Identity(), Type: concrete.Name()}

			marker, err := concrete.Marker()
			if err != nil {
				return stats, errors.NewMarkerError(concrete.FullName(), err).WithOrigin(origin)
			}
			if marker == nil {
				continue
			}

			if hook := concrete.Initializer(); hook != nil {
				if err := hook(r.container); err != nil {
					return stats, errors.NewRegistrationError(strategyMarker, "", concrete.FullName(), err).WithOrigin(origin)
				}
				stats.Initialized++
			}

			if marker.Interface == nil {
				continue
			}
			if err := r.container.Register(marker.Interface, concrete, marker.Name); err != nil {
				return stats, errors.NewRegistrationError(strategyMarker, marker.Interface.FullName(), concrete.FullName(), err).WithOrigin(origin)
			}
			stats.MarkerRegistrations++
			r.logger.Debug("Registered by marker.", "interface", marker.Interface.FullName(), "concrete", concrete.FullName(), "name", marker.Name)
		}
	}
	return stats, nil
}

// RegisterByConvention registers each concrete type under the indexed
// interface sharing its name. The index entry is consumed by the first
// concrete type carrying that name, whether or not it implements the
// interface.
func (r *Registrar) RegisterByConvention(modules []ioc.Module) (Stats, error) {
	var stats Stats
	for _, m := range modules {
		for _, concrete := range ioc.Concretes(m) {
			iface, ok := r.index.Take(concrete.Name())
			if !ok {
				continue
			}
			if !iface.AssignableFrom(concrete) {
				stats.ConventionMisses++
				r.logger.Debug("Convention match dropped.", "interface", iface.FullName(), "concrete", concrete.FullName())
				continue
			}
			if err := r.container.Register(iface, concrete, ""); err != nil {
				origin := errors.Origin{Module: m.Identity(), Type: concrete.Name()}
				return stats, errors.NewRegistrationError(strategyConvention, iface.FullName(), concrete.FullName(), err).WithOrigin(origin)
			}
			stats.ConventionRegistrations++
			r.logger.Debug("Registered by convention.", "interface", iface.FullName(), "concrete", concrete.FullName())
		}
	}
	return stats, nil
}
