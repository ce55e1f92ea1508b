// Package embedded extracts modules packed as resources inside other modules.
package embedded

import (
	"log/slog"
	"strings"

	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/pkg/ioc"
)

// Loader discovers and loads embedded modules through an ioc.Loader.
type Loader struct {
	loader ioc.Loader
	cache  *Cache
	logger *slog.Logger
}

// NewLoader creates an embedded module loader. Newly seen modules are stored
// in cache, which is also passed to the module loader as its resolver.
func NewLoader(loader ioc.Loader, cache *Cache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		loader: loader,
		cache:  cache,
		logger: logger,
	}
}

// IsModuleResource reports whether a resource name carries the loadable
// module extension, ignoring case.
func IsModuleResource(name, extension string) bool {
	return extension != "" && strings.HasSuffix(strings.ToLower(name), strings.ToLower(extension))
}

// DiscoverEmbedded loads every module-looking resource of m. Modules whose
// identity is already cached are returned again but not re-cached. Resources
// that cannot be opened are skipped; a payload that fails to load aborts
// the whole call.
func (l *Loader) DiscoverEmbedded(m ioc.Module) ([]ioc.Module, error) {
	var found []ioc.Module
	for _, name := range m.Resources() {
		if !IsModuleResource(name, l.loader.Extension()) {
			continue
		}
		mod, err := l.load(m, name)
		if err != nil {
			return nil, err
		}
		if mod == nil {
			continue
		}
		if l.cache.Add(mod) {
			l.logger.Debug("Cached embedded module.", "host", m.Identity(), "resource", name, "identity", mod.Identity())
		} else {
			l.logger.Debug("Embedded module already cached.", "host", m.Identity(), "identity", mod.Identity())
		}
		found = append(found, mod)
	}
	return found, nil
}

// DiscoverAll walks embedded modules of roots transitively and returns every
// module found below them, roots excluded. Each identity is expanded once
// per call.
func (l *Loader) DiscoverAll(roots []ioc.Module) ([]ioc.Module, error) {
	expanded := make(map[string]bool)
	var all []ioc.Module

	queue := append([]ioc.Module(nil), roots...)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if expanded[m.Identity()] {
			continue
		}
		expanded[m.Identity()] = true

		children, err := l.DiscoverEmbedded(m)
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
		queue = append(queue, children...)
	}
	return all, nil
}

func (l *Loader) load(host ioc.Module, name string) (ioc.Module, error) {
	origin := errors.Origin{Module: host.Identity(), Resource: name}

	rc, err := host.OpenResource(name)
	if err != nil || rc == nil {
		l.logger.Debug("Skipping unreadable resource.", "host", host.Identity(), "resource", name, "error", err)
		return nil, nil
	}
	defer rc.Close()

	data, err := readAll(rc)
	if err != nil {
		return nil, errors.NewLoadError(name, err).WithOrigin(origin)
	}

	mod, err := l.loader.LoadFromBytes(data, l.cache)
	if err != nil {
		return nil, errors.NewLoadError(name, err).WithOrigin(origin)
	}
	return mod, nil
}
