// Package scanner discovers interfaces and implementations in loadable
// modules and registers them with a dependency injection container.
//
// Two strategies run in a fixed order over every batch of modules. Marker
// registration binds types that carry an explicit ioc.Marker, running their
// initializer first. Convention registration then binds a concrete type Foo
// to an interface IFoo found anywhere in the scanned modules, consuming the
// IFoo slot on the first type named Foo whether or not it implements it.
package scanner

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/toyz/iocscan/internal/embedded"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/internal/registrar"
	"github.com/toyz/iocscan/pkg/ioc"
)

// Stats counts initializers run and registrations made.
type Stats = registrar.Stats

// Result summarises one scan call.
type Result struct {
	// Modules are the identities loaded directly (directory scans) or the
	// host passed to ScanModule.
	Modules []string
	// Embedded are the identities extracted from embedded resources.
	Embedded []string
	// Indexed is the number of interface descriptors written to the index.
	Indexed int
	// Skipped is set when ScanModule found the module already scanned.
	Skipped bool
	Stats   Stats
}

func (r *Result) merge(other *Result) {
	r.Modules = append(r.Modules, other.Modules...)
	r.Embedded = append(r.Embedded, other.Embedded...)
	r.Indexed += other.Indexed
	r.Stats.Add(other.Stats)
}

// Scanner scans modules into a container.
type Scanner struct {
	container ioc.Container
	loader    ioc.Loader
	session   *Session
	config    Config
	logger    *slog.Logger

	embedded  *embedded.Loader
	registrar *registrar.Registrar
}

// New creates a scanner registering into container and loading modules with
// loader.
func New(container ioc.Container, loader ioc.Loader, opts ...Option) (*Scanner, error) {
	if container == nil {
		return nil, errors.NewPreconditionError("container", "must not be nil")
	}
	if loader == nil {
		return nil, errors.NewPreconditionError("loader", "must not be nil")
	}

	s := &Scanner{
		container: container,
		loader:    loader,
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.session == nil {
		s.session = NewSession(s.config)
	}

	s.embedded = embedded.NewLoader(loader, s.session.modules, s.logger)
	s.registrar = registrar.New(container, s.session.index, s.logger)
	return s, nil
}

// Session returns the scanning state used by this scanner.
func (s *Scanner) Session() *Session {
	return s.session
}

// ScanDefault scans the directory holding the running executable.
func (s *Scanner) ScanDefault() (*Result, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.WrapWithOperation("locate", "executable directory", err)
	}
	return s.ScanAllModules(filepath.Dir(exe))
}

// ScanAllModules loads every module file directly inside location, expands
// the embedded modules of those not yet scanned, and runs indexing, marker
// registration and convention registration over the combined set. It does
// not mark any module as scanned.
func (s *Scanner) ScanAllModules(location string) (*Result, error) {
	paths, err := s.moduleFiles(location)
	if err != nil {
		return nil, err
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	s.logger.Info("Scanning module directory.", "location", location, "files", len(paths))

	var direct, unscanned []ioc.Module
	for _, path := range paths {
		m, err := s.loader.LoadFromPath(path, s.session.modules)
		if err != nil {
			return nil, errors.NewLoadError(path, err)
		}
		direct = append(direct, m)
		if !s.session.Scanned(m.Identity()) {
			unscanned = append(unscanned, m)
		}
	}

	children, err := s.embedded.DiscoverAll(unscanned)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Modules:  identities(direct),
		Embedded: identities(children),
	}
	combined := append(append([]ioc.Module(nil), direct...), children...)
	if err := s.register(combined, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ScanModule marks module as scanned and registers the modules embedded in
// it. The host's own types are neither indexed nor registered here. Scanning
// an identity a second time does nothing.
func (s *Scanner) ScanModule(module ioc.Module) (*Result, error) {
	if module == nil {
		return nil, errors.NewPreconditionError("module", "must not be nil")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	return s.scanModule(module)
}

// ScanEmbeddedResources runs ScanModule on each module embedded directly in
// module.
func (s *Scanner) ScanEmbeddedResources(module ioc.Module) (*Result, error) {
	if module == nil {
		return nil, errors.NewPreconditionError("module", "must not be nil")
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	children, err := s.embedded.DiscoverEmbedded(module)
	if err != nil {
		return nil, err
	}

	total := &Result{}
	for _, child := range children {
		r, err := s.scanModule(child)
		if err != nil {
			return nil, err
		}
		total.merge(r)
	}
	return total, nil
}

func (s *Scanner) scanModule(module ioc.Module) (*Result, error) {
	result := &Result{Modules: []string{module.Identity()}}
	if !s.session.markScanned(module.Identity()) {
		s.logger.Debug("Module already scanned.", "identity", module.Identity())
		result.Skipped = true
		return result, nil
	}

	children, err := s.embedded.DiscoverAll([]ioc.Module{module})
	if err != nil {
		return nil, err
	}
	result.Embedded = identities(children)

	s.logger.Info("Scanning module.", "identity", module.Identity(), "embedded", len(children))
	if err := s.register(children, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Scanner) register(modules []ioc.Module, result *Result) error {
	result.Indexed = s.session.index.IndexInterfaces(modules)

	marker, err := s.registrar.RegisterByMarker(modules)
	result.Stats.Add(marker)
	if err != nil {
		return err
	}

	convention, err := s.registrar.RegisterByConvention(modules)
	result.Stats.Add(convention)
	if err != nil {
		return err
	}

	s.logger.Info("Registration complete.",
		"modules", len(modules),
		"indexed", result.Indexed,
		"initialized", result.Stats.Initialized,
		"marker", result.Stats.MarkerRegistrations,
		"convention", result.Stats.ConventionRegistrations,
	)
	return nil
}

func (s *Scanner) moduleFiles(location string) ([]string, error) {
	if location == "" {
		return nil, errors.NewPreconditionError("location", "must not be empty")
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, errors.NewPreconditionError("location", "directory does not exist: "+location)
	}
	if !info.IsDir() {
		return nil, errors.NewPreconditionError("location", "not a directory: "+location)
	}

	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, errors.WrapWithOperation("read", location, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !embedded.IsModuleResource(entry.Name(), s.loader.Extension()) {
			continue
		}
		paths = append(paths, filepath.Join(location, entry.Name()))
	}
	return paths, nil
}

func identities(modules []ioc.Module) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Identity())
	}
	return out
}
