package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/toyz/iocscan/internal/annotations"
	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/pkg/ioc"
)

// Loader loads bundles from files and byte payloads. Every module it loads is
// remembered by identity so later cross-module references resolve without
// going through the caller's resolver.
type Loader struct {
	catalog   *ioc.Catalog
	extension string
	logger    *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*Module
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCatalog sets the catalog consulted for type bindings.
func WithCatalog(c *ioc.Catalog) LoaderOption {
	return func(l *Loader) {
		l.catalog = c
	}
}

// WithExtension overrides the bundle file extension.
func WithExtension(ext string) LoaderOption {
	return func(l *Loader) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l.extension = ext
	}
}

// WithLoaderLogger sets the structured logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a bundle loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		catalog:   ioc.NewCatalog(),
		extension: DefaultExtension,
		loaded:    make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

func (l *Loader) Extension() string {
	return l.extension
}

// LoadFromPath loads the bundle at path.
func (l *Loader) LoadFromPath(path string, resolver ioc.Resolver) (ioc.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	return l.record(l.load(data, path, resolver))
}

// LoadFromBytes loads a bundle held in memory.
func (l *Loader) LoadFromBytes(data []byte, resolver ioc.Resolver) (ioc.Module, error) {
	return l.record(l.load(data, "", resolver))
}

// record remembers m by identity. A later load of the same identity wins.
func (l *Loader) record(m *Module, err error) (ioc.Module, error) {
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.loaded[m.Identity()] = m
	l.mu.Unlock()
	return m, nil
}

func (l *Loader) lookup(identity string) (*Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.loaded[identity]
	return m, ok
}

func (l *Loader) load(data []byte, source string, resolver ioc.Resolver) (*Module, error) {
	label := source
	if label == "" {
		label = "<memory>"
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewLoadError(label, err)
	}

	manifest, err := readManifest(zr)
	if err != nil {
		return nil, err
	}

	m := &Module{
		manifest: manifest,
		source:   source,
		loader:   l,
		resolver: resolver,
	}
	m.index(zr.File)

	for i, spec := range manifest.Types {
		d, err := l.declare(m, spec)
		if err != nil {
			return nil, errors.NewManifestError(fmt.Sprintf("types[%d]", i), err.Error()).
				WithOrigin(errors.Origin{Module: manifest.Identity, Type: spec.Name})
		}
		m.types = append(m.types, d)
	}

	l.logger.Debug("Bundle loaded.", "identity", m.Identity(), "source", label, "types", len(m.types), "resources", len(m.names))
	return m, nil
}

func (l *Loader) declare(m *Module, spec TypeSpec) (*declaredType, error) {
	d := &declaredType{module: m, spec: spec}

	if spec.Marker != "" {
		marker, err := annotations.ParseMarker(spec.Marker)
		if err != nil {
			return nil, err
		}
		d.marker = marker
	}

	if spec.Binding != "" {
		bound, ok := l.catalog.Lookup(spec.Binding)
		if !ok {
			return nil, fmt.Errorf("binding '%s' is not exported by the catalog", spec.Binding)
		}
		if bound.IsInterface() != (spec.Kind == KindInterface) {
			return nil, fmt.Errorf("binding '%s' does not match kind '%s'", spec.Binding, spec.Kind)
		}
		d.bound = bound
	}
	return d, nil
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == ManifestName {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, errors.NewManifestError("", fmt.Sprintf("bundle has no %s", ManifestName)).
			WithSuggestion("build bundles with 'iocscan pack'")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, errors.NewLoadError(ManifestName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.NewLoadError(ManifestName, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if err := manifest.Check(); err != nil {
		return nil, err
	}
	return manifest, nil
}
