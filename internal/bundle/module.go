package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"

	"github.com/toyz/iocscan/pkg/ioc"
)

// Module is a loaded bundle.
type Module struct {
	manifest *Manifest
	source   string
	types    []ioc.TypeDescriptor
	entries  map[string]*zip.File
	names    []string
	loader   *Loader
	resolver ioc.Resolver
}

func (m *Module) Identity() string {
	return m.manifest.Identity
}

func (m *Module) Types() []ioc.TypeDescriptor {
	return m.types
}

// Resources returns archive entries other than the manifest, in lexical order.
func (m *Module) Resources() []string {
	return m.names
}

// OpenResource opens an archive entry. Unknown names yield a nil reader.
func (m *Module) OpenResource(name string) (io.ReadCloser, error) {
	f, ok := m.entries[name]
	if !ok {
		return nil, nil
	}
	return f.Open()
}

// Manifest returns the decoded manifest.
func (m *Module) Manifest() *Manifest {
	return m.manifest
}

// Source is the path the module was loaded from, empty for byte payloads.
func (m *Module) Source() string {
	return m.source
}

// ResolveType finds the type named by ref. Unqualified references and
// references to this module's identity resolve locally.
func (m *Module) ResolveType(ref string) (ioc.TypeDescriptor, error) {
	identity, name := SplitRef(ref)

	var target ioc.Module = m
	if identity != "" && identity != m.Identity() {
		var ok bool
		target, ok = m.lookupModule(identity)
		if !ok {
			return nil, fmt.Errorf("module '%s' referenced by '%s' is not loaded", identity, ref)
		}
	}

	for _, t := range target.Types() {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("type '%s' not found in module '%s'", name, target.Identity())
}

func (m *Module) lookupModule(identity string) (ioc.Module, bool) {
	if mod, ok := m.loader.lookup(identity); ok {
		return mod, true
	}
	if m.resolver != nil {
		return m.resolver.ResolveModule(identity)
	}
	return nil, false
}

func (m *Module) index(files []*zip.File) {
	m.entries = make(map[string]*zip.File, len(files))
	for _, f := range files {
		if f.Name == ManifestName || f.FileInfo().IsDir() {
			continue
		}
		m.entries[f.Name] = f
		m.names = append(m.names, f.Name)
	}
	sort.Strings(m.names)
}
