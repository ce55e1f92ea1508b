package ioc

import (
	"bytes"
	"io"
	"sort"
	"sync"
)

// MemoryModule is a module assembled in process from reflect-backed
// descriptors and in-memory resources.
type MemoryModule struct {
	identity  string
	types     []TypeDescriptor
	resources map[string][]byte
}

// NewModule creates a module with the given identity and types.
func NewModule(identity string, types ...TypeDescriptor) *MemoryModule {
	return &MemoryModule{
		identity:  identity,
		types:     types,
		resources: make(map[string][]byte),
	}
}

// WithResource adds an embedded resource and returns the module.
func (m *MemoryModule) WithResource(name string, data []byte) *MemoryModule {
	m.resources[name] = data
	return m
}

func (m *MemoryModule) Identity() string {
	return m.identity
}

func (m *MemoryModule) Types() []TypeDescriptor {
	return m.types
}

// Resources returns resource names in lexical order.
func (m *MemoryModule) Resources() []string {
	names := make([]string, 0, len(m.resources))
	for name := range m.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemoryModule) OpenResource(name string) (io.ReadCloser, error) {
	data, ok := m.resources[name]
	if !ok {
		return nil, nil
	}
	return resourceReader{bytes.NewReader(data)}, nil
}

// resourceReader keeps Len and Size visible so readers can pre-size buffers.
type resourceReader struct {
	*bytes.Reader
}

func (resourceReader) Close() error { return nil }

// Catalog maps Go type names to descriptors so declarative modules can bind
// their types to real Go types and initializers.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]TypeDescriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]TypeDescriptor)}
}

// Export adds d under its full name, replacing any previous entry.
func (c *Catalog) Export(d TypeDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[d.FullName()] = d
}

// Lookup finds an exported descriptor by full name.
func (c *Catalog) Lookup(fullName string) (TypeDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[fullName]
	return d, ok
}

// Names returns the exported full names in lexical order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export describes T, adds it to c and returns the descriptor.
func Export[T any](c *Catalog, opts ...TypeOption) TypeDescriptor {
	d := Concrete[T](opts...)
	c.Export(d)
	return d
}
