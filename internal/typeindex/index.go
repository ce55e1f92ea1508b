// Package typeindex maps convention lookup keys to interface descriptors.
package typeindex

import (
	"sort"
	"strings"
	"sync"

	"github.com/toyz/iocscan/pkg/ioc"
)

// DefaultPrefix is the marker character that flags an interface for
// convention matching.
const DefaultPrefix = "I"

// LookupKey strips prefix from an interface name. It reports false when name
// does not carry the prefix or consists of the prefix alone.
func LookupKey(name, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(name, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// Index holds at most one interface descriptor per lookup key.
type Index struct {
	mu     sync.Mutex
	prefix string
	byKey  map[string]ioc.TypeDescriptor
}

// New creates an empty index. An empty prefix selects DefaultPrefix.
func New(prefix string) *Index {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Index{
		prefix: prefix,
		byKey:  make(map[string]ioc.TypeDescriptor),
	}
}

// Prefix returns the interface marker prefix.
func (i *Index) Prefix() string {
	return i.prefix
}

// IndexInterfaces records every prefixed interface across modules. A later
// interface collapsing to an existing key replaces it. It returns the number
// of descriptors written.
func (i *Index) IndexInterfaces(modules []ioc.Module) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	written := 0
	for _, m := range modules {
		for _, t := range m.Types() {
			if !t.IsInterface() {
				continue
			}
			key, ok := LookupKey(t.Name(), i.prefix)
			if !ok {
				continue
			}
			i.byKey[key] = t
			written++
		}
	}
	return written
}

// Get returns the interface stored under key.
func (i *Index) Get(key string) (ioc.TypeDescriptor, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	t, ok := i.byKey[key]
	return t, ok
}

// Take returns the interface stored under key and removes it.
func (i *Index) Take(key string) (ioc.TypeDescriptor, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	t, ok := i.byKey[key]
	if ok {
		delete(i.byKey, key)
	}
	return t, ok
}

// Len returns the number of indexed keys.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.byKey)
}

// Keys returns the indexed keys in lexical order.
func (i *Index) Keys() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	keys := make([]string, 0, len(i.byKey))
	for k := range i.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
