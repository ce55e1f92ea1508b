package embedded

import (
	"github.com/toyz/iocscan/internal/utils"
	"github.com/toyz/iocscan/pkg/ioc"
)

// Cache remembers modules loaded from embedded payloads by identity. It is
// handed to the module loader as the resolution fallback for cross-module
// references made while later modules are loaded.
type Cache struct {
	modules *utils.Cache[string, ioc.Module]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{modules: utils.NewCache[string, ioc.Module]()}
}

// ResolveModule implements ioc.Resolver.
func (c *Cache) ResolveModule(identity string) (ioc.Module, bool) {
	return c.modules.Get(identity)
}

// Add caches m unless its identity is already present.
func (c *Cache) Add(m ioc.Module) bool {
	return c.modules.AddIfAbsent(m.Identity(), m)
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	return c.modules.Size()
}

// Identities returns cached identities in load order.
func (c *Cache) Identities() []string {
	return c.modules.Keys()
}
