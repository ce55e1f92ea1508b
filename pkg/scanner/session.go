package scanner

import (
	"sync"

	"github.com/toyz/iocscan/internal/embedded"
	"github.com/toyz/iocscan/internal/typeindex"
	"github.com/toyz/iocscan/internal/utils"
	"github.com/toyz/iocscan/pkg/ioc"
)

// Config holds scanning settings.
type Config struct {
	// InterfacePrefix marks interfaces eligible for convention matching.
	// Defaults to "I".
	InterfacePrefix string
}

// DefaultConfig returns the default scanning settings.
func DefaultConfig() Config {
	return Config{InterfacePrefix: typeindex.DefaultPrefix}
}

// Session is the shared scanning state: the identities already scanned, the
// interface index and the cache of embedded modules. Create one per process
// or per container and share it between scanners that should see each
// other's work.
type Session struct {
	// mu serialises scan operations so index population and both
	// registration passes run as one unit.
	mu sync.Mutex

	scanned *utils.Cache[string, struct{}]
	index   *typeindex.Index
	modules *embedded.Cache
}

// NewSession creates an empty session.
func NewSession(cfg Config) *Session {
	return &Session{
		scanned: utils.NewCache[string, struct{}](),
		index:   typeindex.New(cfg.InterfacePrefix),
		modules: embedded.NewCache(),
	}
}

// Scanned reports whether ScanModule already processed identity.
func (s *Session) Scanned(identity string) bool {
	return s.scanned.Has(identity)
}

// ScannedIdentities returns the scanned identities in scan order.
func (s *Session) ScannedIdentities() []string {
	return s.scanned.Keys()
}

// IndexedKeys returns the lookup keys still available for convention matching.
func (s *Session) IndexedKeys() []string {
	return s.index.Keys()
}

// EmbeddedModules returns the identities of cached embedded modules.
func (s *Session) EmbeddedModules() []string {
	return s.modules.Identities()
}

// Resolver exposes the embedded module cache as a module resolver.
func (s *Session) Resolver() ioc.Resolver {
	return s.modules
}

func (s *Session) markScanned(identity string) bool {
	return s.scanned.AddIfAbsent(identity, struct{}{})
}
