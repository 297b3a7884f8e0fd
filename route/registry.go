package route

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultSurfaceName is used when a request does not name a display surface.
const DefaultSurfaceName = "*ghostwriter*"

// Registry holds the daemon's named display surfaces, created on first use
// and dropped after sitting idle for the configured TTL. A late response
// aimed at a dropped surface finds nothing and is discarded by its
// continuation.
type Registry struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, *Scratch]
}

// NewRegistry creates a registry whose surfaces expire after sitting idle
// for ttl. Touching a surface resets its clock.
func NewRegistry(ttl time.Duration) *Registry {
	c := ttlcache.New[string, *Scratch](
		ttlcache.WithTTL[string, *Scratch](ttl),
	)
	go c.Start()
	return &Registry{cache: c}
}

// Close stops the registry expiration loop.
func (r *Registry) Close() {
	r.cache.Stop()
}

// Acquire returns the surface with the given name, creating it if absent.
func (r *Registry) Acquire(name string) *Scratch {
	if name == "" {
		name = DefaultSurfaceName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if item := r.cache.Get(name); item != nil {
		return item.Value()
	}
	s := NewScratch()
	r.cache.Set(name, s, ttlcache.DefaultTTL)
	return s
}

// Lookup returns the surface with the given name, or nil if it does not
// exist or has expired.
func (r *Registry) Lookup(name string) *Scratch {
	if name == "" {
		name = DefaultSurfaceName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.cache.Get(name)
	if item == nil {
		return nil
	}
	return item.Value()
}
