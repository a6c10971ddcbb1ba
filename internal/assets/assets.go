// Package assets loads rig documents into shared skeletons and clips.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/logger"
)

// ErrNotFound is returned when no search root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager resolves rig files against search roots and caches built rigs.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a search directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Resolve returns the path of name. Absolute or existing relative paths are
// used as is; otherwise each root is tried.
func (m *Manager) Resolve(name string) (string, error) {
	if fileExists(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		p := filepath.Join(m.roots[i], name)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Rig loads and builds the rig document name, or returns the cached one.
func (m *Manager) Rig(name string) (*Rig, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	if rig, ok := m.cache.Get(path); ok {
		return rig, nil
	}

	data, err := LoadRig(path)
	if err != nil {
		return nil, err
	}
	rig, err := Build(data)
	if err != nil {
		return nil, fmt.Errorf("rig %s: %w", path, err)
	}

	logger.Info("rig loaded",
		zap.String("path", path),
		zap.Int("joints", rig.Skeleton.JointCount()),
		zap.Int("clips", len(rig.Clips)))
	m.cache.Set(path, rig)
	return rig, nil
}

// Close drops all roots and cached rigs.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// Cache returns the rig cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is an in-memory cache of built rigs keyed by path.
type Cache struct {
	data map[string]*Rig
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*Rig),
	}
}

// Get retrieves a rig from cache.
func (c *Cache) Get(key string) (*Rig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rig, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return rig, ok
}

// Set stores a rig in cache.
func (c *Cache) Set(key string, rig *Rig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = rig
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*Rig)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
