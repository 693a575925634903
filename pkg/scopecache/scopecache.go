// Package scopecache remembers which conventional commit scopes were used
// for which directories, so repeated commits in one area stay consistent.
package scopecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	cacheFileName = "scopes.json"

	// maxDirs bounds the cache; least-used directories are evicted on save.
	maxDirs = 500
)

// Stats summarizes cache contents and session usage.
type Stats struct {
	Dirs    int
	Records int
	Hits    int
	Misses  int
}

// Cache maps directory prefixes to scope usage counts. It is persisted as
// JSON under the user cache directory, one file per machine.
type Cache struct {
	mu     sync.Mutex
	path   string
	dirty  bool
	hits   int
	misses int
	// Scopes[dir][scope] = times that scope was committed for dir.
	Scopes map[string]map[string]int `json:"scopes"`
}

// Load reads the cache from dir, returning an empty cache when the file
// does not exist yet.
func Load(dir string) (*Cache, error) {
	c := &Cache{
		path:   filepath.Join(dir, cacheFileName),
		Scopes: map[string]map[string]int{},
	}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scope cache: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		// A corrupt cache is not worth failing a commit over.
		log.Warn().Err(err).Str("path", c.path).Msg("discarding corrupt scope cache")
		c.Scopes = map[string]map[string]int{}
	}
	if c.Scopes == nil {
		c.Scopes = map[string]map[string]int{}
	}
	return c, nil
}

// NewInMemory returns a cache that is never persisted, for when no cache
// directory is usable. Save is a no-op.
func NewInMemory() *Cache {
	return &Cache{Scopes: map[string]map[string]int{}}
}

// Record notes that scope was used for dir.
func (c *Cache) Record(dir, scope string) {
	if dir == "" || scope == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Scopes[dir] == nil {
		c.Scopes[dir] = map[string]int{}
	}
	c.Scopes[dir][scope]++
	c.dirty = true
}

// Best returns the most frequently used scope for dir, or "" when dir has
// no history.
func (c *Cache) Best(dir string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	best, bestCount := "", 0
	for scope, count := range c.Scopes[dir] {
		if count > bestCount || (count == bestCount && scope < best) {
			best, bestCount = scope, count
		}
	}
	if best == "" {
		c.misses++
	} else {
		c.hits++
	}
	return best
}

// Stats reports cache size and this session's hit/miss counts.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Dirs: len(c.Scopes), Hits: c.hits, Misses: c.misses}
	for _, scopes := range c.Scopes {
		for _, n := range scopes {
			s.Records += n
		}
	}
	return s
}

// Save writes the cache if it changed since loading. In-memory caches are
// never written.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.path == "" {
		return nil
	}
	c.evictLocked()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scope cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scope cache: %w", err)
	}
	c.dirty = false
	return nil
}

// evictLocked drops the least-used directories until the cache fits
// maxDirs. Caller holds the lock.
func (c *Cache) evictLocked() {
	for len(c.Scopes) > maxDirs {
		victim, victimCount := "", int(^uint(0)>>1)
		for dir, scopes := range c.Scopes {
			total := 0
			for _, n := range scopes {
				total += n
			}
			if total < victimCount || (total == victimCount && dir < victim) {
				victim, victimCount = dir, total
			}
		}
		delete(c.Scopes, victim)
	}
}

// Clear deletes the cache file and forgets all learned scopes.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Scopes = map[string]map[string]int{}
	c.dirty = false
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove scope cache: %w", err)
	}
	return nil
}
