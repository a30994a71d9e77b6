// Package catalog implements the process-wide graph catalog (§9's "only
// process-wide mutable state"): a name -> store handle map with
// commit-style updates from mutate mode.
package catalog

import (
	"sort"
	"sync"

	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store"
)

// Catalog is concurrent-safe for Get/Set/List (reader-writer discipline);
// writes happen only at mutate-mode commit time, per spec §9.
type Catalog struct {
	mu     sync.RWMutex
	stores map[string]*store.GraphStore
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{stores: make(map[string]*store.GraphStore)}
}

// Get returns the store registered under name, or false if none is.
func (c *Catalog) Get(name string) (*store.GraphStore, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.stores[name]
	return s, ok
}

// Set registers s under name, replacing any store previously there. This
// is the commit step after mutate mode: atomically swap the name to the
// new (structurally cloned) store handle so concurrent readers see either
// the old or the new store in full, never a partial one.
func (c *Catalog) Set(name string, s *store.GraphStore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores[name] = s
}

// LoadOrErr returns the store registered under name, or a gdserr.InvalidGraph
// error if the catalog has nothing by that name (spec §6's `load_or_err`).
func (c *Catalog) LoadOrErr(name string) (*store.GraphStore, error) {
	s, ok := c.Get(name)
	if !ok {
		return nil, gdserr.InvalidGraph("no graph named %q in the catalog", name)
	}
	return s, nil
}

// List returns every registered graph name, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.stores))
	for name := range c.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drop removes name from the catalog, reporting whether it was present.
func (c *Catalog) Drop(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.stores[name]; !ok {
		return false
	}
	delete(c.stores, name)
	return true
}
