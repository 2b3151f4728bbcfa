package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

// Snapshot is one perceived screen.
type Snapshot struct {
	Width, Height int
	Catalog       model.Catalog
	taken         time.Time
}

// CatalogCache keeps the last snapshot for ttl. A ttl of 0 disables caching.
// The caller must hold the provider mutex.
type CatalogCache struct {
	mu      sync.Mutex
	entry   *Snapshot
	ttl     time.Duration
	minDist float64
	dir     string
}

// NewCatalogCache dumps hierarchies into dir.
func NewCatalogCache(ttl time.Duration, minDist float64, dir string) *CatalogCache {
	return &CatalogCache{ttl: ttl, minDist: minDist, dir: dir}
}

// Snapshot returns the cached snapshot if it is fresh, otherwise reads the
// device.
func (c *CatalogCache) Snapshot(ctx context.Context, p *platform.Provider) (*Snapshot, error) {
	c.mu.Lock()
	if c.ttl > 0 && c.entry != nil && time.Since(c.entry.taken) < c.ttl {
		snap := c.entry
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	if p.Screen == nil || p.TreeReader == nil {
		return nil, fmt.Errorf("hierarchy reading not available for this device")
	}
	w, h, err := p.Screen.Size(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := p.TreeReader.ReadTree(ctx, "catalog", c.dir)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Width:   w,
		Height:  h,
		Catalog: model.BuildCatalog(tree.Nodes, c.minDist),
		taken:   time.Now(),
	}

	c.mu.Lock()
	c.entry = snap
	c.mu.Unlock()
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}
