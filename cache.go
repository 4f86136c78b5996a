package ogimage

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// RenderCache keeps the composed OG image in memory. An entry is reused
// until the TTL expires or the source logo's modification time changes.
type RenderCache struct {
	mu      sync.RWMutex
	cfg     Config
	ttl     time.Duration
	store   *Store
	result  *Result
	modTime time.Time
	fetched time.Time
}

// NewRenderCache creates a RenderCache for cfg. When store is non-nil every
// fresh render is appended to its history.
func NewRenderCache(cfg Config, store *Store, ttl time.Duration) *RenderCache {
	cfg.setDefaults()
	return &RenderCache{cfg: cfg, store: store, ttl: ttl}
}

// Config returns the image configuration the cache renders with.
func (c *RenderCache) Config() Config {
	return c.cfg
}

func (c *RenderCache) valid(modTime time.Time) bool {
	return c.result != nil && c.modTime.Equal(modTime) && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next Get triggers a fresh render.
func (c *RenderCache) Invalidate() {
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()
}

// Get returns the current render, composing it again if stale.
func (c *RenderCache) Get() (Result, error) {
	fi, err := os.Stat(c.cfg.LogoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%s %w", c.cfg.LogoPath, ErrMissingInput)
		}
		return Result{}, err
	}
	modTime := fi.ModTime()

	c.mu.RLock()
	if c.valid(modTime) {
		res := *c.result
		c.mu.RUnlock()
		return res, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid(modTime) {
		return *c.result, nil
	}
	res, err := Render(c.cfg)
	if err != nil {
		return Result{}, err
	}
	if c.store != nil {
		if _, err := c.store.SaveRender(NewRenderRecord(c.cfg.LogoPath, res)); err != nil {
			return Result{}, fmt.Errorf("record render: %w", err)
		}
	}
	c.result = &res
	c.modTime = modTime
	c.fetched = time.Now()
	return res, nil
}
