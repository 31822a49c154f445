package api

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory copy of the post list with a TTL. Writes go to
// the store directly and must call Invalidate.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   Store
}

// NewPostCache creates a PostCache backed by the given Store. A ttl of zero
// or less disables caching.
func NewPostCache(s Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.ttl > 0 && c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// List returns all posts, loading from the store when the copy is stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) List(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
