package middleware

import (
	"sync"
	"time"
)

// cachedResponse is a stored 2xx response replayed for a repeated key.
type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	StoredAt    time.Time
}

// idempotencyCache holds replayable responses for a TTL. When full, new
// responses are not stored rather than evicting live ones.
type idempotencyCache struct {
	mu       sync.RWMutex
	items    map[string]*cachedResponse
	ttl      time.Duration
	capacity int
	now      func() time.Time
	stopCh   chan struct{}
	once     sync.Once
}

func newIdempotencyCache(ttl time.Duration, capacity int) *idempotencyCache {
	c := &idempotencyCache{
		items:    make(map[string]*cachedResponse),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *idempotencyCache) Get(key string) (*cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || c.now().Sub(resp.StoredAt) > c.ttl {
		return nil, false
	}
	return resp, true
}

func (c *idempotencyCache) Set(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.capacity > 0 && len(c.items) >= c.capacity {
		c.evictExpiredLocked()
		if len(c.items) >= c.capacity {
			return
		}
	}
	resp.StoredAt = c.now()
	c.items[key] = resp
}

func (c *idempotencyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *idempotencyCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.evictExpiredLocked()
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

func (c *idempotencyCache) evictExpiredLocked() {
	now := c.now()
	for key, resp := range c.items {
		if now.Sub(resp.StoredAt) > c.ttl {
			delete(c.items, key)
		}
	}
}

func (c *idempotencyCache) Stop() {
	c.once.Do(func() { close(c.stopCh) })
}
