// Package cache provides session caches shared by request handlers.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
)

type sessionEntry struct {
	session   *identity.CachedSession
	expiresAt time.Time
}

// InMemorySessionCache keeps cached sessions in process memory with a TTL.
// It is suitable for single-instance deployments and testing.
type InMemorySessionCache struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionCache creates a cache whose entries live for ttl.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySessionCache(ttl time.Duration) *InMemorySessionCache {
	c := &InMemorySessionCache{
		entries:  make(map[string]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a deep copy of the cached session, or nil when absent or expired
func (c *InMemorySessionCache) Get(ctx context.Context, token string) (*identity.CachedSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[token]
	if !ok || !time.Now().Before(e.expiresAt) {
		return nil, nil
	}
	return e.session.Clone(), nil
}

// Set stores a deep copy of the session under its token
func (c *InMemorySessionCache) Set(ctx context.Context, session *identity.CachedSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[session.Token] = sessionEntry{
		session:   session.Clone(),
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete evicts a token
func (c *InMemorySessionCache) Delete(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, token)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemorySessionCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemorySessionCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemorySessionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for token, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, token)
		}
	}
}

// Size returns the number of entries, expired ones included
func (c *InMemorySessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
