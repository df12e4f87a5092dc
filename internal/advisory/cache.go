package advisory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"enemyintel/internal/logging"
	"enemyintel/internal/reasoner"
)

// Backend persists entries. *Store is the production implementation.
type Backend interface {
	All(ctx context.Context) (map[string]string, error)
	Put(ctx context.Context, key, text string) error
}

// DefaultTimeout bounds one reasoning-service call.
const DefaultTimeout = 90 * time.Second

const persistTimeout = 5 * time.Second

// Cache is the advisory get-or-compute cache. Concurrent misses on one key
// share a single reasoning call; the call runs under its own timeout and is
// not cancelled when a waiting caller gives up.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string

	backend Backend
	client  reasoner.Client
	timeout time.Duration
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTimeout sets the per-call reasoning timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New loads every persisted entry from backend. backend may be nil for a
// memory-only cache; client may be nil, in which case misses always yield
// FallbackText.
func New(ctx context.Context, backend Backend, client reasoner.Client, opts ...Option) (*Cache, error) {
	c := &Cache{
		entries: make(map[string]string),
		backend: backend,
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if backend != nil {
		stored, err := backend.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load advisory cache: %w", err)
		}
		c.entries = stored
	}
	logging.Advisory("advisory cache ready: %d entries", len(c.entries))
	return c, nil
}

// Get returns a cached entry.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[key]
	return text, ok
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns all keys, sorted.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Update overwrites an entry and persists it immediately.
func (c *Cache) Update(ctx context.Context, key, text string) error {
	if c.backend != nil {
		if err := c.backend.Put(ctx, key, text); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.entries[key] = text
	c.mu.Unlock()
	logging.Advisory("updated advisory %s", key)
	return nil
}

// Advise returns the cached text for key, computing it from prompt on a
// miss. If ctx ends first the caller gets FallbackText while the call keeps
// running and fills the cache when it lands.
func (c *Cache) Advise(ctx context.Context, key, prompt string) string {
	if text, ok := c.Get(key); ok {
		requestsTotal.WithLabelValues(resultHit).Inc()
		logging.AdvisoryDebug("cache hit: %s", key)
		return text
	}
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.compute(key, prompt), nil
	})
	select {
	case r := <-ch:
		return r.Val.(string)
	case <-ctx.Done():
		requestsTotal.WithLabelValues(resultPending).Inc()
		logging.AdvisoryDebug("caller left before %s was ready: %v", key, ctx.Err())
		return FallbackText
	}
}

// AdviseAsync starts (or joins) the computation for key and returns at once.
func (c *Cache) AdviseAsync(key, prompt string) *Pending {
	p := &Pending{key: key, done: make(chan struct{})}
	if text, ok := c.Get(key); ok {
		requestsTotal.WithLabelValues(resultHit).Inc()
		p.text = text
		close(p.done)
		return p
	}
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.compute(key, prompt), nil
	})
	go func() {
		r := <-ch
		p.text = r.Val.(string)
		close(p.done)
	}()
	return p
}

// compute performs one reasoning call. Only real answers are cached.
func (c *Cache) compute(key, prompt string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			requestsTotal.WithLabelValues(resultFallback).Inc()
			logging.AdvisoryError("reasoning client panicked for %s: %v", key, r)
			text = FallbackText
		}
	}()
	// Another flight may have finished between the caller's miss and now.
	if text, ok := c.Get(key); ok {
		requestsTotal.WithLabelValues(resultHit).Inc()
		return text
	}
	if c.client == nil {
		requestsTotal.WithLabelValues(resultFallback).Inc()
		logging.AdvisoryDebug("no reasoning client; fallback for %s", key)
		return FallbackText
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	logging.Advisory("generating advisory for %s", key)
	text, err := c.client.Complete(ctx, prompt)
	if err != nil || text == "" {
		requestsTotal.WithLabelValues(resultFallback).Inc()
		logging.AdvisoryError("reasoning service failed for %s: %v", key, err)
		return FallbackText
	}

	requestsTotal.WithLabelValues(resultMiss).Inc()
	if c.backend != nil {
		putCtx, cancelPut := context.WithTimeout(context.Background(), persistTimeout)
		if err := c.backend.Put(putCtx, key, text); err != nil {
			logging.AdvisoryError("failed to persist %s: %v", key, err)
		}
		cancelPut()
	}
	c.mu.Lock()
	c.entries[key] = text
	c.mu.Unlock()
	return text
}

// Pending is an in-flight advisory lookup.
type Pending struct {
	key  string
	done chan struct{}
	text string
}

// Key is the cache key being computed.
func (p *Pending) Key() string { return p.key }

// Ready reports whether the result is available.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Result returns the text once ready.
func (p *Pending) Result() (string, bool) {
	if !p.Ready() {
		return "", false
	}
	return p.text, true
}

// Wait blocks until the result is ready or ctx ends.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// DebugInfo is a small view of the cache contents.
type DebugInfo struct {
	Size       int      `json:"cache_size"`
	SampleKeys []string `json:"sample_keys"`
}

// Debug reports the size and the first ten keys in sorted order.
func (c *Cache) Debug() DebugInfo {
	keys := c.Keys()
	if len(keys) > 10 {
		keys = keys[:10]
	}
	return DebugInfo{Size: c.Len(), SampleKeys: keys}
}
