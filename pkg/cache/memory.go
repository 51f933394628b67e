package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	expiresAt time.Time // zero = never
	value     V
}

func (i memoryItem[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Memory is a process-local cache. Expired entries are dropped on read and by
// a background sweep.
type Memory[V any] struct {
	items      map[string]memoryItem[V]
	now        func() time.Time
	done       chan struct{}
	defaultTTL time.Duration
	maxEntries int
	mu         sync.Mutex
	closed     bool
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	now             func() time.Time
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the TTL used when Set receives zero. Default: 5 minutes.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.defaultTTL = d }
}

// WithCleanupInterval sets the sweep interval; zero disables the sweeper. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.cleanupInterval = d }
}

// WithMaxEntries caps the number of entries; on overflow an arbitrary entry is evicted.
// Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxEntries = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemory creates an in-memory cache. Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := &memoryConfig{
		now:             time.Now,
		defaultTTL:      5 * time.Minute,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Memory[V]{
		items:      make(map[string]memoryItem[V]),
		now:        cfg.now,
		done:       make(chan struct{}),
		defaultTTL: cfg.defaultTTL,
		maxEntries: cfg.maxEntries,
	}
	if cfg.cleanupInterval > 0 {
		go m.sweep(cfg.cleanupInterval)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok || item.expired(m.now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}
	return item.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	item := memoryItem[V]{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	if _, exists := m.items[key]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		for k := range m.items {
			delete(m.items, k)
			break
		}
	}
	m.items[key] = item
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.items = make(map[string]memoryItem[V])
	return nil
}

func (m *Memory[V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := m.now()
			for k, item := range m.items {
				if item.expired(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
