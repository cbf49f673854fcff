// Package cache stores rendered reports keyed by source-file checksum and
// theme, so an unchanged file never pays for a rebuild. Backends: in-process
// memory (default) and Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
	"time"
)

// Backend stores rendered report documents.
type Backend interface {
	// Get returns the cached document, or false when absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores a document under key.
	Put(ctx context.Context, key string, doc []byte) error
	// Invalidate removes a key.
	Invalidate(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Key derives a cache key from the source file's content checksum and the
// render theme. Two byte-identical files share an entry; a theme switch
// does not serve the other theme's document.
func Key(path, theme string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	h.Write([]byte(theme))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Memory is the in-process backend with TTL expiry and a size cap.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
}

type entry struct {
	doc       []byte
	createdAt time.Time
	expiresAt time.Time
}

// NewMemory creates a memory backend holding at most maxSize documents,
// each for at most ttl.
func NewMemory(maxSize int, ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get implements Backend.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		m.mu.Lock()
		if !ok {
			m.misses++
		} else {
			delete(m.entries, key)
			m.misses++
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
	return e.doc, true, nil
}

// Put implements Backend.
func (m *Memory) Put(ctx context.Context, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxSize {
		m.evictOldest()
	}
	now := time.Now()
	m.entries[key] = &entry{
		doc:       doc,
		createdAt: now,
		expiresAt: now.Add(m.ttl),
	}
	return nil
}

// Invalidate implements Backend.
func (m *Memory) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]*entry)
	m.mu.Unlock()
	return nil
}

// Stats returns hit and miss counts.
func (m *Memory) Stats() (hits, misses int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}

// evictOldest removes the oldest entry. Caller holds the lock.
func (m *Memory) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range m.entries {
		if oldestKey == "" || e.createdAt.Before(oldest) {
			oldestKey, oldest = k, e.createdAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
