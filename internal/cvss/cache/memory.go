package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

type memoryEntry struct {
	score     models.CVSSScore
	createdAt time.Time
	expiresAt time.Time
}

// MemoryCache implements Cache with an in-process map. Safe for concurrent
// use; duplicate concurrent lookups for the same key both populate the
// cache with equivalent data, which is tolerable.
type MemoryCache struct {
	entries map[string]memoryEntry
	stats   Stats
	clock   func() time.Time
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		clock:   time.Now,
	}
}

// Get retrieves a cached score. Expired entries are evicted lazily and
// reported as misses.
func (m *MemoryCache) Get(_ context.Context, cveID string) (*models.CVSSScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[cveID]
	if !ok {
		m.stats.TotalMisses++
		return nil, nil
	}

	if m.clock().After(entry.expiresAt) {
		delete(m.entries, cveID)
		m.stats.TotalMisses++
		return nil, nil
	}

	m.stats.TotalHits++
	score := entry.score
	return &score, nil
}

// Set stores a score with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func (m *MemoryCache) Set(_ context.Context, cveID string, score *models.CVSSScore, ttl time.Duration) error {
	if score == nil {
		return &CacheError{Op: "set", Key: cveID, Err: ErrNilScore}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	m.entries[cveID] = memoryEntry{
		score:     *score,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Delete removes a cached score.
func (m *MemoryCache) Delete(_ context.Context, cveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, cveID)
	return nil
}

// Cleanup evicts all expired entries.
func (m *MemoryCache) Cleanup(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	return nil
}

// GetStats returns cache statistics.
func (m *MemoryCache) GetStats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := m.stats
	stats.TotalEntries = len(m.entries)

	now := m.clock()
	for _, entry := range m.entries {
		if age := now.Sub(entry.createdAt); age > stats.OldestEntry {
			stats.OldestEntry = age
		}
	}

	if total := stats.TotalHits + stats.TotalMisses; total > 0 {
		stats.HitRate = float64(stats.TotalHits) / float64(total)
	}

	return &stats, nil
}

// StartJanitor sweeps expired entries every interval until the context is
// canceled. The TTL is an expiry policy, not a concurrency concern, so the
// sweep only reclaims memory that lazy eviction has not touched yet.
func (m *MemoryCache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = m.Cleanup(ctx)
			}
		}
	}()
}
