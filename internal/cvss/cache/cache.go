// Package cache provides TTL caching for external CVSS lookups.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// DefaultTTL is how long a fetched score stays valid.
const DefaultTTL = 24 * time.Hour

// ErrNilScore indicates an attempt to cache a nil score.
var ErrNilScore = errors.New("nil score")

// Cache defines the interface for caching CVSS scores keyed by CVE ID.
type Cache interface {
	// Get returns the cached score for a CVE, or nil on a miss. Expired
	// entries count as misses.
	Get(ctx context.Context, cveID string) (*models.CVSSScore, error)

	// Set stores a score for a CVE with the given TTL.
	Set(ctx context.Context, cveID string, score *models.CVSSScore, ttl time.Duration) error

	// Delete removes a cached score.
	Delete(ctx context.Context, cveID string) error

	// Cleanup evicts all expired entries.
	Cleanup(ctx context.Context) error

	// GetStats returns cache statistics.
	GetStats(ctx context.Context) (*Stats, error)
}

// Stats contains cache statistics.
type Stats struct {
	// TotalEntries is the number of live cached entries
	TotalEntries int

	// HitRate is the cache hit rate (0-1)
	HitRate float64

	// TotalHits is the number of cache hits
	TotalHits int64

	// TotalMisses is the number of cache misses
	TotalMisses int64

	// OldestEntry is the age of the oldest live entry
	OldestEntry time.Duration
}

// CacheError represents a cache-specific error.
type CacheError struct {
	Err error
	Op  string
	Key string
}

func (e *CacheError) Error() string {
	return "cache " + e.Op + " failed for key " + e.Key + ": " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
