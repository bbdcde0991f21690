package cache

import (
	"context"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// MockCache implements Cache for testing.
type MockCache struct {
	GetFunc     func(ctx context.Context, cveID string) (*models.CVSSScore, error)
	SetFunc     func(ctx context.Context, cveID string, score *models.CVSSScore, ttl time.Duration) error
	DeleteFunc  func(ctx context.Context, cveID string) error
	CleanupFunc func(ctx context.Context) error
	StatsFunc   func(ctx context.Context) (*Stats, error)
}

// NewMockCache creates a new mock cache for testing.
func NewMockCache() *MockCache {
	return &MockCache{}
}

// Get implements Cache.
func (m *MockCache) Get(ctx context.Context, cveID string) (*models.CVSSScore, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, cveID)
	}
	return nil, nil
}

// Set implements Cache.
func (m *MockCache) Set(ctx context.Context, cveID string, score *models.CVSSScore, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, cveID, score, ttl)
	}
	return nil
}

// Delete implements Cache.
func (m *MockCache) Delete(ctx context.Context, cveID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, cveID)
	}
	return nil
}

// Cleanup implements Cache.
func (m *MockCache) Cleanup(ctx context.Context) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx)
	}
	return nil
}

// GetStats implements Cache.
func (m *MockCache) GetStats(ctx context.Context) (*Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &Stats{}, nil
}
