// Package cvss attaches standardized severity scores to findings, either by
// querying an external scoring service or by estimating from the reported
// severity.
package cvss

import (
	"context"
	"errors"
	"sync"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// ErrNotFound indicates the scoring service has no record for the CVE.
var ErrNotFound = errors.New("cve not found")

// ErrNoMetrics indicates the record exists but carries no usable CVSS data.
var ErrNoMetrics = errors.New("cve record has no cvss metrics")

// Client fetches standardized scores from an external scoring service.
// Implementations must honor the context deadline.
type Client interface {
	FetchScore(ctx context.Context, cveID string) (*models.CVSSScore, error)
}

// MockClient implements Client for testing. Safe for concurrent use, since
// the estimator may be called from several triage workers at once.
type MockClient struct {
	FetchScoreFunc func(ctx context.Context, cveID string) (*models.CVSSScore, error)

	// Calls records every CVE ID fetched, in order. Guarded by mu.
	Calls []string
	mu    sync.Mutex
}

// FetchScore implements Client.
func (m *MockClient) FetchScore(ctx context.Context, cveID string) (*models.CVSSScore, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, cveID)
	m.mu.Unlock()
	if m.FetchScoreFunc != nil {
		return m.FetchScoreFunc(ctx, cveID)
	}
	return nil, ErrNotFound
}

// CallCount reports how many fetches have been recorded.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
