package cvss

import (
	"context"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss/cache"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

// Estimator resolves a CVSS score for every finding. Lookup results are
// cached; lookup failures of any kind degrade to a severity-derived
// estimate, so Estimate never fails.
type Estimator struct {
	client Client
	cache  cache.Cache
	logger logger.Logger
	ttl    time.Duration
}

// NewEstimator creates an estimator backed by the given lookup client and cache.
func NewEstimator(client Client, scoreCache cache.Cache) *Estimator {
	return NewEstimatorWithLogger(client, scoreCache, logger.GetGlobalLogger())
}

// NewEstimatorWithLogger creates an estimator with a custom logger.
func NewEstimatorWithLogger(client Client, scoreCache cache.Cache, log logger.Logger) *Estimator {
	return &Estimator{
		client: client,
		cache:  scoreCache,
		logger: log,
		ttl:    cache.DefaultTTL,
	}
}

// SetTTL overrides how long fetched scores stay cached.
func (e *Estimator) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		e.ttl = ttl
	}
}

// Estimate returns the CVSS score for a finding. Records without a CVE skip
// the lookup entirely and get the severity-derived estimate.
func (e *Estimator) Estimate(ctx context.Context, vuln *models.Vulnerability) models.CVSSScore {
	if vuln.CVE == "" {
		return EstimateFromSeverity(vuln.Severity)
	}

	if e.cache != nil {
		cached, err := e.cache.Get(ctx, vuln.CVE)
		if err != nil {
			e.logger.Warn("CVSS cache read failed", "cve", vuln.CVE, "error", err)
		} else if cached != nil {
			return *cached
		}
	}

	if e.client == nil {
		return EstimateFromSeverity(vuln.Severity)
	}

	score, err := e.client.FetchScore(ctx, vuln.CVE)
	if err != nil {
		e.logger.Debug("CVSS lookup failed, falling back to estimate",
			"cve", vuln.CVE,
			"error", err,
		)
		return EstimateFromSeverity(vuln.Severity)
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, vuln.CVE, score, e.ttl); err != nil {
			e.logger.Warn("CVSS cache write failed", "cve", vuln.CVE, "error", err)
		}
	}

	return *score
}

// EstimateFromSeverity maps a reported severity to a fixed base score and
// bucket. Unrecognized severities get the MEDIUM mapping.
func EstimateFromSeverity(severity models.Severity) models.CVSSScore {
	score := models.CVSSScore{Version: models.CVSSVersionEstimate}

	switch severity {
	case models.SeverityCritical:
		score.BaseScore = 9.0
		score.Severity = models.SeverityCritical
	case models.SeverityHigh:
		score.BaseScore = 7.0
		score.Severity = models.SeverityHigh
	case models.SeverityLow:
		score.BaseScore = 3.0
		score.Severity = models.SeverityLow
	case models.SeverityInfo:
		score.BaseScore = 0.0
		score.Severity = models.SeverityNone
	default:
		score.BaseScore = 5.0
		score.Severity = models.SeverityMedium
	}

	return score
}
