package triage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss/cache"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

// newTestOrchestrator builds an orchestrator whose lookups always fail, so
// every score comes from the severity estimate.
func newTestOrchestrator() *Orchestrator {
	client := &cvss.MockClient{}
	est := cvss.NewEstimatorWithLogger(client, cache.NewMemoryCache(), logger.NewMockLogger())
	return NewOrchestratorWithLogger(est, logger.NewMockLogger())
}

func TestTriageEmptyBatch(t *testing.T) {
	o := newTestOrchestrator()

	result, err := o.Triage(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.RealThreats)
	assert.Equal(t, 0, result.FalsePositives)
	assert.Equal(t, 0, result.Critical+result.High+result.Medium+result.Low)
	assert.Empty(t, result.Vulnerabilities)
}

func TestTriageCountsAddUp(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{
		{ID: "v1", Name: "SQL Injection", Description: "User input directly concatenated", Severity: models.SeverityHigh, CVE: "CVE-2024-12345"},
		{ID: "v2", Name: "Deprecated Function", Description: "Using deprecated function in test file", Severity: models.SeverityLow, File: "tests/example.test.js"},
		{ID: "v3", Name: "Remote Code Execution", Severity: models.SeverityCritical, CVE: "CVE-2024-99999"},
		{ID: "v4", Name: "Informational note", Severity: models.SeverityInfo},
	}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, result.Total, result.RealThreats+result.FalsePositives)
	assert.Len(t, result.Vulnerabilities, 4)

	// INFO and FALSE_POSITIVE never land in the four severity buckets.
	bucketed := result.Critical + result.High + result.Medium + result.Low
	assert.Equal(t, result.Total-result.FalsePositives-countInfo(result), bucketed)
}

func countInfo(result *models.TriageResult) int {
	n := 0
	for i := range result.Vulnerabilities {
		if result.Vulnerabilities[i].FinalSeverity == models.SeverityInfo {
			n++
		}
	}
	return n
}

func TestTriageSortsByPriorityDescending(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{
		{ID: "low", Name: "Minor issue", Severity: models.SeverityLow},
		{ID: "crit", Name: "Remote Code Execution", Severity: models.SeverityCritical, CVE: "CVE-2024-1"},
		{ID: "med", Name: "Some issue", Severity: models.SeverityMedium},
	}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)

	for i := 1; i < len(result.Vulnerabilities); i++ {
		assert.GreaterOrEqual(t,
			result.Vulnerabilities[i-1].Priority,
			result.Vulnerabilities[i].Priority,
		)
	}
	assert.Equal(t, "crit", result.Vulnerabilities[0].ID)
}

func TestTriageStableSortPreservesInputOrder(t *testing.T) {
	o := newTestOrchestrator()
	o.SetMaxWorkers(4)

	// Identical records, differing only by ID, all land on the same
	// priority and must keep their input order.
	var vulns []models.Vulnerability
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		vulns = append(vulns, models.Vulnerability{ID: id, Name: "Same finding", Severity: models.SeverityMedium})
	}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)

	var order []string
	for i := range result.Vulnerabilities {
		order = append(order, result.Vulnerabilities[i].ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, order)
}

func TestTriageSQLInjectionScenario(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{{
		ID:          "v1",
		Name:        "SQL Injection",
		Description: "User input directly concatenated",
		Severity:    models.SeverityHigh,
		CVE:         "CVE-2024-12345",
	}}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)
	require.Len(t, result.Vulnerabilities, 1)

	triaged := result.Vulnerabilities[0]
	assert.Contains(t, []models.Severity{models.SeverityHigh, models.SeverityCritical}, triaged.FinalSeverity)
	assert.True(t, triaged.ShouldInvestigate)
	assert.Greater(t, triaged.Priority, 70)
	assert.Equal(t, 1, result.RealThreats)
}

func TestTriageDeprecatedTestFileScenario(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{{
		ID:          "v2",
		Name:        "Deprecated Function",
		Description: "Using deprecated function in test file",
		Severity:    models.SeverityLow,
		File:        "tests/example.test.js",
	}}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)
	require.Len(t, result.Vulnerabilities, 1)

	triaged := result.Vulnerabilities[0]
	assert.Contains(t, []models.Severity{models.SeverityFalsePositive, models.SeverityLow}, triaged.FinalSeverity)
	assert.False(t, triaged.ShouldInvestigate)
}

func TestTriageRejectsMalformedRecord(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{
		{ID: "v1", Name: "Valid", Severity: models.SeverityHigh},
		{ID: "", Name: "Missing id", Severity: models.SeverityHigh},
	}

	_, err := o.Triage(context.Background(), vulns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
}

func TestTriageLookupFailureNeverSurfaces(t *testing.T) {
	// Every record carries a CVE, every lookup fails; triage must still
	// complete for the whole batch.
	o := newTestOrchestrator()

	var vulns []models.Vulnerability
	for i := 0; i < 20; i++ {
		vulns = append(vulns, models.Vulnerability{
			ID:       models.GenerateVulnerabilityID("finding", "CVE-2024-1000", "src/app.js", i),
			Name:     "Authentication bypass",
			Severity: models.SeverityHigh,
			CVE:      "CVE-2024-1000",
		})
	}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Total)
	for i := range result.Vulnerabilities {
		assert.True(t, result.Vulnerabilities[i].CVSS.Estimated())
	}
}

func TestTriageWorkerCountDoesNotChangeResult(t *testing.T) {
	vulns := []models.Vulnerability{
		{ID: "v1", Name: "SQL Injection", Severity: models.SeverityHigh, CVE: "CVE-2024-1"},
		{ID: "v2", Name: "XSS", Severity: models.SeverityMedium},
		{ID: "v3", Name: "Deprecated helper", Severity: models.SeverityLow, File: "tests/util.test.js"},
		{ID: "v4", Name: "Buffer overflow", Severity: models.SeverityCritical},
	}

	sequential := newTestOrchestrator()
	sequential.SetMaxWorkers(1)
	seqResult, err := sequential.Triage(context.Background(), vulns)
	require.NoError(t, err)

	parallel := newTestOrchestrator()
	parallel.SetMaxWorkers(8)
	parResult, err := parallel.Triage(context.Background(), vulns)
	require.NoError(t, err)

	assert.Equal(t, seqResult, parResult)
}

func TestTriageResultSerializes(t *testing.T) {
	o := newTestOrchestrator()

	vulns := []models.Vulnerability{
		{ID: "v1", Name: "SQL Injection", Severity: models.SeverityHigh, CVE: "CVE-2024-12345"},
	}

	result, err := o.Triage(context.Background(), vulns)
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded models.TriageResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *result, decoded)
}
