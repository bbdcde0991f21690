package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

func realPrediction(confidence float64) models.ThreatPrediction {
	return models.ThreatPrediction{IsRealThreat: true, Confidence: confidence, BERTScore: 0.8, NaiveBayesScore: 0.8, Reasoning: "test"}
}

func falsePrediction(confidence float64) models.ThreatPrediction {
	return models.ThreatPrediction{IsRealThreat: false, Confidence: confidence, BERTScore: 0.2, NaiveBayesScore: 0.3, Reasoning: "test"}
}

func TestCombineFalsePositiveShortCircuit(t *testing.T) {
	vuln := models.Vulnerability{ID: "v1", Name: "Noise", Severity: models.SeverityCritical, CVE: "CVE-2024-12345"}

	// Even a critical external score cannot override a confident
	// false-positive prediction.
	score := models.CVSSScore{BaseScore: 9.8, Severity: models.SeverityCritical, Version: models.CVSSVersion31}

	triaged := Combine(&vuln, score, falsePrediction(0.8))

	assert.Equal(t, models.SeverityFalsePositive, triaged.FinalSeverity)
	assert.Equal(t, 0, triaged.Priority)
	assert.False(t, triaged.ShouldInvestigate)
	assert.Contains(t, triaged.TriageReasoning, "false positive")
	assert.Contains(t, triaged.TriageReasoning, "80%")
}

func TestCombineShortCircuitNeedsConfidence(t *testing.T) {
	vuln := models.Vulnerability{ID: "v1", Name: "Maybe noise", Severity: models.SeverityHigh}
	score := models.CVSSScore{BaseScore: 7.0, Severity: models.SeverityHigh, Version: models.CVSSVersionEstimate}

	// Not-real at exactly 0.7 confidence does not short-circuit.
	triaged := Combine(&vuln, score, falsePrediction(0.7))
	assert.NotEqual(t, models.SeverityFalsePositive, triaged.FinalSeverity)
}

func TestCombineBucketAssignment(t *testing.T) {
	tests := []struct {
		name         string
		baseScore    float64
		external     models.Severity
		pred         models.ThreatPrediction
		wantSeverity models.Severity
	}{
		{
			name:      "critical by score",
			baseScore: 10.0, external: models.SeverityCritical,
			pred:         realPrediction(1.0), // combined = 7.0 + 3.0 = 10.0
			wantSeverity: models.SeverityCritical,
		},
		{
			name:      "high by score",
			baseScore: 7.0, external: models.SeverityHigh,
			pred:         realPrediction(0.95), // combined = 4.9 + 2.85 = 7.75
			wantSeverity: models.SeverityHigh,
		},
		{
			name:      "medium by score",
			baseScore: 5.0, external: models.SeverityMedium,
			pred:         realPrediction(0.6), // combined = 3.5 + 1.8 = 5.3
			wantSeverity: models.SeverityMedium,
		},
		{
			name:      "low by score",
			baseScore: 3.0, external: models.SeverityLow,
			pred:         falsePrediction(0.6), // combined = 2.1 + 1.2 = 3.3
			wantSeverity: models.SeverityLow,
		},
		{
			name:      "info when negligible",
			baseScore: 0.0, external: models.SeverityNone,
			pred:         falsePrediction(0.7), // combined = 0 + 0.9 = 0.9
			wantSeverity: models.SeverityInfo,
		},
		{
			name:      "external bucket lifts into critical",
			baseScore: 5.0, external: models.SeverityCritical,
			pred:         realPrediction(0.5), // combined = 3.5 + 1.5 = 5.0
			wantSeverity: models.SeverityCritical,
		},
		{
			name:      "external bucket never demotes",
			baseScore: 10.0, external: models.SeverityLow,
			pred:         realPrediction(0.5), // combined = 7.0 + 1.5 = 8.5
			wantSeverity: models.SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vuln := models.Vulnerability{ID: "v1", Name: "Finding", Severity: models.SeverityMedium}
			score := models.CVSSScore{BaseScore: tt.baseScore, Severity: tt.external}

			triaged := Combine(&vuln, score, tt.pred)
			assert.Equal(t, tt.wantSeverity, triaged.FinalSeverity)
		})
	}
}

func TestCombineBucketMonotonicInCombinedScore(t *testing.T) {
	vuln := models.Vulnerability{ID: "v1", Name: "Finding", Severity: models.SeverityMedium}
	pred := realPrediction(0.5) // fixed ML contribution of 1.5

	lastRank := -1
	for base := 0.0; base <= 10.0; base += 0.5 {
		score := models.CVSSScore{BaseScore: base, Severity: models.SeverityNone}
		triaged := Combine(&vuln, score, pred)

		rank := triaged.FinalSeverity.Rank()
		assert.GreaterOrEqual(t, rank, lastRank,
			"bucket must never drop as the combined score rises (base %.1f)", base)
		lastRank = rank
	}
}

func TestCombinePriorityAdjustments(t *testing.T) {
	score := models.CVSSScore{BaseScore: 7.0, Severity: models.SeverityHigh, Version: models.CVSSVersionEstimate}

	// Real threat, confident, with CVE: 70 + 7.5 + 10 + 5 = 92.5 -> 93
	withCVE := models.Vulnerability{ID: "v1", Name: "RCE", Severity: models.SeverityHigh, CVE: "CVE-2024-12345"}
	triaged := Combine(&withCVE, score, realPrediction(0.95))
	assert.Equal(t, 93, triaged.Priority)
	assert.True(t, triaged.ShouldInvestigate)

	// Same but without CVE: 70 + 7.5 + 10 = 87.5 -> 88
	noCVE := models.Vulnerability{ID: "v2", Name: "RCE", Severity: models.SeverityHigh}
	triaged = Combine(&noCVE, score, realPrediction(0.95))
	assert.Equal(t, 88, triaged.Priority)

	// Leaning false but not confidently enough to dismiss: penalized.
	// mlScore = 0.3 -> combined = 4.9 + 0.9 = 5.8; the external HIGH rating
	// keeps the bucket at HIGH: 70 - 12 = 58, minus 20 = 38
	triaged = Combine(&noCVE, score, falsePrediction(0.7))
	assert.Equal(t, models.SeverityHigh, triaged.FinalSeverity)
	assert.Equal(t, 38, triaged.Priority)
}

func TestCombinePriorityAlwaysInRange(t *testing.T) {
	preds := []models.ThreatPrediction{
		realPrediction(1.0),
		realPrediction(0.5),
		falsePrediction(0.7),
		falsePrediction(0.5),
	}
	scores := []models.CVSSScore{
		{BaseScore: 10.0, Severity: models.SeverityCritical},
		{BaseScore: 0.0, Severity: models.SeverityNone},
		{BaseScore: 5.0, Severity: models.SeverityCritical},
	}

	vuln := models.Vulnerability{ID: "v1", Name: "Finding", Severity: models.SeverityMedium, CVE: "CVE-2024-1"}
	for _, pred := range preds {
		for _, score := range scores {
			triaged := Combine(&vuln, score, pred)
			assert.GreaterOrEqual(t, triaged.Priority, 0)
			assert.LessOrEqual(t, triaged.Priority, 100)
		}
	}
}

func TestCombinePriorityClampedAtHundred(t *testing.T) {
	vuln := models.Vulnerability{ID: "v1", Name: "RCE", Severity: models.SeverityCritical, CVE: "CVE-2024-12345"}
	score := models.CVSSScore{BaseScore: 10.0, Severity: models.SeverityCritical, Version: models.CVSSVersion31}

	// 90 + 10 + 10 + 5 would be 115 without the clamp.
	triaged := Combine(&vuln, score, realPrediction(1.0))
	assert.Equal(t, 100, triaged.Priority)
}

func TestCombineInvestigateRules(t *testing.T) {
	// INFO never warrants investigation regardless of priority.
	vuln := models.Vulnerability{ID: "v1", Name: "Note", Severity: models.SeverityInfo}
	score := models.CVSSScore{BaseScore: 0.0, Severity: models.SeverityNone, Version: models.CVSSVersionEstimate}
	triaged := Combine(&vuln, score, falsePrediction(0.7))
	assert.Equal(t, models.SeverityInfo, triaged.FinalSeverity)
	assert.False(t, triaged.ShouldInvestigate)

	// LOW with priority under the floor stays unflagged.
	// mlScore = 0.3 -> combined = 2.1 + 0.9 = 3.0 -> LOW 10 + 20 = 30, minus 20 = 10
	vuln = models.Vulnerability{ID: "v2", Name: "Minor", Severity: models.SeverityLow}
	score = models.CVSSScore{BaseScore: 3.0, Severity: models.SeverityLow, Version: models.CVSSVersionEstimate}
	triaged = Combine(&vuln, score, falsePrediction(0.7))
	assert.Equal(t, models.SeverityLow, triaged.FinalSeverity)
	assert.Equal(t, 10, triaged.Priority)
	assert.False(t, triaged.ShouldInvestigate)
}

func TestCombineReasoningClauses(t *testing.T) {
	vuln := models.Vulnerability{ID: "v1", Name: "RCE", Severity: models.SeverityHigh, CVE: "CVE-2024-12345"}
	score := models.CVSSScore{BaseScore: 7.0, Severity: models.SeverityHigh, Version: models.CVSSVersion31}

	triaged := Combine(&vuln, score, realPrediction(0.95))

	assert.Contains(t, triaged.TriageReasoning, "maps to HIGH")
	assert.Contains(t, triaged.TriageReasoning, "real threat")
	assert.Contains(t, triaged.TriageReasoning, "CVE-2024-12345")
}
