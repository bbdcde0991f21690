package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"critical", SeverityCritical},
		{"CRITICAL", SeverityCritical},
		{"High", SeverityHigh},
		{"moderate", SeverityMedium},
		{" medium ", SeverityMedium},
		{"low", SeverityLow},
		{"informational", SeverityInfo},
		{"negligible", SeverityInfo},
		{"bogus", SeverityUnknown},
		{"", SeverityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSeverity(tt.input))
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, SeverityLow.Rank(), SeverityInfo.Rank())
	assert.Equal(t, 0, SeverityFalsePositive.Rank())
}

func TestGenerateVulnerabilityID(t *testing.T) {
	id := GenerateVulnerabilityID("SQL Injection", "CVE-2024-12345", "src/db.js", 42)
	assert.Len(t, id, 16)

	// Deterministic for same inputs
	assert.Equal(t, id, GenerateVulnerabilityID("SQL Injection", "CVE-2024-12345", "src/db.js", 42))

	// Different inputs produce different IDs
	assert.NotEqual(t, id, GenerateVulnerabilityID("SQL Injection", "CVE-2024-12345", "src/db.js", 43))
}

func TestVulnerabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		vuln    Vulnerability
		wantErr string
	}{
		{
			name: "valid record",
			vuln: Vulnerability{ID: "v1", Name: "XSS", Severity: SeverityHigh},
		},
		{
			name:    "missing id",
			vuln:    Vulnerability{Name: "XSS", Severity: SeverityHigh},
			wantErr: "id",
		},
		{
			name:    "missing name",
			vuln:    Vulnerability{ID: "v1", Severity: SeverityHigh},
			wantErr: "name",
		},
		{
			name:    "missing severity",
			vuln:    Vulnerability{ID: "v1", Name: "XSS"},
			wantErr: "severity",
		},
		{
			name:    "confidence out of range",
			vuln:    Vulnerability{ID: "v1", Name: "XSS", Severity: SeverityHigh, Confidence: 1.5},
			wantErr: "confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vuln.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCombinedText(t *testing.T) {
	v := Vulnerability{Name: "SQL Injection", Description: "User INPUT concatenated", Message: "Fix NOW"}
	text := v.CombinedText()
	assert.Equal(t, "sql injection user input concatenated fix now", text)
}

func TestCVSSScoreEstimated(t *testing.T) {
	fetched := CVSSScore{BaseScore: 9.8, Severity: SeverityCritical, Version: CVSSVersion31}
	assert.False(t, fetched.Estimated())

	estimated := CVSSScore{BaseScore: 7.0, Severity: SeverityHigh, Version: CVSSVersionEstimate}
	assert.True(t, estimated.Estimated())
}

func TestTriageResultRoundTrip(t *testing.T) {
	result := TriageResult{
		Total:          2,
		RealThreats:    1,
		FalsePositives: 1,
		High:           1,
		Vulnerabilities: []TriagedVulnerability{
			{
				Vulnerability: Vulnerability{ID: "v1", Name: "SQL Injection", Severity: SeverityHigh, CVE: "CVE-2024-12345"},
				CVSS:          CVSSScore{BaseScore: 8.1, Severity: SeverityHigh, Version: CVSSVersion31, Vector: "CVSS:3.1/AV:N/AC:L"},
				Prediction: ThreatPrediction{
					IsRealThreat:    true,
					Confidence:      0.92,
					BERTScore:       0.85,
					NaiveBayesScore: 0.8,
					Reasoning:       "Known CVE identified.",
				},
				FinalSeverity:     SeverityHigh,
				Priority:          84,
				ShouldInvestigate: true,
				TriageReasoning:   "Classified as HIGH.",
			},
			{
				Vulnerability: Vulnerability{ID: "v2", Name: "Deprecated Function", Severity: SeverityLow, File: "tests/example.test.js"},
				CVSS:          CVSSScore{BaseScore: 3.0, Severity: SeverityLow, Version: CVSSVersionEstimate},
				Prediction:    ThreatPrediction{Confidence: 0.88, BERTScore: 0.2, NaiveBayesScore: 0.3, Reasoning: "Low scores."},
				FinalSeverity: SeverityFalsePositive,
			},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded TriageResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, result, decoded)
}
