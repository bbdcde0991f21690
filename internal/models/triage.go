package models

// TriagedVulnerability wraps an input record with its external score, the
// classifier prediction, and the final triage decision. It is created once
// per input record and never mutated after classification.
type TriagedVulnerability struct {
	Vulnerability

	CVSS              CVSSScore        `json:"cvss"`
	Prediction        ThreatPrediction `json:"ml_prediction"`
	FinalSeverity     Severity         `json:"final_severity"`
	Priority          int              `json:"priority"`
	ShouldInvestigate bool             `json:"should_investigate"`
	TriageReasoning   string           `json:"triage_reasoning"`
}

// TriageResult is the ranked outcome of triaging a batch of findings.
// Vulnerabilities are ordered by priority descending; records with equal
// priority keep their input order.
type TriageResult struct {
	Total          int `json:"total"`
	RealThreats    int `json:"real_threats"`
	FalsePositives int `json:"false_positives"`
	Critical       int `json:"critical"`
	High           int `json:"high"`
	Medium         int `json:"medium"`
	Low            int `json:"low"`

	Vulnerabilities []TriagedVulnerability `json:"vulnerabilities"`
}
