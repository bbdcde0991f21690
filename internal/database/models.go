package database

import (
	"encoding/json"
	"time"
)

// Verdict is an analyst's judgment on a triaged finding.
type Verdict string

// Feedback verdicts.
const (
	VerdictConfirmed     Verdict = "confirmed"
	VerdictFalsePositive Verdict = "false_positive"
)

// Analysis represents a stored triage run.
type Analysis struct {
	CreatedAt      time.Time
	ID             string
	Source         string
	ResultJSON     json.RawMessage
	Total          int
	RealThreats    int
	FalsePositives int
	Critical       int
	High           int
	Medium         int
	Low            int
}

// Feedback represents an analyst's verdict on one finding of an analysis.
type Feedback struct {
	CreatedAt       time.Time
	AnalysisID      string
	VulnerabilityID string
	Verdict         Verdict
	Comment         string
	ID              int64
}
