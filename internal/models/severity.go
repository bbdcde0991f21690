package models

import "strings"

// Severity represents a vulnerability severity level.
type Severity string

// Severity levels as constants for type safety and consistency.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
	SeverityUnknown  Severity = "UNKNOWN"

	// SeverityNone is the CVSS bucket for findings with no measurable impact.
	SeverityNone Severity = "NONE"

	// SeverityFalsePositive marks findings the classifier ruled out.
	SeverityFalsePositive Severity = "FALSE_POSITIVE"
)

// ValidSeverities returns the severity levels accepted on input records.
func ValidSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
		SeverityInfo,
	}
}

// NormalizeSeverity maps scanner severity strings to canonical levels.
func NormalizeSeverity(severity string) Severity {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "CRITICAL", "VERY-HIGH", "VERY HIGH", "VERYHIGH":
		return SeverityCritical
	case "HIGH":
		return SeverityHigh
	case "MEDIUM", "MODERATE":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	case "INFO", "INFORMATIONAL", "NEGLIGIBLE", "NONE":
		return SeverityInfo
	default:
		return SeverityUnknown
	}
}

// NormalizeCVSSSeverity maps a CVSS baseSeverity string to its bucket.
// CVSS buckets use NONE where input severities use INFO.
func NormalizeCVSSSeverity(severity string) Severity {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "CRITICAL":
		return SeverityCritical
	case "HIGH":
		return SeverityHigh
	case "MEDIUM", "MODERATE":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	default:
		return SeverityNone
	}
}

// Rank returns a numeric rank for ordering severities, highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}
