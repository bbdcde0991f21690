// Package models contains data structures for the vulnerability triage pipeline.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Vulnerability represents a normalized finding from a dependency scanner.
// Records are immutable once constructed; the pipeline never mutates them.
type Vulnerability struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Message     string   `json:"message,omitempty"`
	Severity    Severity `json:"severity"`
	CVE         string   `json:"cve,omitempty"`
	CWE         string   `json:"cwe,omitempty"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Rule        string   `json:"rule,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
}

// GenerateVulnerabilityID creates a stable, deterministic ID for a finding.
// Records arriving without an ID get one derived from their content so the
// same finding keeps the same ID across analyses.
func GenerateVulnerabilityID(name, cve, file string, line int) string {
	core := fmt.Sprintf("%s:%s:%s:%d", name, cve, file, line)
	hash := sha256.Sum256([]byte(core))
	return hex.EncodeToString(hash[:8])
}

// Validate checks that a record carries the fields the pipeline requires.
func (v *Vulnerability) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vulnerability missing required field: id")
	}
	if v.Name == "" {
		return fmt.Errorf("vulnerability missing required field: name")
	}
	if v.Severity == "" {
		return fmt.Errorf("vulnerability missing required field: severity")
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("vulnerability confidence out of range: %v", v.Confidence)
	}
	return nil
}

// CombinedText returns the lowercased name, description, and message
// concatenated for keyword analysis.
func (v *Vulnerability) CombinedText() string {
	return strings.ToLower(strings.Join([]string{v.Name, v.Description, v.Message}, " "))
}
