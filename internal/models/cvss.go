package models

// CVSS metric versions, in descending preference order.
const (
	CVSSVersion31 = "3.1"
	CVSSVersion30 = "3.0"
	CVSSVersion20 = "2.0"

	// CVSSVersionEstimate marks scores derived from the reported severity
	// rather than an external lookup.
	CVSSVersionEstimate = "estimate"
)

// CVSSScore holds the standardized severity score attached to a finding.
// By the time classification runs, every record carries one: lookup
// failures degrade to a severity-derived estimate.
type CVSSScore struct {
	BaseScore           float64  `json:"base_score"`
	Severity            Severity `json:"severity"`
	Vector              string   `json:"vector,omitempty"`
	Version             string   `json:"version,omitempty"`
	ExploitabilityScore float64  `json:"exploitability_score,omitempty"`
	ImpactScore         float64  `json:"impact_score,omitempty"`

	AttackVector          string `json:"attack_vector,omitempty"`
	AttackComplexity      string `json:"attack_complexity,omitempty"`
	PrivilegesRequired    string `json:"privileges_required,omitempty"`
	UserInteraction       string `json:"user_interaction,omitempty"`
	Scope                 string `json:"scope,omitempty"`
	ConfidentialityImpact string `json:"confidentiality_impact,omitempty"`
	IntegrityImpact       string `json:"integrity_impact,omitempty"`
	AvailabilityImpact    string `json:"availability_impact,omitempty"`
}

// Estimated reports whether the score was derived locally instead of
// fetched from the external scoring service.
func (c *CVSSScore) Estimated() bool {
	return c.Version == CVSSVersionEstimate
}
