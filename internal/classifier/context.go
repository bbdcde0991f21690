package classifier

import (
	"strings"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// realThreatIndicators are phrases that suggest a finding describes a
// genuine, exploitable issue. Matching is case-insensitive substring search
// over the record's combined text.
var realThreatIndicators = []string{
	"sql injection",
	"xss",
	"cross-site scripting",
	"remote code execution",
	"buffer overflow",
	"command injection",
	"path traversal",
	"authentication",
	"authorization",
	"csrf",
	"deserialization",
	"privilege escalation",
	"arbitrary code",
	"denial of service",
	"information disclosure",
	"hardcoded password",
	"weak encryption",
}

// falsePositiveIndicators are phrases that usually mark scanner noise.
var falsePositiveIndicators = []string{
	"deprecated",
	"test",
	"todo",
	"documentation",
	"example",
	"sample",
	"demo",
	"debug",
	"unused",
}

// ContextScorer is the keyword/context heuristic ("BERT-like" in the
// original). It is a fixed formula, not a learned model.
type ContextScorer struct{}

// Score returns a real-threat likelihood in [0, 1] from keyword matches and
// the reported severity.
func (ContextScorer) Score(vuln *models.Vulnerability) float64 {
	text := vuln.CombinedText()

	score := 0.5

	var realHits, fpHits int
	for _, phrase := range realThreatIndicators {
		if strings.Contains(text, phrase) {
			realHits++
		}
	}
	for _, phrase := range falsePositiveIndicators {
		if strings.Contains(text, phrase) {
			fpHits++
		}
	}

	score += min(0.4, 0.15*float64(realHits))
	score -= min(0.3, 0.1*float64(fpHits))
	score += severityWeight(vuln.Severity)

	return clamp01(score)
}

// severityWeight is the context scorer's severity adjustment. Unrecognized
// severities get the MEDIUM weight, mirroring the estimator's fallback.
func severityWeight(severity models.Severity) float64 {
	switch severity {
	case models.SeverityCritical:
		return 0.2
	case models.SeverityHigh:
		return 0.15
	case models.SeverityLow:
		return 0.05
	case models.SeverityInfo:
		return -0.1
	default:
		return 0.1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
