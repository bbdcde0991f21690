package classifier

import (
	"strings"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// exploitTerms in the description push the feature score up.
var exploitTerms = []string{"exploit", "attack", "vulnerable"}

// testPathMarkers in the file path suggest non-production code.
var testPathMarkers = []string{"test", "example", "spec"}

// FeatureScorer is the feature-weight heuristic ("Naive-Bayes-like" in the
// original): a fixed weight per boolean feature, no learned parameters.
type FeatureScorer struct{}

// Score returns a real-threat likelihood in [0, 1] from record features.
func (FeatureScorer) Score(vuln *models.Vulnerability) float64 {
	score := 0.5

	if vuln.CVE != "" {
		score += 0.15
	}
	if vuln.CWE != "" {
		score += 0.10
	}
	if vuln.Confidence > 0.7 {
		score += 0.10
	}
	if vuln.Severity == models.SeverityCritical || vuln.Severity == models.SeverityHigh {
		score += 0.15
	}

	description := strings.ToLower(vuln.Description)
	for _, term := range exploitTerms {
		if strings.Contains(description, term) {
			score += 0.10
			break
		}
	}

	if !isTestPath(vuln.File) {
		score += 0.10
	}

	return clamp01(score)
}

func isTestPath(file string) bool {
	path := strings.ToLower(file)
	for _, marker := range testPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}
