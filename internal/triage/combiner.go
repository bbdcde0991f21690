// Package triage fuses external severity scores with heuristic threat
// predictions into ranked, actionable findings.
package triage

import (
	"fmt"
	"math"
	"strings"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// Investigation threshold: findings at or below this priority are not worth
// a human's time.
const investigatePriorityFloor = 30

// Combine fuses a record's external score and threat prediction into the
// final triage decision. Pure function over well-typed input; cannot fail.
func Combine(vuln *models.Vulnerability, score models.CVSSScore, pred models.ThreatPrediction) models.TriagedVulnerability {
	triaged := models.TriagedVulnerability{
		Vulnerability: *vuln,
		CVSS:          score,
		Prediction:    pred,
	}

	// Confident false positives short-circuit: no amount of external
	// severity overrides the classifier here.
	if !pred.IsRealThreat && pred.Confidence > 0.7 {
		triaged.FinalSeverity = models.SeverityFalsePositive
		triaged.Priority = 0
		triaged.ShouldInvestigate = false
		triaged.TriageReasoning = fmt.Sprintf(
			"ML analysis classified this finding as a false positive with %.0f%% confidence.",
			pred.Confidence*100,
		)
		return triaged
	}

	mlScore := pred.Confidence
	if !pred.IsRealThreat {
		mlScore = 1 - pred.Confidence
	}
	combined := score.BaseScore*0.7 + mlScore*10*0.3

	severity, priority := assignBucket(combined, score.Severity)

	// Priority adjustments from classifier conviction and CVE presence.
	if pred.IsRealThreat && pred.Confidence > 0.6 {
		priority += 10
	} else if !pred.IsRealThreat && pred.Confidence > 0.6 {
		priority -= 20
	}
	if vuln.CVE != "" {
		priority += 5
	}

	triaged.FinalSeverity = severity
	triaged.Priority = int(math.Round(math.Max(0, math.Min(100, priority))))
	triaged.ShouldInvestigate = severity != models.SeverityFalsePositive &&
		severity != models.SeverityInfo &&
		triaged.Priority > investigatePriorityFloor
	triaged.TriageReasoning = buildTriageReasoning(vuln, combined, severity, pred)

	return triaged
}

// assignBucket maps the combined score to a severity bucket and base
// priority. The external CVSS bucket can only lift a finding into a higher
// tier; it never demotes one the score already earned.
func assignBucket(combined float64, external models.Severity) (models.Severity, float64) {
	switch {
	case combined >= 9.0 || external == models.SeverityCritical:
		return models.SeverityCritical, 90 + math.Min(10, (combined-9)*10)
	case combined >= 7.0 || external == models.SeverityHigh:
		return models.SeverityHigh, 70 + math.Min(20, (combined-7)*10)
	case combined >= 4.0 || external == models.SeverityMedium:
		return models.SeverityMedium, 40 + math.Min(30, (combined-4)*10)
	case combined >= 1.0 || external == models.SeverityLow:
		return models.SeverityLow, 10 + math.Min(30, (combined-1)*10)
	default:
		return models.SeverityInfo, 5
	}
}

// buildTriageReasoning emits the ordered clauses explaining the decision.
func buildTriageReasoning(vuln *models.Vulnerability, combined float64, severity models.Severity, pred models.ThreatPrediction) string {
	reasons := []string{
		fmt.Sprintf("Combined severity score of %.1f maps to %s.", combined, severity),
	}

	if pred.IsRealThreat {
		reasons = append(reasons, fmt.Sprintf(
			"ML analysis concurs this is a real threat (%.0f%% confidence).",
			pred.Confidence*100,
		))
	} else {
		reasons = append(reasons, fmt.Sprintf(
			"ML analysis leans toward a false positive (%.0f%% confidence) but not confidently enough to dismiss it.",
			pred.Confidence*100,
		))
	}

	if vuln.CVE != "" {
		reasons = append(reasons, fmt.Sprintf("Tracked as %s in public vulnerability databases.", vuln.CVE))
	}

	return strings.Join(reasons, " ")
}
