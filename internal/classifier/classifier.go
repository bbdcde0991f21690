// Package classifier estimates whether a finding is a real threat using two
// fixed-formula heuristic scorers. The formulas and indicator lists are the
// behavioral contract; there is no model loading or inference here.
package classifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// Weight of each scorer in the combined prediction.
const (
	contextWeight = 0.6
	featureWeight = 0.4
)

// Classifier combines the context and feature scorers into a single
// prediction. It is stateless and safe for concurrent use.
type Classifier struct {
	context ContextScorer
	feature FeatureScorer
}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Predict scores a record with both heuristics and fuses them. The two
// scorers share no state and run independently; Predict is pure and always
// returns a value.
func (c *Classifier) Predict(vuln *models.Vulnerability) models.ThreatPrediction {
	contextScore := c.context.Score(vuln)
	featureScore := c.feature.Score(vuln)

	combined := contextWeight*contextScore + featureWeight*featureScore
	isReal := combined > 0.5

	// Scorers agreeing closely yields confidence near 1.0; disagreement
	// pulls it toward the 0.5 floor.
	confidence := math.Max(0.5, 1-0.5*math.Abs(contextScore-featureScore))

	return models.ThreatPrediction{
		IsRealThreat:    isReal,
		Confidence:      confidence,
		BERTScore:       contextScore,
		NaiveBayesScore: featureScore,
		Reasoning:       buildReasoning(vuln, contextScore, featureScore, combined),
	}
}

// buildReasoning emits the ordered observations behind a prediction, one
// sentence per clause. Deterministic given the record and scores.
func buildReasoning(vuln *models.Vulnerability, contextScore, featureScore, combined float64) string {
	var reasons []string

	if vuln.CVE != "" {
		reasons = append(reasons, fmt.Sprintf("Known CVE identified (%s).", vuln.CVE))
	}

	switch {
	case contextScore > 0.7:
		reasons = append(reasons, "Context analysis strongly indicates a real threat.")
	case contextScore < 0.3:
		reasons = append(reasons, "Context analysis suggests a false positive.")
	}

	switch {
	case featureScore > 0.7:
		reasons = append(reasons, "Feature analysis strongly indicates a real threat.")
	case featureScore < 0.3:
		reasons = append(reasons, "Feature analysis suggests a false positive.")
	}

	if math.Abs(contextScore-featureScore) < 0.2 {
		reasons = append(reasons, "Both models agree on the assessment.")
	} else {
		reasons = append(reasons, "The models diverge, lowering confidence.")
	}

	switch {
	case combined > 0.7:
		reasons = append(reasons, "Combined score indicates high threat likelihood.")
	case combined < 0.3:
		reasons = append(reasons, "Combined score indicates low threat likelihood.")
	}

	return strings.Join(reasons, " ")
}
