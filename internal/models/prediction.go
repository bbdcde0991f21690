package models

// ThreatPrediction is the heuristic classifier's estimate of whether a
// finding represents a genuine threat.
type ThreatPrediction struct {
	IsRealThreat bool `json:"is_real_threat"`

	// Confidence is in [0.5, 1.0] by construction: full agreement between
	// the two scorers approaches 1.0, disagreement pulls it toward 0.5.
	Confidence float64 `json:"confidence"`

	// BERTScore is the keyword/context heuristic in [0, 1].
	BERTScore float64 `json:"bert_score"`

	// NaiveBayesScore is the feature-weight heuristic in [0, 1].
	NaiveBayesScore float64 `json:"naive_bayes_score"`

	// Reasoning is the ordered observations joined into prose.
	Reasoning string `json:"reasoning"`
}
