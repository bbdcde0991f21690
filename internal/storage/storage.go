// Package storage persists triage results and analyst feedback.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/database"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

// HistoryStore records triage runs and analyst feedback.
type HistoryStore interface {
	// SaveAnalysis stores a triage result and returns its analysis ID.
	SaveAnalysis(ctx context.Context, source string, result *models.TriageResult) (string, error)
	// ListAnalyses returns summaries of recent analyses, newest first.
	ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error)
	// GetAnalysis loads a stored triage result by analysis ID.
	GetAnalysis(ctx context.Context, id string) (*StoredAnalysis, error)
	// DeleteAnalysis removes an analysis and its feedback.
	DeleteAnalysis(ctx context.Context, id string) error
	// SaveFeedback records an analyst verdict on one finding.
	SaveFeedback(ctx context.Context, feedback FeedbackEntry) (int64, error)
	// ListFeedback returns the feedback recorded for an analysis.
	ListFeedback(ctx context.Context, analysisID string) ([]FeedbackEntry, error)
	// DeleteFeedback removes a feedback entry.
	DeleteFeedback(ctx context.Context, id int64) error
}

// AnalysisSummary describes a stored analysis without its full result.
type AnalysisSummary struct {
	CreatedAt      time.Time `json:"created_at"`
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Total          int       `json:"total"`
	RealThreats    int       `json:"real_threats"`
	FalsePositives int       `json:"false_positives"`
	Critical       int       `json:"critical"`
	High           int       `json:"high"`
	Medium         int       `json:"medium"`
	Low            int       `json:"low"`
}

// StoredAnalysis is a stored analysis with its full triage result.
type StoredAnalysis struct {
	Summary AnalysisSummary     `json:"summary"`
	Result  models.TriageResult `json:"result"`
}

// FeedbackEntry is an analyst verdict on one finding of an analysis.
type FeedbackEntry struct {
	CreatedAt       time.Time        `json:"created_at"`
	AnalysisID      string           `json:"analysis_id"`
	VulnerabilityID string           `json:"vulnerability_id"`
	Verdict         database.Verdict `json:"verdict"`
	Comment         string           `json:"comment,omitempty"`
	ID              int64            `json:"id"`
}

// SQLiteStore implements HistoryStore on the SQLite database.
type SQLiteStore struct {
	db     *database.DB
	logger logger.Logger
}

// NewSQLiteStore creates a history store backed by the given database.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return NewSQLiteStoreWithLogger(db, logger.GetGlobalLogger())
}

// NewSQLiteStoreWithLogger creates a history store with a custom logger.
func NewSQLiteStoreWithLogger(db *database.DB, log logger.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: log,
	}
}

// SaveAnalysis stores a triage result and returns its analysis ID.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, source string, result *models.TriageResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling triage result: %w", err)
	}

	analysis := &database.Analysis{
		ID:             uuid.New().String(),
		Source:         source,
		Total:          result.Total,
		RealThreats:    result.RealThreats,
		FalsePositives: result.FalsePositives,
		Critical:       result.Critical,
		High:           result.High,
		Medium:         result.Medium,
		Low:            result.Low,
		ResultJSON:     resultJSON,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.db.InsertAnalysis(ctx, analysis); err != nil {
		return "", err
	}

	s.logger.Info("Saved analysis",
		"id", analysis.ID,
		"source", source,
		"total", result.Total)

	return analysis.ID, nil
}

// ListAnalyses returns summaries of recent analyses, newest first.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	rows, err := s.db.ListAnalyses(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]AnalysisSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summaryFromRow(row))
	}
	return summaries, nil
}

// GetAnalysis loads a stored triage result by analysis ID.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*StoredAnalysis, error) {
	row, err := s.db.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	var result models.TriageResult
	if err := json.Unmarshal(row.ResultJSON, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling stored result: %w", err)
	}

	return &StoredAnalysis{
		Summary: summaryFromRow(row),
		Result:  result,
	}, nil
}

// DeleteAnalysis removes an analysis and its feedback.
func (s *SQLiteStore) DeleteAnalysis(ctx context.Context, id string) error {
	if err := s.db.DeleteAnalysis(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted analysis", "id", id)
	return nil
}

// SaveFeedback records an analyst verdict on one finding.
func (s *SQLiteStore) SaveFeedback(ctx context.Context, feedback FeedbackEntry) (int64, error) {
	if feedback.Verdict != database.VerdictConfirmed && feedback.Verdict != database.VerdictFalsePositive {
		return 0, fmt.Errorf("unknown verdict %q", feedback.Verdict)
	}

	createdAt := feedback.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return s.db.InsertFeedback(ctx, &database.Feedback{
		AnalysisID:      feedback.AnalysisID,
		VulnerabilityID: feedback.VulnerabilityID,
		Verdict:         feedback.Verdict,
		Comment:         feedback.Comment,
		CreatedAt:       createdAt,
	})
}

// ListFeedback returns the feedback recorded for an analysis.
func (s *SQLiteStore) ListFeedback(ctx context.Context, analysisID string) ([]FeedbackEntry, error) {
	rows, err := s.db.ListFeedback(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	entries := make([]FeedbackEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FeedbackEntry{
			ID:              row.ID,
			AnalysisID:      row.AnalysisID,
			VulnerabilityID: row.VulnerabilityID,
			Verdict:         row.Verdict,
			Comment:         row.Comment,
			CreatedAt:       row.CreatedAt,
		})
	}
	return entries, nil
}

// DeleteFeedback removes a feedback entry.
func (s *SQLiteStore) DeleteFeedback(ctx context.Context, id int64) error {
	return s.db.DeleteFeedback(ctx, id)
}

func summaryFromRow(row *database.Analysis) AnalysisSummary {
	return AnalysisSummary{
		ID:             row.ID,
		Source:         row.Source,
		Total:          row.Total,
		RealThreats:    row.RealThreats,
		FalsePositives: row.FalsePositives,
		Critical:       row.Critical,
		High:           row.High,
		Medium:         row.Medium,
		Low:            row.Low,
		CreatedAt:      row.CreatedAt,
	}
}
