package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertAnalysis stores a completed analysis.
func (db *DB) InsertAnalysis(ctx context.Context, analysis *Analysis) error {
	query := `
		INSERT INTO analyses (id, source, total, real_threats, false_positives,
			critical, high, medium, low, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		analysis.ID,
		analysis.Source,
		analysis.Total,
		analysis.RealThreats,
		analysis.FalsePositives,
		analysis.Critical,
		analysis.High,
		analysis.Medium,
		analysis.Low,
		string(analysis.ResultJSON),
		analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}

	return nil
}

// GetAnalysis fetches a single analysis by ID.
func (db *DB) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	query := `
		SELECT id, source, total, real_threats, false_positives,
			critical, high, medium, low, result_json, created_at
		FROM analyses
		WHERE id = ?
	`

	var analysis Analysis
	var resultJSON string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.Source,
		&analysis.Total,
		&analysis.RealThreats,
		&analysis.FalsePositives,
		&analysis.Critical,
		&analysis.High,
		&analysis.Medium,
		&analysis.Low,
		&resultJSON,
		&analysis.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis: %w", err)
	}

	analysis.ResultJSON = []byte(resultJSON)
	return &analysis, nil
}

// ListAnalyses returns the most recent analyses, newest first. The stored
// result JSON is omitted; use GetAnalysis to load it.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, source, total, real_threats, false_positives,
			critical, high, medium, low, created_at
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var analyses []*Analysis
	for rows.Next() {
		var analysis Analysis
		if err := rows.Scan(
			&analysis.ID,
			&analysis.Source,
			&analysis.Total,
			&analysis.RealThreats,
			&analysis.FalsePositives,
			&analysis.Critical,
			&analysis.High,
			&analysis.Medium,
			&analysis.Low,
			&analysis.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		analyses = append(analyses, &analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}

	return analyses, nil
}

// DeleteAnalysis removes an analysis and its feedback.
func (db *DB) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("analysis %s not found", id)
	}

	return nil
}

// InsertFeedback records an analyst verdict and returns its row ID.
func (db *DB) InsertFeedback(ctx context.Context, feedback *Feedback) (int64, error) {
	query := `
		INSERT INTO feedback (analysis_id, vulnerability_id, verdict, comment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		feedback.AnalysisID,
		feedback.VulnerabilityID,
		feedback.Verdict,
		feedback.Comment,
		feedback.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// ListFeedback returns all feedback for an analysis, oldest first.
func (db *DB) ListFeedback(ctx context.Context, analysisID string) ([]*Feedback, error) {
	query := `
		SELECT id, analysis_id, vulnerability_id, verdict, comment, created_at
		FROM feedback
		WHERE analysis_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := db.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []*Feedback
	for rows.Next() {
		var feedback Feedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.AnalysisID,
			&feedback.VulnerabilityID,
			&feedback.Verdict,
			&feedback.Comment,
			&feedback.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		items = append(items, &feedback)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}

	return items, nil
}

// DeleteFeedback removes a single feedback entry.
func (db *DB) DeleteFeedback(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feedback: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("feedback %d not found", id)
	}

	return nil
}
