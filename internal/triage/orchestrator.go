package triage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/classifier"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

// Orchestrator runs the triage pipeline over batches of findings.
type Orchestrator struct {
	estimator  *cvss.Estimator
	classifier *classifier.Classifier
	logger     logger.Logger
	maxWorkers int
}

// NewOrchestrator creates a triage orchestrator.
func NewOrchestrator(estimator *cvss.Estimator) *Orchestrator {
	return NewOrchestratorWithLogger(estimator, logger.GetGlobalLogger())
}

// NewOrchestratorWithLogger creates a triage orchestrator with a custom logger.
func NewOrchestratorWithLogger(estimator *cvss.Estimator, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		estimator:  estimator,
		classifier: classifier.New(),
		logger:     log,
		maxWorkers: 4,
	}
}

// SetMaxWorkers sets the number of concurrent per-record workers.
func (o *Orchestrator) SetMaxWorkers(max int) {
	if max < 1 {
		max = 1
	}
	o.maxWorkers = max
}

// Triage runs estimate, predict, and combine for each record, then ranks the
// results by priority. Per-record work is independent and runs across a
// worker pool; lookup failures degrade inside the estimator, so the only
// error path is input validation.
func (o *Orchestrator) Triage(ctx context.Context, vulns []models.Vulnerability) (*models.TriageResult, error) {
	for i := range vulns {
		if err := vulns[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
	}

	runID := uuid.New().String()
	started := time.Now()
	o.logger.Info("Starting triage run",
		"run_id", runID,
		"total_findings", len(vulns),
		"workers", o.maxWorkers,
	)

	triaged := make([]models.TriagedVulnerability, len(vulns))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := o.maxWorkers
	if workers > len(vulns) {
		workers = len(vulns)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				triaged[i] = o.triageOne(ctx, &vulns[i])
			}
		}()
	}

	for i := range vulns {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Rank after the join. The sort is stable so equal priorities keep
	// their input order.
	sort.SliceStable(triaged, func(i, j int) bool {
		return triaged[i].Priority > triaged[j].Priority
	})

	result := summarize(triaged)

	o.logger.Info("Triage run complete",
		"run_id", runID,
		"duration", time.Since(started),
		"real_threats", result.RealThreats,
		"false_positives", result.FalsePositives,
	)

	return result, nil
}

// triageOne runs the full per-record pipeline.
func (o *Orchestrator) triageOne(ctx context.Context, vuln *models.Vulnerability) models.TriagedVulnerability {
	score := o.estimator.Estimate(ctx, vuln)
	pred := o.classifier.Predict(vuln)
	return Combine(vuln, score, pred)
}

// summarize aggregates counts over the ranked findings.
func summarize(triaged []models.TriagedVulnerability) *models.TriageResult {
	result := &models.TriageResult{
		Total:           len(triaged),
		Vulnerabilities: triaged,
	}

	for i := range triaged {
		switch triaged[i].FinalSeverity {
		case models.SeverityFalsePositive:
			result.FalsePositives++
		case models.SeverityCritical:
			result.Critical++
		case models.SeverityHigh:
			result.High++
		case models.SeverityMedium:
			result.Medium++
		case models.SeverityLow:
			result.Low++
		}
	}
	result.RealThreats = result.Total - result.FalsePositives

	return result
}
