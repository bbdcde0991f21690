// Package analyze implements the analyze command, the main triage pipeline.
package analyze

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/config"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/cvss/cache"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/database"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/ingest"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/storage"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/triage"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/ui"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/pathutil"
)

// Options represents analyze command options.
type Options struct {
	ReportFile string
	ConfigFile string
	OutputFile string
	DBPath     string
	Workers    int
	Save       bool
	Browse     bool
}

// Run executes the analyze command.
func Run(args []string) error {
	opts := &Options{}

	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.StringVar(&opts.ReportFile, "report", "", "Scanner report to triage (required)")
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	fs.StringVar(&opts.OutputFile, "output", "", "Write the triage result as JSON to this file")
	fs.StringVar(&opts.DBPath, "db", "", "History database path (overrides config)")
	fs.IntVar(&opts.Workers, "workers", 0, "Concurrent triage workers (overrides config)")
	fs.BoolVar(&opts.Save, "save", false, "Save the result to the history database")
	fs.BoolVar(&opts.Browse, "browse", false, "Open the result in the terminal browser")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: mvpmoral analyze [options]

Triage a dependency-scanner report: estimate CVSS scores, filter likely
false positives, and prioritize the remaining findings.

Options:`)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, `
Examples:
  mvpmoral analyze --report dependency-check-report.json
  mvpmoral analyze --report report.json --output triage.json
  mvpmoral analyze --report report.json --save --db analyses.db
  mvpmoral analyze --report report.json --browse`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.ReportFile == "" {
		return fmt.Errorf("--report flag is required")
	}

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.Workers > 0 {
		cfg.Pipeline.MaxWorkers = opts.Workers
	}
	if opts.DBPath != "" {
		cfg.History.DBPath = opts.DBPath
	}

	reportPath, err := pathutil.ValidateInputPath(opts.ReportFile)
	if err != nil {
		return fmt.Errorf("invalid report path: %w", err)
	}

	data, err := os.ReadFile(reportPath) //nolint:gosec // Path validated above
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	parser := ingest.NewParser()
	parser.SeverityOverrides = cfg.SeverityOverrides

	vulns, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing report: %w", err)
	}

	logger.Info("Parsed report",
		"report", reportPath,
		"findings", len(vulns))

	ctx := context.Background()
	orchestrator := buildOrchestrator(ctx, cfg)

	result, err := orchestrator.Triage(ctx, vulns)
	if err != nil {
		return fmt.Errorf("running triage: %w", err)
	}

	fmt.Println(renderSummary(result)) //nolint:forbidigo

	if opts.OutputFile != "" {
		if err := writeResult(opts.OutputFile, result); err != nil {
			return err
		}
	}

	if opts.Save {
		analysisID, err := saveResult(ctx, cfg, filepath.Base(reportPath), result)
		if err != nil {
			return err
		}
		logger.Info("Saved to history", "id", analysisID)
	}

	if opts.Browse {
		return ui.NewBrowser(result).Run()
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	validPath, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	cfg, err := config.LoadConfig(validPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildOrchestrator assembles the pipeline from configuration: an NVD client
// behind a TTL cache feeding the estimator.
func buildOrchestrator(ctx context.Context, cfg *config.Config) *triage.Orchestrator {
	clientOpts := []cvss.NVDOption{
		cvss.WithBaseURL(cfg.NVD.Endpoint),
		cvss.WithTimeout(cfg.NVD.LookupTimeout.Std()),
	}
	if cfg.NVD.APIKey != "" {
		clientOpts = append(clientOpts, cvss.WithAPIKey(cfg.NVD.APIKey))
	}
	client := cvss.NewNVDClient(clientOpts...)

	scoreCache := cache.NewMemoryCache()
	scoreCache.StartJanitor(ctx, cfg.Cache.SweepInterval.Std())

	estimator := cvss.NewEstimator(client, scoreCache)
	estimator.SetTTL(cfg.Cache.TTL.Std())

	orchestrator := triage.NewOrchestrator(estimator)
	orchestrator.SetMaxWorkers(cfg.Pipeline.MaxWorkers)
	return orchestrator
}

func writeResult(path string, result *models.TriageResult) error {
	validPath, err := pathutil.ValidateOutputPath(path)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(validPath, data, 0600); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	logger.Info("Wrote triage result", "path", validPath)
	return nil
}

func saveResult(ctx context.Context, cfg *config.Config, source string, result *models.TriageResult) (string, error) {
	db, err := database.New(cfg.History.DBPath)
	if err != nil {
		return "", fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	store := storage.NewSQLiteStore(db)
	return store.SaveAnalysis(ctx, source, result)
}

// renderSummary renders a colored severity breakdown for the terminal.
func renderSummary(result *models.TriageResult) string {
	titler := cases.Title(language.English)

	var sb strings.Builder
	sb.WriteString(ui.TitleStyle.Render("Triage Summary"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Findings: %d  Real threats: %d  False positives: %d\n",
		result.Total, result.RealThreats, result.FalsePositives))

	counts := []struct {
		severity models.Severity
		count    int
	}{
		{models.SeverityCritical, result.Critical},
		{models.SeverityHigh, result.High},
		{models.SeverityMedium, result.Medium},
		{models.SeverityLow, result.Low},
	}

	for _, entry := range counts {
		label := titler.String(strings.ToLower(string(entry.severity)))
		style := lipgloss.NewStyle().Foreground(ui.SeverityColor(entry.severity)).Bold(true)
		sb.WriteString(fmt.Sprintf("  %s %d\n", style.Render(label+":"), entry.count))
	}

	investigate := 0
	for _, vuln := range result.Vulnerabilities {
		if vuln.ShouldInvestigate {
			investigate++
		}
	}
	sb.WriteString(fmt.Sprintf("Needs investigation: %d\n", investigate))

	for i, vuln := range result.Vulnerabilities {
		if i == 0 {
			sb.WriteString("\nTop findings:\n")
		}
		if i >= 5 {
			break
		}
		severity := ui.SeverityStyle(vuln.FinalSeverity).Render(string(vuln.FinalSeverity))
		sb.WriteString(fmt.Sprintf("  %3d  %s  %s\n", vuln.Priority, severity, vuln.Name))
	}

	return sb.String()
}
