// Package browse implements the interactive browser command.
package browse

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/config"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/database"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/ingest"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/storage"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/ui"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/pathutil"
)

var (
	dbPath     string
	analysisID string
	resultFile string
	latest     bool
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a triage result in the terminal",
		Long: `Browse a stored analysis, or a triage result file, in an interactive
terminal view.

Navigate the prioritized findings, inspect CVSS scores and classifier
reasoning per finding, and spot what needs investigation first.`,
		Example: `  # Browse the most recent stored analysis
  mvpmoral browse --latest

  # Browse a specific stored analysis
  mvpmoral browse --id 4f5e2c1a-7b0d-4f2a-9c63-1d2e3f4a5b6c

  # Browse a triage result previously written with analyze --output
  mvpmoral browse --result triage.json`,
		RunE: runBrowse,
	}

	cmd.Flags().StringVar(&dbPath, "db", config.DefaultHistoryDBPath, "History database path")
	cmd.Flags().StringVar(&analysisID, "id", "", "Stored analysis ID to browse")
	cmd.Flags().StringVar(&resultFile, "result", "", "Triage result JSON file to browse")
	cmd.Flags().BoolVar(&latest, "latest", false, "Browse the most recent stored analysis")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	result, err := loadResult()
	if err != nil {
		return err
	}

	return ui.NewBrowser(result).Run()
}

func loadResult() (*models.TriageResult, error) {
	if resultFile != "" {
		return loadResultFile(resultFile)
	}

	db, err := database.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	store := storage.NewSQLiteStore(db)
	ctx := context.Background()

	id := analysisID
	if id == "" {
		if !latest {
			return nil, fmt.Errorf("one of --id, --latest, or --result is required")
		}
		summaries, err := store.ListAnalyses(ctx, 1)
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 {
			return nil, fmt.Errorf("no analyses stored yet")
		}
		id = summaries[0].ID
	}

	stored, err := store.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded analysis", "id", id, "source", stored.Summary.Source)
	return &stored.Result, nil
}

func loadResultFile(path string) (*models.TriageResult, error) {
	validPath, err := pathutil.ValidateInputPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid result path: %w", err)
	}

	data, err := os.ReadFile(validPath) //nolint:gosec // Path validated above
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}

	result, err := ingest.ParseResult(data)
	if err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return result, nil
}

// Run executes the browse command with the provided arguments.
func Run(args []string) error {
	cmd := NewBrowseCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}
