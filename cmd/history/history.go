// Package history implements the history command for stored analyses.
package history

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/config"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/database"
	"github.com/gabrieldeoliveira72/MVPMoral/internal/storage"
)

// Options represents history command options.
type Options struct {
	DBPath   string
	Format   string
	VulnID   string
	Verdict  string
	Comment  string
	Limit    int
	RemoveID int64
}

// Run executes the history command.
func Run(args []string) error {
	opts := &Options{}

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.StringVar(&opts.DBPath, "db", config.DefaultHistoryDBPath, "History database path")
	fs.IntVar(&opts.Limit, "limit", 10, "Maximum number of analyses to show")
	fs.StringVar(&opts.Format, "format", "table", "Output format (table, json)")
	fs.StringVar(&opts.VulnID, "vuln", "", "Finding ID to record a verdict for")
	fs.StringVar(&opts.Verdict, "verdict", "", "Analyst verdict (confirmed, false_positive)")
	fs.StringVar(&opts.Comment, "comment", "", "Optional note attached to the verdict")
	fs.Int64Var(&opts.RemoveID, "remove", 0, "Feedback entry ID to remove")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: mvpmoral history <list|show|delete|feedback> [options]

Manage stored analyses.

Subcommands:
  list            List recent analyses
  show <id>       Print a stored triage result as JSON
  delete <id>     Delete a stored analysis
  feedback <id>   List or record analyst verdicts for an analysis

Options:`)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, `
Examples:
  mvpmoral history list --limit 20
  mvpmoral history show 4f5e2c1a-...
  mvpmoral history delete 4f5e2c1a-...
  mvpmoral history feedback 4f5e2c1a-...
  mvpmoral history feedback --vuln a1b2c3d4 --verdict false_positive 4f5e2c1a-...
  mvpmoral history feedback --remove 7`)
	}

	subcommand := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		subcommand = args[0]
		args = args[1:]
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := database.New(opts.DBPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	store := storage.NewSQLiteStore(db)
	ctx := context.Background()

	switch subcommand {
	case "list":
		return runList(ctx, store, opts)
	case "show":
		if len(fs.Args()) == 0 {
			return fmt.Errorf("show requires an analysis ID")
		}
		return runShow(ctx, store, fs.Args()[0])
	case "delete":
		if len(fs.Args()) == 0 {
			return fmt.Errorf("delete requires an analysis ID")
		}
		return store.DeleteAnalysis(ctx, fs.Args()[0])
	case "feedback":
		return runFeedback(ctx, store, opts, fs.Args())
	default:
		fs.Usage()
		return fmt.Errorf("unknown history subcommand: %s", subcommand)
	}
}

func runList(ctx context.Context, store storage.HistoryStore, opts *Options) error {
	summaries, err := store.ListAnalyses(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No analyses stored yet.") //nolint:forbidigo
		return nil
	}

	if opts.Format == "json" {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling summaries: %w", err)
		}
		fmt.Println(string(data)) //nolint:forbidigo
		return nil
	}

	return displayTable(summaries)
}

func runShow(ctx context.Context, store storage.HistoryStore, id string) error {
	stored, err := store.GetAnalysis(ctx, id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(stored.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(data)) //nolint:forbidigo
	return nil
}

func runFeedback(ctx context.Context, store storage.HistoryStore, opts *Options, args []string) error {
	if opts.RemoveID > 0 {
		return store.DeleteFeedback(ctx, opts.RemoveID)
	}

	if len(args) == 0 {
		return fmt.Errorf("feedback requires an analysis ID")
	}
	analysisID := args[0]

	if opts.VulnID != "" || opts.Verdict != "" {
		if opts.VulnID == "" || opts.Verdict == "" {
			return fmt.Errorf("recording feedback requires both --vuln and --verdict")
		}
		id, err := store.SaveFeedback(ctx, storage.FeedbackEntry{
			AnalysisID:      analysisID,
			VulnerabilityID: opts.VulnID,
			Verdict:         database.Verdict(opts.Verdict),
			Comment:         opts.Comment,
		})
		if err != nil {
			return fmt.Errorf("recording feedback: %w", err)
		}
		fmt.Printf("Recorded feedback %d for finding %s\n", id, opts.VulnID) //nolint:forbidigo
		return nil
	}

	entries, err := store.ListFeedback(ctx, analysisID)
	if err != nil {
		return fmt.Errorf("listing feedback: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No feedback recorded for this analysis.") //nolint:forbidigo
		return nil
	}

	if opts.Format == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling feedback: %w", err)
		}
		fmt.Println(string(data)) //nolint:forbidigo
		return nil
	}

	return displayFeedbackTable(entries)
}

func displayFeedbackTable(entries []storage.FeedbackEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "ID\tFINDING\tVERDICT\tCOMMENT\tTIME AGO"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			entry.ID,
			entry.VulnerabilityID,
			entry.Verdict,
			entry.Comment,
			formatTimeAgo(entry.CreatedAt),
		); err != nil {
			return fmt.Errorf("writing feedback entry: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func displayTable(summaries []storage.AnalysisSummary) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "ID\tSOURCE\tFINDINGS\tTHREATS\tCRIT/HIGH\tTIME AGO"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, summary := range summaries {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			summary.ID,
			summary.Source,
			summary.Total,
			summary.RealThreats,
			summary.Critical,
			summary.High,
			formatTimeAgo(summary.CreatedAt),
		); err != nil {
			return fmt.Errorf("writing analysis entry: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	case duration < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	}
}
