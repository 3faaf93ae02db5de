package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all games stored in the database:
game and pitch counts, import date range, pitch type breakdown and the most
charted pitchers.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'pitchmetrics import <events.json>' to add one.")
		return nil
	}

	types, err := db.GetPitchTypeCounts()
	if err != nil {
		return fmt.Errorf("get pitch types: %w", err)
	}
	pitchers, err := db.GetTopPitchers(10)
	if err != nil {
		return fmt.Errorf("get top pitchers: %w", err)
	}

	report.PrintOverview(os.Stdout, ov, types, pitchers)
	return nil
}
