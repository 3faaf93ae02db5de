package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <pitcher>",
	Short: "Chronological per-game pitch-mix trend for a pitcher",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	pitcher := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	refs, err := db.GetPitcherGames(pitcher)
	if err != nil {
		return fmt.Errorf("query games: %w", err)
	}
	if len(refs) == 0 {
		fmt.Println("no games found")
		return nil
	}

	rows := make([]report.TrendRow, 0, len(refs))
	for _, ref := range refs {
		pitches, err := db.GetPitcherPitches(pitcher, ref.ID)
		if err != nil {
			return fmt.Errorf("query pitches: %w", err)
		}
		rows = append(rows, report.TrendRow{
			GameID:     ref.ID,
			Label:      ref.Label,
			ImportedAt: ref.ImportedAt,
			Mix:        aggregator.Aggregate(pitches),
		})
	}

	fmt.Fprintf(os.Stdout, "\nPitcher: %s  |  Games: %d\n\n", pitcher, len(rows))
	report.PrintTrendTable(os.Stdout, rows)
	return nil
}
