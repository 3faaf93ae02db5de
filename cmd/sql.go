package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the pitch database",
	Long: `Run an arbitrary SQL query against the pitch database and print results as a table.

Schema overview:
  games(id, hash, label, imported_at)
  pitches(game_id, seq, pitch_type, result, velocity, loc_x, loc_y, inning,
    top_bottom, ts, pitcher, batter, bat_hand, hit_result, hit_hard)
  chart_sessions(id, game_id, balls, strikes, outs, inning, top_bottom,
    pitch_count, updated_at)

Note: pitch_type is upper-case (FASTBALL), result is lower-case (called_strike),
top_bottom is 'Top' or 'Bottom'. Missing velocity and location are NULL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
