package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/eventlog"
	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <game-prefix>",
	Short: "Export a stored game as a JSON pitch log",
	Long: `Write a stored game, imported or charted live, as a JSON event log in the
same shape 'import' reads: {"game": "...", "events": [...]}.

Example:
  pitchmetrics export 3f2a --out opener.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	g, err := db.GetGameByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if g == nil {
		return fmt.Errorf("no game found with id prefix %q", args[0])
	}
	pitches, err := db.GetPitches(g.ID)
	if err != nil {
		return fmt.Errorf("get pitches: %w", err)
	}

	data, err := eventlog.Encode(g.Label, pitches)
	if err != nil {
		return fmt.Errorf("encode %s: %w", g.ID, err)
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	logger.Info("game exported", "id", g.ID, "events", len(pitches), "path", exportOut)
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", len(pitches), exportOut)
	return nil
}
