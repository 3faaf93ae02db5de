package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/eventlog"
	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var importLabel string

var importCmd = &cobra.Command{
	Use:   "import <events.json>",
	Short: "Import a charted pitch log and store it as a game",
	Long: `Import a JSON pitch log, either a bare array of events or an object
{"game": "...", "events": [...]}. Re-importing the same file shows the
stored game instead of creating a duplicate.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importLabel, "label", "", "game label (default: the log's game field or file name)")
}

func runImport(cmd *cobra.Command, args []string) error {
	logPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	log, err := eventlog.ReadFile(logPath, eventlog.Options{HardExitVelocity: cfg.Hit.HardExitVelocity})
	if err != nil {
		return fmt.Errorf("import %s: %w", logPath, err)
	}

	exists, err := db.GameExists(log.Hash)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Log %s already imported, showing stored game.\n", log.Hash[:12])
		g, err := db.GetGameByHash(log.Hash)
		if err != nil {
			return fmt.Errorf("query game: %w", err)
		}
		return showGame(db, g)
	}

	warnUnknownTags(log.Events)

	label := log.Label
	if importLabel != "" {
		label = importLabel
	}
	g := model.GameSummary{
		ID:         uuid.NewString(),
		Hash:       log.Hash,
		Label:      label,
		ImportedAt: time.Now(),
	}
	if err := db.InsertGame(g); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := db.InsertPitches(g.ID, log.Events); err != nil {
		return fmt.Errorf("insert pitches: %w", err)
	}
	logger.Info("game imported", "id", g.ID, "label", g.Label, "events", len(log.Events))

	stored, err := db.GetGameByPrefix(g.ID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	return showGame(db, stored)
}

// warnUnknownTags logs events that aggregation will skip or that carry
// tags outside the known vocabulary.
func warnUnknownTags(events []model.PitchEvent) {
	agg := aggregator.New()
	for _, p := range events {
		if !agg.Add(p) {
			logger.Debug("event missing pitch type or result", "seq", p.Seq)
			continue
		}
		if !p.Type.Known() {
			logger.Debug("unrecognized pitch type", "seq", p.Seq, "type", string(p.Type))
		}
		if !p.Result.Known() {
			logger.Warn("unrecognized pitch result", "seq", p.Seq, "result", string(p.Result))
		}
	}
	if n := agg.Skipped(); n > 0 {
		logger.Warn("events left out of pitch metrics", "skipped", n, "events", len(events))
	}
}

func showGame(db *storage.DB, g *model.GameSummary) error {
	if g == nil {
		return fmt.Errorf("game not found")
	}
	pitches, err := db.GetPitches(g.ID)
	if err != nil {
		return fmt.Errorf("get pitches: %w", err)
	}

	report.PrintGameSummary(os.Stdout, *g)
	for _, mix := range aggregator.ByPitcher(pitches) {
		name := mix.Pitcher
		if name == "" {
			name = "(unknown pitcher)"
		}
		report.PrintPitchMix(os.Stdout, name, mix.Result)
		if showOutcomes {
			report.PrintOutcomeTable(os.Stdout, mix.Result)
		}
	}
	return nil
}
