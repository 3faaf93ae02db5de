package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var (
	dropForce bool
	dropGame  string
)

// dropCmd deletes the pitch database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the pitch database, or one game with --game",
	Long:  "Permanently delete the SQLite pitch database. All imported games and charting sessions will be lost. Re-import your event logs afterwards to rebuild.\n\nWith --game, only that game is deleted together with its pitches and charting sessions.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropGame, "game", "", "delete only the game with this id prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropGame != "" {
		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		return deleteGame(os.Stdout, db, dropGame, dropForce)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			logger.Warn("could not remove sqlite sidecar file", "path", dbPath+suffix, "error", err)
		}
	}
	logger.Info("database dropped", "path", dbPath)
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

// deleteGame removes the game matching prefix. Without force it only names
// the game that would be deleted.
func deleteGame(w io.Writer, db *storage.DB, prefix string, force bool) error {
	g, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if g == nil {
		return fmt.Errorf("no game found with id prefix %q", prefix)
	}
	if !force {
		fmt.Fprintf(w, "This will permanently delete game %s (%s, %d pitches).\n", g.ID, g.Label, g.Pitches)
		fmt.Fprintln(w, "Re-run with --force to confirm.")
		return nil
	}
	if err := db.DeleteGame(g.ID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	logger.Info("game dropped", "id", g.ID, "label", g.Label)
	fmt.Fprintf(w, "Deleted game: %s\n", g.ID)
	return nil
}
