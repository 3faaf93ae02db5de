package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/storage"
)

var showOutcomes bool

var showCmd = &cobra.Command{
	Use:   "show <game-prefix>",
	Short: "Show each pitcher's pitch mix for a stored game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "also print per-pitch-type outcome counts")
	importCmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "also print per-pitch-type outcome counts")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	g, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if g == nil {
		fmt.Fprintf(os.Stderr, "No game found with id prefix %q\n", prefix)
		return nil
	}
	return showGame(db, g)
}
