package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var (
	reportHand string
	reportGame string
)

var reportCmd = &cobra.Command{
	Use:   "report [pitcher]",
	Short: "Pitch mix by times through the order, split by batter hand",
	Long: `Aggregate a pitcher's stored pitches by times through the order (1, 2, 3+).

By default one report is printed per batter hand. --hand L or --hand R
restricts it to one side; --hand all ignores handedness. Times through the
order are counted per game.

Without a pitcher, lists the pitchers that have stored pitches (in the
--game game if given).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportHand, "hand", "", "batter hand: L, R or all (default: L and R separately)")
	reportCmd.Flags().StringVar(&reportGame, "game", "", "restrict to one game by id prefix")
}

func runReport(cmd *cobra.Command, args []string) error {
	hands, err := reportHands(reportHand)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		return printPitchers(os.Stdout, db, reportGame)
	}
	pitcher := args[0]

	games, err := pitcherGames(db, pitcher, reportGame)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintf(os.Stderr, "No pitches stored for pitcher %q\n", pitcher)
		return nil
	}

	for _, h := range hands {
		split := aggregator.BuildTTOSplitGames(games, pitcher, h)
		if split.Untagged > 0 {
			logger.Warn("pitches without inning or half left out of TTO split", "pitcher", pitcher, "count", split.Untagged)
		}
		report.PrintTTOSplit(os.Stdout, split)
	}
	return nil
}

func reportHands(flag string) ([]model.Hand, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "":
		return []model.Hand{model.HandLeft, model.HandRight}, nil
	case "all":
		return []model.Hand{model.HandUnknown}, nil
	}
	h := model.ParseHand(flag)
	if h == model.HandUnknown {
		return nil, fmt.Errorf("invalid --hand %q: want L, R or all", flag)
	}
	return []model.Hand{h}, nil
}

// pitcherGames returns the pitcher's pitches grouped by game, skipping games
// they did not appear in.
func pitcherGames(db *storage.DB, pitcher, gamePrefix string) ([][]model.PitchEvent, error) {
	var ids []string
	if gamePrefix != "" {
		g, err := db.GetGameByPrefix(gamePrefix)
		if err != nil {
			return nil, fmt.Errorf("query game: %w", err)
		}
		if g == nil {
			return nil, fmt.Errorf("no game found with id prefix %q", gamePrefix)
		}
		ids = append(ids, g.ID)
	} else {
		refs, err := db.GetPitcherGames(pitcher)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		for _, r := range refs {
			ids = append(ids, r.ID)
		}
	}

	var games [][]model.PitchEvent
	for _, id := range ids {
		pitches, err := db.GetPitcherPitches(pitcher, id)
		if err != nil {
			return nil, fmt.Errorf("get pitches: %w", err)
		}
		if len(pitches) > 0 {
			games = append(games, pitches)
		}
	}
	return games, nil
}

// printPitchers lists the pitchers of one game (by id prefix) or of every
// stored game.
func printPitchers(w io.Writer, db *storage.DB, gamePrefix string) error {
	gameID := ""
	if gamePrefix != "" {
		g, err := db.GetGameByPrefix(gamePrefix)
		if err != nil {
			return fmt.Errorf("query game: %w", err)
		}
		if g == nil {
			return fmt.Errorf("no game found with id prefix %q", gamePrefix)
		}
		gameID = g.ID
	}
	names, err := db.ListPitchers(gameID)
	if err != nil {
		return fmt.Errorf("list pitchers: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "No pitchers stored.")
		return nil
	}
	fmt.Fprintln(w, "Pitchers:")
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
	fmt.Fprintln(w, "Run 'pitchmetrics report <pitcher>' for a times-through-the-order split.")
	return nil
}
