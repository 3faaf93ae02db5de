package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/situation"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var chartNoAutoOuts bool

var chartCmd = &cobra.Command{
	Use:   "chart <game-prefix>",
	Short: "Replay a stored game and print the count, outs and inning after each pitch",
	Long: `Replay a stored game through the count/outs state machine from 0-0,
no outs, top of the 1st.

With --no-auto-outs the half-inning is not rolled at three outs; the replay
instead follows the inning and half recorded on each pitch.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().BoolVar(&chartNoAutoOuts, "no-auto-outs", false, "do not advance the half-inning automatically at three outs")
}

func runChart(cmd *cobra.Command, args []string) error {
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
	pitches, err := db.GetPitches(g.ID)
	if err != nil {
		return fmt.Errorf("get pitches: %w", err)
	}

	opts := situation.Options{
		DisableAutoOuts: chartNoAutoOuts || cfg.Chart.DisableAutoOuts,
		OnUnknown: func(r model.PitchResult) {
			logger.Warn("unrecognized result left state unchanged", "game", g.ID, "result", string(r))
		},
	}
	rows := replay(pitches, opts)

	report.PrintGameSummary(os.Stdout, *g)
	report.PrintStateReplay(os.Stdout, rows)
	if len(rows) > 0 {
		last := rows[len(rows)-1].State
		fmt.Fprintf(os.Stdout, "\nFinal: %s, %s, %d out\n", report.FormatInning(last), report.FormatCount(last), last.Outs)
	}
	return nil
}

// replay feeds pitches through a fresh session. With auto outs disabled the
// session is advanced whenever a pitch is tagged with a later half-inning.
func replay(pitches []model.PitchEvent, opts situation.Options) []report.ReplayRow {
	s := situation.NewSession(model.InitialState(), 0, opts)
	rows := make([]report.ReplayRow, 0, len(pitches))
	for _, p := range pitches {
		var pending model.Signals
		if opts.DisableAutoOuts && p.HasHalfInning() {
			for halfIndex(s.State.Inning, s.State.Half) < halfIndex(p.Inning, p.Half) {
				sig := s.Advance()
				pending.ChangeInning = true
				pending.ChangePitcher = pending.ChangePitcher || sig.ChangePitcher
			}
		}

		sig := s.Apply(p)
		sig.ChangeInning = sig.ChangeInning || pending.ChangeInning
		sig.ChangePitcher = sig.ChangePitcher || pending.ChangePitcher
		rows = append(rows, report.ReplayRow{
			Seq:     p.Seq,
			Pitcher: p.Pitcher,
			Batter:  p.Batter,
			Type:    p.Type,
			Result:  p.Result,
			Hit:     p.Hit,
			State:   s.State,
			Signals: sig,
		})
	}
	return rows
}

// halfIndex orders half-innings: top 1 = 2, bottom 1 = 3, top 2 = 4, ...
func halfIndex(inning int, half model.Half) int {
	i := inning * 2
	if half == model.HalfBottom {
		i++
	}
	return i
}
