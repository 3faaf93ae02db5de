package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/storage"
	"github.com/pable/go-pitch-metrics/internal/tto"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGameSummary prints a one-line summary header for the game.
func PrintGameSummary(w io.Writer, g model.GameSummary) {
	fmt.Fprintf(w, "\nGame: %s  |  Imported: %s  |  Pitches: %d  |  Innings: %d  |  ID: %s\n\n",
		g.Label, g.ImportedAt.Local().Format("2006-01-02 15:04"), g.Pitches, g.Innings, shortID(g.ID))
}

// PrintGameList prints all stored games, one row each.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("ID", "LABEL", "IMPORTED", "PITCHES", "INNINGS", "SOURCE")
	for _, g := range games {
		source := "charted"
		if g.Hash != "" {
			source = "log " + g.Hash[:min(12, len(g.Hash))]
		}
		table.Append(
			shortID(g.ID),
			g.Label,
			g.ImportedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(g.Pitches),
			strconv.Itoa(g.Innings),
			source,
		)
	}
	table.Render()
}

// PrintPitchMix prints one row per pitch type, most used first.
// Columns: PITCH | N | USAGE% | AVG_VELO | MAX_VELO | ZONE% | CSW% | HARD_HIT% | SAMPLE
func PrintPitchMix(w io.Writer, title string, res *aggregator.Result) {
	if title != "" {
		fmt.Fprintf(w, "%s (%d pitches)\n", title, res.Total)
	}
	if res.Total == 0 {
		fmt.Fprintln(w, "  no pitches")
		fmt.Fprintln(w)
		return
	}

	table := newTable(w)
	table.Header("PITCH", "N", "USAGE%", "AVG_VELO", "MAX_VELO", "ZONE%", "CSW%", "HARD_HIT%", "SAMPLE")
	for _, s := range res.Ordered() {
		table.Append(
			s.Label,
			strconv.Itoa(s.Count),
			s.Usage,
			s.AvgVelo,
			s.MaxVelo,
			s.ZoneRate,
			s.CSWRate,
			s.HardHitRate,
			sampleFlag(s.Count),
		)
	}
	table.Render()
	fmt.Fprintln(w)
}

// outcomeColumns are the result tags broken out by PrintOutcomeTable.
var outcomeColumns = []model.PitchResult{
	model.ResultBall,
	model.ResultCalledStrike,
	model.ResultSwingingStrike,
	model.ResultFoul,
	model.ResultInPlay,
	model.ResultStrikeoutLooking,
	model.ResultStrikeoutSwinging,
	model.ResultWalk,
	model.ResultHBP,
}

// PrintOutcomeTable prints per-type outcome counts. Results outside the
// listed columns, baserunner tags included, are summed under OTHER.
func PrintOutcomeTable(w io.Writer, res *aggregator.Result) {
	if res.Total == 0 {
		return
	}
	table := newTable(w)
	table.Header("PITCH", "BALL", "CALLED", "WHIFF", "FOUL", "IN_PLAY", "K_LOOK", "K_SWING", "BB", "HBP", "OTHER")
	for _, s := range res.Ordered() {
		row := []any{s.Label}
		listed := 0
		for _, r := range outcomeColumns {
			row = append(row, strconv.Itoa(s.Outcomes[r]))
			listed += s.Outcomes[r]
		}
		row = append(row, strconv.Itoa(s.Count-listed))
		table.Append(row...)
	}
	table.Render()
	fmt.Fprintln(w)
}

// PrintTTOSplit prints the pitcher's overall mix against the split's hand,
// then a usage/CSW comparison across times through the order, then the
// full mix of each non-empty bucket.
func PrintTTOSplit(w io.Writer, split aggregator.TTOSplit) {
	fmt.Fprintf(w, "\nPitcher: %s  |  vs %s\n\n", split.Pitcher, handLabel(split.Hand))
	PrintPitchMix(w, "Overall", split.Overall)
	if split.Overall.Total == 0 {
		return
	}

	table := newTable(w)
	header := []any{"PITCH"}
	for _, b := range tto.Buckets {
		header = append(header, "USAGE% "+b)
	}
	for _, b := range tto.Buckets {
		header = append(header, "CSW% "+b)
	}
	table.Header(header...)
	for _, s := range split.Overall.Ordered() {
		row := []any{s.Label}
		for _, b := range tto.Buckets {
			row = append(row, bucketCell(split.Buckets[b], s.Type, func(p *aggregator.PitchTypeStats) string { return p.Usage }))
		}
		for _, b := range tto.Buckets {
			row = append(row, bucketCell(split.Buckets[b], s.Type, func(p *aggregator.PitchTypeStats) string { return p.CSWRate }))
		}
		table.Append(row...)
	}
	table.Render()
	fmt.Fprintln(w)

	for _, b := range tto.Buckets {
		res := split.Buckets[b]
		if res == nil || res.Total == 0 {
			continue
		}
		PrintPitchMix(w, "Times through order: "+b, res)
	}
	if split.Untagged > 0 {
		fmt.Fprintf(w, "%d pitches without inning or half were left out of the split.\n", split.Untagged)
	}
}

func bucketCell(res *aggregator.Result, t model.PitchType, field func(*aggregator.PitchTypeStats) string) string {
	if res == nil {
		return aggregator.NoVelocity
	}
	s := res.ByType[t]
	if s == nil {
		return aggregator.NoVelocity
	}
	return field(s)
}

// ReplayRow is the state of a game after one charted event.
type ReplayRow struct {
	Seq     int
	Pitcher string
	Batter  string
	Type    model.PitchType
	Result  model.PitchResult
	Hit     *model.HitEvent
	State   model.SituationalState
	Signals model.Signals
}

// PrintStateReplay prints one row per event with the count, outs and
// half-inning that followed it.
func PrintStateReplay(w io.Writer, rows []ReplayRow) {
	table := newTable(w)
	table.Header("#", "PITCHER", "BATTER", "PITCH", "RESULT", "COUNT", "OUTS", "INNING", "SIGNALS")
	for _, r := range rows {
		result := string(r.Result)
		if r.Hit != nil && r.Hit.Result != "" {
			result += " / " + string(r.Hit.Result)
			if r.Hit.Hard {
				result += " (hard)"
			}
		}
		table.Append(
			strconv.Itoa(r.Seq),
			r.Pitcher,
			r.Batter,
			r.Type.Display(),
			result,
			FormatCount(r.State),
			strconv.Itoa(r.State.Outs),
			FormatInning(r.State),
			FormatSignals(r.Signals),
		)
	}
	table.Render()
}

// FormatCount renders balls and strikes as "B-S".
func FormatCount(s model.SituationalState) string {
	return fmt.Sprintf("%d-%d", s.Balls, s.Strikes)
}

// FormatInning renders the half-inning, e.g. "Top 3".
func FormatInning(s model.SituationalState) string {
	return fmt.Sprintf("%s %d", s.Half, s.Inning)
}

// FormatSignals lists the raised signals, or "" when none are.
func FormatSignals(sig model.Signals) string {
	var parts []string
	if sig.ChangeBatter {
		parts = append(parts, "new batter")
	}
	if sig.ChangeInning {
		parts = append(parts, "new half")
	}
	if sig.ChangePitcher {
		parts = append(parts, "pitching change")
	}
	return strings.Join(parts, ", ")
}

// PrintQueryResult prints the rows of a raw SQL query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

// PrintOverview prints database-wide counts, the pitch type breakdown and
// the most charted pitchers.
func PrintOverview(w io.Writer, ov storage.Overview, types []storage.TypeCount, pitchers []storage.PitcherActivity) {
	fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(w, "  Games stored  : %d (%d imported, %d charted)\n", ov.Games, ov.ImportedGames, ov.Games-ov.ImportedGames)
	if !ov.Earliest.IsZero() {
		fmt.Fprintf(w, "  Date range    : %s to %s\n", ov.Earliest.Local().Format("2006-01-02"), ov.Latest.Local().Format("2006-01-02"))
	}
	fmt.Fprintf(w, "  Pitches       : %d\n", ov.Pitches)
	fmt.Fprintf(w, "  Pitchers seen : %d\n", ov.Pitchers)
	fmt.Fprintf(w, "  Sessions      : %d\n", ov.Sessions)

	if len(types) > 0 {
		fmt.Fprintf(w, "\n--- Pitch Types ---\n\n")
		table := newTable(w)
		table.Header("PITCH", "N", "SHARE%", "AVG_VELO")
		for _, t := range types {
			avg := aggregator.NoVelocity
			if t.HasVelo {
				avg = fmt.Sprintf("%.1f", t.AvgVelo)
			}
			share := 0.0
			if ov.Pitches > 0 {
				share = float64(t.Pitches) / float64(ov.Pitches) * 100
			}
			table.Append(model.PitchType(t.PitchType).Display(), strconv.Itoa(t.Pitches), fmt.Sprintf("%.1f", share), avg)
		}
		table.Render()
	}

	if len(pitchers) > 0 {
		fmt.Fprintf(w, "\n--- Most Charted Pitchers ---\n\n")
		table := newTable(w)
		table.Header("PITCHER", "GAMES", "PITCHES")
		for _, p := range pitchers {
			table.Append(p.Name, strconv.Itoa(p.Games), strconv.Itoa(p.Pitches))
		}
		table.Render()
	}
}

// TrendRow is one game of a pitcher's trend.
type TrendRow struct {
	GameID     string
	Label      string
	ImportedAt time.Time
	Mix        *aggregator.Result
}

// PrintTrendTable prints one row per game, oldest first: pitch count, primary
// pitch, fastball velocity and the overall zone and CSW rates.
func PrintTrendTable(w io.Writer, rows []TrendRow) {
	table := newTable(w)
	table.Header("DATE", "GAME", "N", "TYPES", "PRIMARY", "FB_AVG", "FB_MAX", "ZONE%", "CSW%")
	for _, r := range rows {
		primary := aggregator.NoVelocity
		var inZone, csw int
		ordered := r.Mix.Ordered()
		if len(ordered) > 0 {
			primary = fmt.Sprintf("%s %s%%", ordered[0].Label, ordered[0].Usage)
		}
		for _, s := range ordered {
			inZone += s.InZone
			csw += s.CSW()
		}
		fbAvg, fbMax := aggregator.NoVelocity, aggregator.NoVelocity
		if fb := r.Mix.ByType[model.PitchFastball]; fb != nil {
			fbAvg, fbMax = fb.AvgVelo, fb.MaxVelo
		}
		table.Append(
			r.ImportedAt.Local().Format("2006-01-02"),
			r.Label,
			strconv.Itoa(r.Mix.Total),
			strconv.Itoa(len(ordered)),
			primary,
			fbAvg,
			fbMax,
			rate(inZone, r.Mix.Total),
			rate(csw, r.Mix.Total),
		)
	}
	table.Render()
}

func rate(num, den int) string {
	if den == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(num)/float64(den)*100)
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

func handLabel(h model.Hand) string {
	switch h {
	case model.HandLeft:
		return "LHB"
	case model.HandRight:
		return "RHB"
	default:
		return "all batters"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
