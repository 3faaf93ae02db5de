package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

func velo(v float64) *float64 { return &v }

func samplePitches() []model.PitchEvent {
	mk := func(pt model.PitchType, r model.PitchResult, mph float64, inning int, batter string) model.PitchEvent {
		return model.PitchEvent{
			Type: pt, Result: r, Velocity: velo(mph),
			Location: &model.Location{X: 0, Y: 30},
			Inning:   inning, Half: model.HalfTop,
			Pitcher: "Ace", Batter: batter, BatHand: model.HandRight,
		}
	}
	return []model.PitchEvent{
		mk(model.PitchFastball, model.ResultCalledStrike, 94, 1, "A"),
		mk(model.PitchSlider, model.ResultSwingingStrike, 85, 1, "A"),
		mk(model.PitchFastball, model.ResultBall, 95, 1, "A"),
		mk(model.PitchFastball, model.ResultFoul, 93, 4, "A"),
		mk(model.PitchSlider, model.ResultRunnerOneOut, 86, 4, "A"),
	}
}

func TestPrintPitchMix(t *testing.T) {
	var buf bytes.Buffer
	PrintPitchMix(&buf, "Ace", aggregator.Aggregate(samplePitches()))
	out := buf.String()

	for _, want := range []string{"Ace (5 pitches)", "PITCH", "USAGE%", "CSW%", "Fastball", "Slider", "60.0", "40.0", "94.0", "VERY_LOW"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Fastball") > strings.Index(out, "Slider") {
		t.Errorf("fastball should be listed before slider:\n%s", out)
	}
}

func TestPrintPitchMixEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintPitchMix(&buf, "Nobody", aggregator.Aggregate(nil))
	if !strings.Contains(buf.String(), "no pitches") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestPrintOutcomeTable(t *testing.T) {
	var buf bytes.Buffer
	PrintOutcomeTable(&buf, aggregator.Aggregate(samplePitches()))
	out := buf.String()
	if !strings.Contains(out, "WHIFF") || !strings.Contains(out, "OTHER") {
		t.Errorf("missing headers:\n%s", out)
	}
	// The baserunner tag on the slider lands in OTHER.
	var sliderLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Slider") {
			sliderLine = line
		}
	}
	fields := strings.FieldsFunc(sliderLine, func(r rune) bool { return r == '|' || r == '│' })
	last := strings.TrimSpace(fields[len(fields)-1])
	if last != "1" {
		t.Errorf("slider OTHER = %q, want 1 (line %q)", last, sliderLine)
	}
}

func TestPrintTTOSplit(t *testing.T) {
	split := aggregator.BuildTTOSplit(samplePitches(), "Ace", model.HandRight)
	var buf bytes.Buffer
	PrintTTOSplit(&buf, split)
	out := buf.String()

	for _, want := range []string{"Pitcher: Ace", "vs RHB", "Overall", "USAGE% 1", "CSW% 3+", "Times through order: 1", "Times through order: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Times through order: 3+") {
		t.Errorf("empty bucket should not get its own table:\n%s", out)
	}
}

func TestPrintStateReplay(t *testing.T) {
	rows := []ReplayRow{
		{
			Seq: 0, Pitcher: "Ace", Batter: "Smith", Type: model.PitchFastball, Result: model.ResultCalledStrike,
			State: model.SituationalState{Strikes: 1, Inning: 1, Half: model.HalfTop},
		},
		{
			Seq: 1, Pitcher: "Ace", Batter: "Smith", Type: model.PitchSlider, Result: model.ResultInPlay,
			Hit:     &model.HitEvent{Result: model.HitDoublePlay, Hard: true},
			State:   model.SituationalState{Inning: 1, Half: model.HalfBottom},
			Signals: model.Signals{ChangeBatter: true, ChangeInning: true},
		},
	}
	var buf bytes.Buffer
	PrintStateReplay(&buf, rows)
	out := buf.String()
	for _, want := range []string{"0-1", "Top 1", "Bottom 1", "in_play / double_play (hard)", "new batter, new half"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSignals(t *testing.T) {
	if got := FormatSignals(model.Signals{}); got != "" {
		t.Errorf("no signals = %q", got)
	}
	got := FormatSignals(model.Signals{ChangeBatter: true, ChangeInning: true, ChangePitcher: true})
	if got != "new batter, new half, pitching change" {
		t.Errorf("all signals = %q", got)
	}
}

func TestPrintGameList(t *testing.T) {
	games := []model.GameSummary{
		{ID: "0123456789abcdef", Hash: "feedfacecafebeef00", Label: "opener", ImportedAt: time.Now(), Pitches: 140, Innings: 9},
		{ID: "live-1", Label: "scrimmage", ImportedAt: time.Now(), Pitches: 12, Innings: 2},
	}
	var buf bytes.Buffer
	PrintGameList(&buf, games)
	out := buf.String()
	for _, want := range []string{"01234567", "opener", "log feedfacecafe", "charted", "140"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"a"}, nil)
	if !strings.Contains(buf.String(), "(no rows)") {
		t.Errorf("expected no-rows notice, got %q", buf.String())
	}
	buf.Reset()
	PrintQueryResult(&buf, []string{"pitch_type", "n"}, [][]string{{"FASTBALL", "3"}})
	if !strings.Contains(buf.String(), "FASTBALL") || !strings.Contains(buf.String(), "(1 rows)") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintOverview(t *testing.T) {
	ov := storage.Overview{
		Games: 3, ImportedGames: 2, Pitches: 10, Pitchers: 2, Sessions: 1,
		Earliest: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		Latest:   time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC),
	}
	types := []storage.TypeCount{
		{PitchType: "FASTBALL", Pitches: 6, AvgVelo: 94.3, HasVelo: true},
		{PitchType: "SLIDER", Pitches: 4},
	}
	pitchers := []storage.PitcherActivity{{Name: "Ace", Games: 3, Pitches: 9}}

	var buf bytes.Buffer
	PrintOverview(&buf, ov, types, pitchers)
	out := buf.String()
	for _, want := range []string{"3 (2 imported, 1 charted)", "2025-04-01", "Fastball", "60.0", "94.3", "Slider", "40.0", "Ace"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTrendTable(t *testing.T) {
	rows := []TrendRow{
		{Label: "opener", ImportedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC), Mix: aggregator.Aggregate(samplePitches())},
		{Label: "no-show", ImportedAt: time.Date(2025, 4, 6, 12, 0, 0, 0, time.UTC), Mix: aggregator.Aggregate(nil)},
	}
	var buf bytes.Buffer
	PrintTrendTable(&buf, rows)
	out := buf.String()
	// Five pitches: three fastballs (94, 95, 93), two CSW, all in the zone.
	for _, want := range []string{"opener", "Fastball 60.0%", "94.0", "95.0", "100.0", "40.0", "no-show"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
