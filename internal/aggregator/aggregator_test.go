package aggregator

import (
	"reflect"
	"testing"

	"github.com/pable/go-pitch-metrics/internal/model"
)

func velo(v float64) *float64 { return &v }

// makePitch builds a located pitch in the middle of the zone.
func makePitch(pt model.PitchType, result model.PitchResult, mph float64) model.PitchEvent {
	return model.PitchEvent{
		Type:     pt,
		Result:   result,
		Velocity: velo(mph),
		Location: &model.Location{X: 0, Y: 30},
		Inning:   1,
		Half:     model.HalfTop,
		Pitcher:  "Ace",
		Batter:   "Smith",
		BatHand:  model.HandRight,
	}
}

// ---- Single-type scenario ----

func TestAggregate_FastballScenario(t *testing.T) {
	hard := makePitch(model.PitchFastball, model.ResultInPlay, 93)
	hard.Hit = &model.HitEvent{Result: model.HitFieldOut, Hard: true}
	pitches := []model.PitchEvent{
		makePitch(model.PitchFastball, model.ResultCalledStrike, 90),
		makePitch(model.PitchFastball, model.ResultCalledStrike, 92),
		makePitch(model.PitchFastball, model.ResultBall, 91),
		hard,
	}

	res := Aggregate(pitches)
	if res.Total != 4 {
		t.Fatalf("total = %d, want 4", res.Total)
	}
	fb := res.ByType[model.PitchFastball]
	if fb == nil {
		t.Fatal("missing FASTBALL aggregate")
	}
	checks := []struct{ name, got, want string }{
		{"usage", fb.Usage, "100.0"},
		{"avgVelo", fb.AvgVelo, "91.5"},
		{"maxVelo", fb.MaxVelo, "93.0"},
		{"cswRate", fb.CSWRate, "50.0"},
		{"hardHitRate", fb.HardHitRate, "100.0"},
		{"zoneRate", fb.ZoneRate, "100.0"},
		{"label", fb.Label, "Fastball"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if fb.Count != 4 || fb.BattedBalls != 1 || fb.HardHit != 1 {
		t.Errorf("counters: count=%d batted=%d hard=%d", fb.Count, fb.BattedBalls, fb.HardHit)
	}
}

func TestAggregate_MissingLocationStillCounted(t *testing.T) {
	noLoc := makePitch(model.PitchSlider, model.ResultSwingingStrike, 84)
	noLoc.Location = nil
	pitches := []model.PitchEvent{
		makePitch(model.PitchSlider, model.ResultBall, 85),
		noLoc,
	}
	sl := Aggregate(pitches).ByType[model.PitchSlider]
	if sl.Count != 2 {
		t.Fatalf("count = %d, want 2", sl.Count)
	}
	if sl.ZoneRate != "50.0" {
		t.Errorf("zoneRate = %q, want 50.0", sl.ZoneRate)
	}
	if sl.CSWRate != "50.0" {
		t.Errorf("cswRate = %q, want 50.0", sl.CSWRate)
	}
}

func TestAggregate_OutOfZone(t *testing.T) {
	p := makePitch(model.PitchCurveball, model.ResultBall, 78)
	p.Location = &model.Location{X: 100, Y: 30}
	cb := Aggregate([]model.PitchEvent{p}).ByType[model.PitchCurveball]
	if cb.ZoneRate != "0.0" {
		t.Errorf("zoneRate = %q, want 0.0", cb.ZoneRate)
	}
}

func TestAggregate_SkipsIncompletePitches(t *testing.T) {
	noType := makePitch("", model.ResultBall, 90)
	noResult := makePitch(model.PitchSinker, "", 90)
	a := New()
	if a.Add(noType) || a.Add(noResult) {
		t.Error("expected incomplete pitches to be rejected")
	}
	a.Add(makePitch(model.PitchSinker, model.ResultFoul, 93))
	res := a.Result()
	if res.Total != 1 || res.Input != 3 || a.Skipped() != 2 {
		t.Errorf("total=%d input=%d skipped=%d, want 1, 3 and 2", res.Total, res.Input, a.Skipped())
	}
	// Skipped pitches stay in the usage denominator.
	if res.ByType[model.PitchSinker].Usage != "33.3" {
		t.Errorf("usage = %q, want 33.3", res.ByType[model.PitchSinker].Usage)
	}
}

func TestAggregate_UsageCountsEveryInputPitch(t *testing.T) {
	noResult := makePitch(model.PitchFastball, "", 92)
	noType := makePitch("", model.ResultBall, 80)
	pitches := []model.PitchEvent{
		makePitch(model.PitchFastball, model.ResultBall, 94),
		noResult,
		makePitch(model.PitchSlider, model.ResultCalledStrike, 85),
		noType,
	}
	res := Aggregate(pitches)
	if res.Total != 2 || res.Input != 4 {
		t.Fatalf("total=%d input=%d, want 2 and 4", res.Total, res.Input)
	}
	fb, sl := res.ByType[model.PitchFastball], res.ByType[model.PitchSlider]
	if fb.Usage != "25.0" || sl.Usage != "25.0" {
		t.Errorf("usage fastball=%q slider=%q, want 25.0 each", fb.Usage, sl.Usage)
	}
	// Per-type rates still use the type's own pitches.
	if fb.Count != 1 || sl.CSWRate != "100.0" {
		t.Errorf("fastball count=%d slider csw=%q", fb.Count, sl.CSWRate)
	}

	a := New()
	for i, p := range pitches {
		a.Add(p)
		if !reflect.DeepEqual(a.Result(), Aggregate(pitches[:i+1])) {
			t.Fatalf("after pitch %d incremental != scratch", i)
		}
	}
}

func TestAggregate_NoVelocitySentinel(t *testing.T) {
	p := makePitch(model.PitchChangeup, model.ResultBall, 0)
	p.Velocity = nil
	ch := Aggregate([]model.PitchEvent{p}).ByType[model.PitchChangeup]
	if ch.AvgVelo != NoVelocity || ch.MaxVelo != NoVelocity {
		t.Errorf("velo = %q/%q, want %q", ch.AvgVelo, ch.MaxVelo, NoVelocity)
	}
	if ch.HardHitRate != "0.0" {
		t.Errorf("hardHitRate with no batted balls = %q, want 0.0", ch.HardHitRate)
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil)
	if res.Total != 0 || len(res.ByType) != 0 || len(res.Ordered()) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

// ---- Multi-type ordering ----

func TestOrdered_UsageDescendingStable(t *testing.T) {
	pitches := []model.PitchEvent{
		makePitch(model.PitchCurveball, model.ResultBall, 78),
		makePitch(model.PitchSlider, model.ResultBall, 85),
		makePitch(model.PitchFastball, model.ResultBall, 95),
		makePitch(model.PitchFastball, model.ResultBall, 96),
		makePitch(model.PitchSlider, model.ResultBall, 86),
		makePitch(model.PitchChangeup, model.ResultBall, 86),
	}
	res := Aggregate(pitches)
	var got []model.PitchType
	for _, s := range res.Ordered() {
		got = append(got, s.Type)
	}
	// Slider was seen before fastball, curveball before changeup.
	want := []model.PitchType{model.PitchSlider, model.PitchFastball, model.PitchCurveball, model.PitchChangeup}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if res.ByType[model.PitchSlider].Usage != "33.3" || res.ByType[model.PitchCurveball].Usage != "16.7" {
		t.Errorf("usage slider=%q curveball=%q", res.ByType[model.PitchSlider].Usage, res.ByType[model.PitchCurveball].Usage)
	}
}

func TestOrdered_EqualDisplayedUsageKeepsFirstSeen(t *testing.T) {
	var pitches []model.PitchEvent
	for i := 0; i < 1000; i++ {
		pitches = append(pitches, makePitch(model.PitchSlider, model.ResultBall, 85))
	}
	for i := 0; i < 1001; i++ {
		pitches = append(pitches, makePitch(model.PitchFastball, model.ResultBall, 95))
	}
	res := Aggregate(pitches)
	sl, fb := res.ByType[model.PitchSlider], res.ByType[model.PitchFastball]
	if sl.Usage != "50.0" || fb.Usage != "50.0" {
		t.Fatalf("usage slider=%q fastball=%q, want 50.0 each", sl.Usage, fb.Usage)
	}
	ordered := res.Ordered()
	if ordered[0].Type != model.PitchSlider || ordered[1].Type != model.PitchFastball {
		t.Errorf("order = %s, %s; want SLIDER first", ordered[0].Type, ordered[1].Type)
	}
}

// ---- Incremental vs from-scratch ----

func mixedGame() []model.PitchEvent {
	inPlay := makePitch(model.PitchSlider, model.ResultInPlay, 86)
	inPlay.Hit = &model.HitEvent{Result: model.HitDoublePlay}
	noVelo := makePitch(model.PitchFastball, model.ResultStrikeoutSwinging, 0)
	noVelo.Velocity = nil
	return []model.PitchEvent{
		makePitch(model.PitchFastball, model.ResultCalledStrike, 94),
		makePitch(model.PitchSlider, model.ResultSwingingStrike, 85),
		inPlay,
		noVelo,
		makePitch(model.PitchChangeup, model.ResultFoul, 87),
		makePitch(model.PitchFastball, model.ResultStrikeoutLooking, 95.6),
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	pitches := mixedGame()
	first := Aggregate(pitches)
	second := Aggregate(pitches)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-aggregation differs:\n%+v\n%+v", first, second)
	}
}

func TestAggregator_IncrementalMatchesScratch(t *testing.T) {
	pitches := mixedGame()
	a := New()
	for i, p := range pitches {
		a.Add(p)
		scratch := Aggregate(pitches[:i+1])
		if !reflect.DeepEqual(a.Result(), scratch) {
			t.Fatalf("after pitch %d incremental != scratch:\n%+v\n%+v", i, a.Result(), scratch)
		}
	}
	fb := a.Result().ByType[model.PitchFastball]
	if fb.CSWRate != "100.0" || fb.AvgVelo != "94.8" || fb.MaxVelo != "95.6" {
		t.Errorf("fastball csw=%q avg=%q max=%q", fb.CSWRate, fb.AvgVelo, fb.MaxVelo)
	}
}
