package tto

import (
	"testing"

	"github.com/pable/go-pitch-metrics/internal/model"
)

func pitch(batter string, inning int, half model.Half, ts int64) model.PitchEvent {
	return model.PitchEvent{
		Type:      model.PitchFastball,
		Result:    model.ResultBall,
		Inning:    inning,
		Half:      half,
		Timestamp: ts,
		Pitcher:   "Ace",
		Batter:    batter,
		BatHand:   model.HandRight,
	}
}

func TestAssign_NewHalfInningIncrements(t *testing.T) {
	in := []model.PitchEvent{
		pitch("Smith", 1, model.HalfTop, 100),
		pitch("Smith", 1, model.HalfTop, 110),
		pitch("Jones", 1, model.HalfTop, 120),
		pitch("Smith", 3, model.HalfTop, 300),
		pitch("Smith", 6, model.HalfTop, 600),
		pitch("Smith", 8, model.HalfTop, 800),
	}
	out := Assign(in)
	want := []int{1, 1, 1, 2, 3, 4}
	for i, p := range out {
		if p.TTO != want[i] {
			t.Errorf("pitch %d (%s inning %d): tto=%d, want %d", i, p.Batter, p.Inning, p.TTO, want[i])
		}
	}
	if Bucket(out[5].TTO) != "3+" {
		t.Errorf("expected 4th time through to bucket as 3+, got %q", Bucket(out[5].TTO))
	}
}

func TestAssign_BattingAroundKeepsAppearance(t *testing.T) {
	// Same batter twice in one half-inning is not a new TTO.
	in := []model.PitchEvent{
		pitch("Smith", 2, model.HalfBottom, 10),
		pitch("Jones", 2, model.HalfBottom, 20),
		pitch("Smith", 2, model.HalfBottom, 30),
	}
	out := Assign(in)
	if out[2].TTO != 1 {
		t.Errorf("expected tto=1 when batting around, got %d", out[2].TTO)
	}
}

func TestAssign_SortsByInningThenTimestamp(t *testing.T) {
	in := []model.PitchEvent{
		pitch("Smith", 4, model.HalfTop, 50),
		pitch("Smith", 1, model.HalfTop, 900),
		pitch("Jones", 1, model.HalfTop, 0), // missing timestamp sorts first
	}
	out := Assign(in)
	if out[0].Batter != "Jones" || out[1].Inning != 1 || out[2].Inning != 4 {
		t.Fatalf("unexpected order: %+v", out)
	}
	if out[1].TTO != 1 || out[2].TTO != 2 {
		t.Errorf("expected Smith tto 1 then 2, got %d then %d", out[1].TTO, out[2].TTO)
	}
}

func TestAssign_MissingHalfInningUntagged(t *testing.T) {
	in := []model.PitchEvent{
		pitch("Smith", 1, model.HalfTop, 1),
		pitch("Smith", 0, model.HalfTop, 2),
		pitch("Smith", 2, model.HalfUnknown, 3),
		pitch("Smith", 3, model.HalfTop, 4),
	}
	out := Assign(in)
	tagged := 0
	for _, p := range out {
		if !p.HasHalfInning() {
			if p.TTO != 0 {
				t.Errorf("untaggable pitch got tto=%d", p.TTO)
			}
			continue
		}
		tagged++
	}
	if tagged != 2 {
		t.Fatalf("expected 2 tagged pitches, got %d", tagged)
	}
	// The untaggable pitches do not count as appearances.
	if out[len(out)-1].TTO != 2 {
		t.Errorf("expected inning 3 pitch tto=2, got %d", out[len(out)-1].TTO)
	}
}

func TestAssign_MonotonicPerBatter(t *testing.T) {
	var in []model.PitchEvent
	batters := []string{"A", "B", "C", "D"}
	ts := int64(0)
	for inning := 1; inning <= 9; inning++ {
		for _, b := range batters[inning%2:] {
			ts++
			in = append(in, pitch(b, inning, model.HalfTop, ts))
		}
	}
	out := Assign(in)
	last := make(map[string]int)
	for _, p := range out {
		prev, ok := last[p.Batter]
		if !ok && p.TTO != 1 {
			t.Errorf("first tto for %s = %d, want 1", p.Batter, p.TTO)
		}
		if p.TTO < prev {
			t.Errorf("tto for %s decreased from %d to %d", p.Batter, prev, p.TTO)
		}
		last[p.Batter] = p.TTO
	}
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	in := []model.PitchEvent{
		pitch("Smith", 2, model.HalfTop, 2),
		pitch("Smith", 1, model.HalfTop, 1),
	}
	Assign(in)
	if in[0].Inning != 2 || in[0].TTO != 0 || in[1].TTO != 0 {
		t.Errorf("input was modified: %+v", in)
	}
}

func TestBucket(t *testing.T) {
	cases := map[int]string{0: "", 1: "1", 2: "2", 3: "3+", 7: "3+"}
	for in, want := range cases {
		if got := Bucket(in); got != want {
			t.Errorf("Bucket(%d) = %q, want %q", in, got, want)
		}
	}
}
