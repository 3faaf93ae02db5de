package situation

import (
	"testing"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// strikeout feeds three swinging strikes.
func strikeout(s *Session) model.Signals {
	var sig model.Signals
	for i := 0; i < 3; i++ {
		sig = s.Apply(ev(model.ResultSwingingStrike))
	}
	return sig
}

func TestSession_PlaysScheduledInnings(t *testing.T) {
	s := NewSession(model.InitialState(), 2, Options{})
	halves := 0
	for !s.Over() {
		if sig := strikeout(s); sig.ChangeInning {
			halves++
		}
		if halves > 10 {
			t.Fatal("session never ended")
		}
	}
	if halves != 4 {
		t.Errorf("expected 4 half-innings in a 2-inning game, got %d", halves)
	}
	if s.State.Inning != 3 || s.State.Half != model.HalfTop {
		t.Errorf("unexpected final state %+v", s.State)
	}
}

func TestSession_PitchCountSpansInnings(t *testing.T) {
	s := NewSession(st(0, 0, 2, 1, model.HalfBottom), 0, Options{})
	s.Apply(ev(model.ResultBall))
	if s.PitchCount != 1 {
		t.Fatalf("pitch count %d, want 1", s.PitchCount)
	}
	sig := strikeout(s)
	if !sig.ChangePitcher {
		t.Fatal("expected pitcher change signal leaving the bottom half")
	}
	if s.PitchCount != 4 {
		t.Errorf("pitch count %d after a new inning, want 4", s.PitchCount)
	}
	s.Advance()
	if s.PitchCount != 4 {
		t.Errorf("pitch count %d after advance, want 4", s.PitchCount)
	}
	s.ChangePitcher()
	if s.PitchCount != 0 {
		t.Errorf("pitch count %d after ChangePitcher, want 0", s.PitchCount)
	}
	s.Apply(ev(model.ResultBall))
	if s.PitchCount != 1 {
		t.Errorf("reliever pitch count %d, want 1", s.PitchCount)
	}
	if s.Over() {
		t.Error("session without scheduled innings should never be over")
	}
}

func TestSession_ManualAdvance(t *testing.T) {
	s := NewSession(model.InitialState(), 9, Options{DisableAutoOuts: true})
	for i := 0; i < 3; i++ {
		strikeout(s)
	}
	if s.State.Outs != 3 || s.State.Half != model.HalfTop {
		t.Fatalf("expected 3 outs in the top half, got %+v", s.State)
	}
	sig := s.Advance()
	if !sig.ChangeInning || s.State.Half != model.HalfBottom || s.State.Outs != 0 {
		t.Errorf("advance gave %+v %+v", s.State, sig)
	}
}
