package situation

import "github.com/pable/go-pitch-metrics/internal/model"

// Session owns the situational state of one live charting session. It is not
// safe for concurrent use; each charted game gets its own Session.
type Session struct {
	State   model.SituationalState
	Innings int // scheduled innings; 0 means no end
	Opts    Options

	// PitchCount counts pitches thrown by the current pitcher. It only resets
	// on ChangePitcher; a new inning keeps the count.
	PitchCount int
}

// NewSession starts a session at state.
func NewSession(state model.SituationalState, innings int, opts Options) *Session {
	return &Session{State: state, Innings: innings, Opts: opts}
}

// Apply feeds one pitch through Transition and updates the session.
func (s *Session) Apply(p model.PitchEvent) model.Signals {
	next, sig := Transition(s.State, p, p.Hit, s.Opts)
	s.State = next
	s.PitchCount++
	return sig
}

// Advance manually ends the half-inning; used when auto outs are disabled.
func (s *Session) Advance() model.Signals {
	next, sig := AdvanceHalf(s.State)
	s.State = next
	return sig
}

// ChangePitcher resets the pitch count for a reliever.
func (s *Session) ChangePitcher() {
	s.PitchCount = 0
}

// Over reports whether the scheduled innings have been played.
func (s *Session) Over() bool {
	return s.Innings > 0 && s.State.Inning > s.Innings
}
