// Package situation advances the live count, outs and half-inning of a
// charted game one pitch at a time.
package situation

import "github.com/pable/go-pitch-metrics/internal/model"

const (
	maxBalls   = 3
	maxStrikes = 2
	maxOuts    = 3
)

// Options adjust a single transition.
type Options struct {
	// DisableAutoOuts leaves outs at 3 instead of rolling the half-inning;
	// the caller advances manually with AdvanceHalf.
	DisableAutoOuts bool

	// OnUnknown, when set, is called with any result tag Transition does not
	// recognize. Unknown results never change the state.
	OnUnknown func(result model.PitchResult)
}

// Transition returns the state after pitch (and its batted ball, if any).
// It never modifies its inputs. Rules apply in order, and later rules may
// override counts set by earlier ones.
func Transition(state model.SituationalState, pitch model.PitchEvent, hit *model.HitEvent, opts Options) (model.SituationalState, model.Signals) {
	next := state
	var sig model.Signals
	r := pitch.Result

	if !r.Known() && opts.OnUnknown != nil {
		opts.OnUnknown(r)
	}

	// A foul with two strikes leaves the count alone.
	if r.IsStrikeLike() && !(r == model.ResultFoul && next.Strikes >= maxStrikes) {
		next.Strikes++
	}
	if r == model.ResultBall {
		next.Balls++
	}

	if r.IsStrikeout() {
		next.Balls, next.Strikes = 0, 0
		next.Outs = addOuts(next.Outs, 1)
		sig.ChangeBatter = true
	}
	if r == model.ResultWalk || r == model.ResultHBP {
		next.Balls, next.Strikes = 0, 0
		sig.ChangeBatter = true
	}

	// Walk and strikeout by count.
	if next.Balls > maxBalls {
		next.Balls, next.Strikes = 0, 0
		sig.ChangeBatter = true
	}
	if next.Strikes > maxStrikes {
		next.Balls, next.Strikes = 0, 0
		next.Outs = addOuts(next.Outs, 1)
		sig.ChangeBatter = true
	}

	// Outs made on the bases mid plate appearance keep the count.
	if n := r.RunnerOuts(); n > 0 {
		next.Outs = addOuts(next.Outs, n)
	}

	if r == model.ResultInPlay {
		if hit != nil {
			if hit.Result == model.HitTriplePlay {
				next.Outs = maxOuts
			} else {
				next.Outs = addOuts(next.Outs, hit.Result.Outs())
			}
		}
		next.Balls, next.Strikes = 0, 0
		sig.ChangeBatter = true
	}

	if next.Outs >= maxOuts && !opts.DisableAutoOuts {
		var flip model.Signals
		next, flip = AdvanceHalf(next)
		sig.ChangeInning = flip.ChangeInning
		sig.ChangePitcher = flip.ChangePitcher
	}

	return clamp(next), sig
}

// AdvanceHalf clears the count and outs and moves to the next half-inning.
// Leaving the bottom half starts a new inning and signals a pitching change.
// An unknown half is treated as the top.
func AdvanceHalf(state model.SituationalState) (model.SituationalState, model.Signals) {
	next := state
	next.Balls, next.Strikes, next.Outs = 0, 0, 0
	sig := model.Signals{ChangeInning: true}
	if state.Half != model.HalfBottom {
		next.Half = model.HalfBottom
	} else {
		next.Half = model.HalfTop
		next.Inning++
		sig.ChangePitcher = true
	}
	return next, sig
}

func addOuts(outs, n int) int {
	outs += n
	if outs > maxOuts {
		return maxOuts
	}
	return outs
}

// clamp keeps a caller-supplied state inside the legal ranges.
func clamp(s model.SituationalState) model.SituationalState {
	s.Balls = bound(s.Balls, maxBalls)
	s.Strikes = bound(s.Strikes, maxStrikes)
	s.Outs = bound(s.Outs, maxOuts)
	return s
}

func bound(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
