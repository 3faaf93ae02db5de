package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Half identifies the top or bottom of an inning.
type Half int

const (
	HalfUnknown Half = 0
	HalfTop     Half = 1
	HalfBottom  Half = 2
)

func (h Half) String() string {
	switch h {
	case HalfTop:
		return "Top"
	case HalfBottom:
		return "Bottom"
	default:
		return "?"
	}
}

// ParseHalf accepts "Top"/"Bottom" in any case, plus the short forms "T"/"B".
func ParseHalf(s string) Half {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "t":
		return HalfTop
	case "bottom", "bot", "b":
		return HalfBottom
	default:
		return HalfUnknown
	}
}

// Hand is a batter's handedness.
type Hand int

const (
	HandUnknown Hand = 0
	HandLeft    Hand = 1
	HandRight   Hand = 2
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "L"
	case HandRight:
		return "R"
	default:
		return "?"
	}
}

// ParseHand accepts "L"/"Left"/"R"/"Right" in any case.
func ParseHand(s string) Hand {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return HandLeft
	case "r", "right":
		return HandRight
	default:
		return HandUnknown
	}
}

// ---- Pitch types ----

// PitchType is an upper-case pitch-type tag. Tags outside the known set are
// kept as-is so they still group in aggregation.
type PitchType string

const (
	PitchFastball  PitchType = "FASTBALL"
	PitchSinker    PitchType = "SINKER"
	PitchCurveball PitchType = "CURVEBALL"
	PitchSlider    PitchType = "SLIDER"
	PitchChangeup  PitchType = "CHANGEUP"
	PitchOther     PitchType = "OTHER"
)

// NormalizePitchType trims and upper-cases a raw pitch-type tag.
func NormalizePitchType(s string) PitchType {
	return PitchType(strings.ToUpper(strings.TrimSpace(s)))
}

// Known reports whether t is one of the charted pitch types.
func (t PitchType) Known() bool {
	switch t {
	case PitchFastball, PitchSinker, PitchCurveball, PitchSlider, PitchChangeup, PitchOther:
		return true
	}
	return false
}

// Display returns the title-case label ("FASTBALL" -> "Fastball").
func (t PitchType) Display() string {
	if t == "" {
		return ""
	}
	s := string(t)
	_, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:size]) + strings.ToLower(s[size:])
}

// ---- Pitch results ----

// PitchResult is a lower-case outcome tag for a single pitch.
type PitchResult string

const (
	ResultBall              PitchResult = "ball"
	ResultCalledStrike      PitchResult = "called_strike"
	ResultSwingingStrike    PitchResult = "swinging_strike"
	ResultFoul              PitchResult = "foul"
	ResultStrikeoutLooking  PitchResult = "strikeout_looking"
	ResultStrikeoutSwinging PitchResult = "strikeout_swinging"
	ResultWalk              PitchResult = "walk"
	ResultHBP               PitchResult = "hbp"
	ResultInPlay            PitchResult = "in_play"
	ResultRunnerOneOut      PitchResult = "baserunner_(1_out)"
	ResultRunnerTwoOut      PitchResult = "baserunner_(2_out)"
)

const baserunnerPrefix = "baserunner_"

// ParsePitchResult trims and lower-cases a raw result tag.
func ParsePitchResult(s string) PitchResult {
	return PitchResult(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether r is a recognized result. Any baserunner-advance tag
// is recognized even when it records no out.
func (r PitchResult) Known() bool {
	switch r {
	case ResultBall, ResultCalledStrike, ResultSwingingStrike, ResultFoul,
		ResultStrikeoutLooking, ResultStrikeoutSwinging, ResultWalk, ResultHBP, ResultInPlay:
		return true
	}
	return r.IsBaserunner()
}

// IsBaserunner reports whether r is a baserunner-advance tag.
func (r PitchResult) IsBaserunner() bool {
	return strings.HasPrefix(string(r), baserunnerPrefix)
}

// IsStrikeLike reports results that add a strike to the count.
func (r PitchResult) IsStrikeLike() bool {
	return r == ResultSwingingStrike || r == ResultCalledStrike || r == ResultFoul
}

// IsStrikeout reports results that end the plate appearance on strikes.
func (r PitchResult) IsStrikeout() bool {
	return r == ResultStrikeoutLooking || r == ResultStrikeoutSwinging
}

// IsCSW reports results counted by CSW%: called strikes and whiffs,
// including the strikeouts they produce.
func (r PitchResult) IsCSW() bool {
	switch r {
	case ResultCalledStrike, ResultStrikeoutLooking, ResultSwingingStrike, ResultStrikeoutSwinging:
		return true
	}
	return false
}

// RunnerOuts is the number of outs recorded on the bases by a baserunner tag.
func (r PitchResult) RunnerOuts() int {
	switch r {
	case ResultRunnerOneOut:
		return 1
	case ResultRunnerTwoOut:
		return 2
	}
	return 0
}

// ---- Batted balls ----

// HitResult is a lower-case batted-ball outcome tag.
type HitResult string

const (
	HitFieldOut       HitResult = "field_out"
	HitFieldersChoice HitResult = "fielders_choice"
	HitDoublePlay     HitResult = "double_play"
	HitTriplePlay     HitResult = "triple_play"
	HitRunnerOneOut   HitResult = "baserunner_(1_out)"
	HitRunnerTwoOut   HitResult = "baserunner_(2_out)"
)

// ParseHitResult trims and lower-cases a raw batted-ball tag.
func ParseHitResult(s string) HitResult {
	return HitResult(strings.ToLower(strings.TrimSpace(s)))
}

// Outs is the number of outs the batted ball adds. Triple plays are handled
// by the caller since they set outs rather than add them.
func (h HitResult) Outs() int {
	switch h {
	case HitFieldOut, HitFieldersChoice, HitRunnerOneOut:
		return 1
	case HitDoublePlay, HitRunnerTwoOut:
		return 2
	}
	return 0
}

// HitEvent is the batted-ball outcome attached to an in-play pitch.
type HitEvent struct {
	Result HitResult
	Hard   bool // exit velocity classified as hard-hit
}

// ---- Events ----

// Location is a pitch location in inches from the center of the plate;
// Y is height above the ground.
type Location struct{ X, Y float64 }

// PitchEvent is one recorded pitch.
type PitchEvent struct {
	Seq       int // position within the source log
	Type      PitchType
	Result    PitchResult
	Velocity  *float64 // mph; nil when absent or non-numeric
	Location  *Location
	Inning    int   // 0 when missing
	Half      Half  // HalfUnknown when missing
	Timestamp int64 // epoch ms; 0 when missing
	Pitcher   string
	Batter    string
	BatHand   Hand
	Hit       *HitEvent
	TTO       int // times through the order; 0 until tagged
}

// Aggregatable reports whether the pitch has the fields aggregation requires.
func (p *PitchEvent) Aggregatable() bool {
	return p.Type != "" && p.Result != ""
}

// HasHalfInning reports whether the pitch can be placed in a half-inning.
func (p *PitchEvent) HasHalfInning() bool {
	return p.Inning > 0 && p.Half != HalfUnknown
}

// ---- Live game state ----

// SituationalState is the count, outs and half-inning of a live game.
type SituationalState struct {
	Balls   int
	Strikes int
	Outs    int
	Inning  int
	Half    Half
}

// InitialState is the state at first pitch: 0-0, no outs, top of the 1st.
func InitialState() SituationalState {
	return SituationalState{Inning: 1, Half: HalfTop}
}

// Signals tell the caller which roster changes a transition requires.
type Signals struct {
	ChangeBatter  bool
	ChangeInning  bool
	ChangePitcher bool
}

// ---- Stored records ----

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	ID         string
	Hash       string // sha256 of the imported event log; empty for charted games
	Label      string
	ImportedAt time.Time
	Pitches    int
	Innings    int
}

// ChartSession is a persisted live charting session.
type ChartSession struct {
	ID         string
	GameID     string
	State      SituationalState
	PitchCount int
	UpdatedAt  time.Time
}
