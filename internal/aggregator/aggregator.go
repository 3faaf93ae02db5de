package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/zone"
)

// NoVelocity is shown when a pitch type has no usable velocity readings.
const NoVelocity = "-"

// PitchTypeStats is the aggregate for one pitch type. Percentages are
// formatted with one decimal place.
type PitchTypeStats struct {
	Type  model.PitchType
	Label string // title-case display label

	// Raw counters.
	Count       int
	Velocities  []float64
	Outcomes    map[model.PitchResult]int
	InZone      int
	BattedBalls int
	HardHit     int

	// Derived, recomputed after every pitch.
	Usage       string
	AvgVelo     string
	MaxVelo     string
	ZoneRate    string
	CSWRate     string
	HardHitRate string
}

// CSW is the number of called strikes and whiffs, strikeouts included.
func (s *PitchTypeStats) CSW() int {
	n := 0
	for r, c := range s.Outcomes {
		if r.IsCSW() {
			n += c
		}
	}
	return n
}

// Result is one aggregation run over a set of pitches.
type Result struct {
	Total  int // pitches included; skipped pitches do not count
	Input  int // every pitch offered, skipped ones included; the usage denominator
	ByType map[model.PitchType]*PitchTypeStats
	order  []model.PitchType // first-seen order
}

// Ordered returns the pitch types by descending usage as displayed, so types
// whose usage rounds to the same value keep their first-seen order.
func (r *Result) Ordered() []*PitchTypeStats {
	out := make([]*PitchTypeStats, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.ByType[t])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return usageValue(out[i]) > usageValue(out[j])
	})
	return out
}

func usageValue(s *PitchTypeStats) float64 {
	v, err := strconv.ParseFloat(s.Usage, 64)
	if err != nil {
		return 0
	}
	return v
}

// Aggregator folds pitches into per-type statistics one pitch at a time.
// The zero value is not usable; call New.
type Aggregator struct {
	res     Result
	skipped int
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{res: Result{ByType: make(map[model.PitchType]*PitchTypeStats)}}
}

// Add folds one pitch and refreshes every derived statistic. Pitches missing
// a type or result are skipped and Add reports false.
func (a *Aggregator) Add(p model.PitchEvent) bool {
	a.res.Input++
	if !p.Aggregatable() {
		a.skipped++
		a.refreshUsage()
		return false
	}

	s := a.res.ByType[p.Type]
	if s == nil {
		s = &PitchTypeStats{
			Type:     p.Type,
			Label:    p.Type.Display(),
			Outcomes: make(map[model.PitchResult]int),
		}
		a.res.ByType[p.Type] = s
		a.res.order = append(a.res.order, p.Type)
	}

	a.res.Total++
	s.Count++
	s.Outcomes[p.Result]++
	if p.Velocity != nil && !math.IsNaN(*p.Velocity) && !math.IsInf(*p.Velocity, 0) {
		s.Velocities = append(s.Velocities, *p.Velocity)
	}
	if zone.InZone(p.Location) {
		s.InZone++
	}
	if p.Result == model.ResultInPlay {
		s.BattedBalls++
		if p.Hit != nil && p.Hit.Hard {
			s.HardHit++
		}
	}

	derive(s)
	a.refreshUsage()
	return true
}

// refreshUsage recomputes usage for every type; it depends on the input
// count, so one pitch changes all of them.
func (a *Aggregator) refreshUsage() {
	for _, t := range a.res.order {
		s := a.res.ByType[t]
		s.Usage = pct(s.Count, a.res.Input)
	}
}

// Skipped is the number of pitches rejected by Add.
func (a *Aggregator) Skipped() int { return a.skipped }

// Result returns the current aggregate. The Aggregator must not be used after
// the caller starts modifying the returned value.
func (a *Aggregator) Result() *Result { return &a.res }

// Aggregate computes per-type statistics for pitches. Empty input yields an
// empty Result.
func Aggregate(pitches []model.PitchEvent) *Result {
	a := New()
	for _, p := range pitches {
		a.Add(p)
	}
	return a.Result()
}

// derive recomputes the per-type rates of s from its counters. Usage is
// set by refreshUsage.
func derive(s *PitchTypeStats) {
	s.ZoneRate = pct(s.InZone, s.Count)
	s.CSWRate = pct(s.CSW(), s.Count)
	s.HardHitRate = pct(s.HardHit, s.BattedBalls)

	if len(s.Velocities) == 0 {
		s.AvgVelo, s.MaxVelo = NoVelocity, NoVelocity
		return
	}
	sum, hi := 0.0, math.Inf(-1)
	for _, v := range s.Velocities {
		sum += v
		if v > hi {
			hi = v
		}
	}
	s.AvgVelo = fmt.Sprintf("%.1f", sum/float64(len(s.Velocities)))
	s.MaxVelo = fmt.Sprintf("%.1f", hi)
}

// pct formats num/den as a percentage; a zero denominator gives "0.0".
func pct(num, den int) string {
	if den == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(num)/float64(den)*100)
}
