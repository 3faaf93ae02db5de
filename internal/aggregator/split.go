package aggregator

import (
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/tto"
)

// TTOSplit is one pitcher's pitch mix against one batter hand, segmented by
// times through the order.
type TTOSplit struct {
	Pitcher  string
	Hand     model.Hand
	Overall  *Result
	Buckets  map[string]*Result // keyed by tto.Buckets
	Untagged int                // pitches dropped for missing inning or half
}

// Filter selects the pitches thrown by pitcher to batters of hand.
// HandUnknown matches every batter.
func Filter(pitches []model.PitchEvent, pitcher string, hand model.Hand) []model.PitchEvent {
	var out []model.PitchEvent
	for _, p := range pitches {
		if p.Pitcher != pitcher {
			continue
		}
		if hand != model.HandUnknown && p.BatHand != hand {
			continue
		}
		out = append(out, p)
	}
	return out
}

// BuildTTOSplit assigns TTO to the pitcher's pitches against hand and
// aggregates each TTO bucket. Pitches that cannot be placed in a half-inning
// are left out of every bucket and of Overall.
func BuildTTOSplit(pitches []model.PitchEvent, pitcher string, hand model.Hand) TTOSplit {
	return BuildTTOSplitGames([][]model.PitchEvent{pitches}, pitcher, hand)
}

// BuildTTOSplitGames is BuildTTOSplit over several games. Times through the
// order restart with each game.
func BuildTTOSplitGames(games [][]model.PitchEvent, pitcher string, hand model.Hand) TTOSplit {
	split := TTOSplit{
		Pitcher: pitcher,
		Hand:    hand,
		Buckets: make(map[string]*Result, len(tto.Buckets)),
	}

	overall := New()
	buckets := make(map[string]*Aggregator, len(tto.Buckets))
	for _, b := range tto.Buckets {
		buckets[b] = New()
	}

	for _, pitches := range games {
		for _, p := range tto.Assign(Filter(pitches, pitcher, hand)) {
			if !p.HasHalfInning() {
				split.Untagged++
				continue
			}
			overall.Add(p)
			buckets[tto.Bucket(p.TTO)].Add(p)
		}
	}

	split.Overall = overall.Result()
	for b, a := range buckets {
		split.Buckets[b] = a.Result()
	}
	return split
}

// PitcherMix is the pitch mix of a single pitcher.
type PitcherMix struct {
	Pitcher string
	Result  *Result
}

// ByPitcher aggregates each pitcher's pitches, in first-seen order.
func ByPitcher(pitches []model.PitchEvent) []PitcherMix {
	aggs := make(map[string]*Aggregator)
	var order []string
	for _, p := range pitches {
		a := aggs[p.Pitcher]
		if a == nil {
			a = New()
			aggs[p.Pitcher] = a
			order = append(order, p.Pitcher)
		}
		a.Add(p)
	}

	out := make([]PitcherMix, 0, len(order))
	for _, name := range order {
		out = append(out, PitcherMix{Pitcher: name, Result: aggs[name].Result()})
	}
	return out
}
