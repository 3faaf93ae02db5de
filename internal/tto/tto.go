// Package tto tags pitches with how many times the pitcher has been through
// the order against each batter.
package tto

import (
	"sort"
	"strconv"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// Buckets are the TTO report segments in presentation order.
var Buckets = []string{"1", "2", "3+"}

// Bucket maps a TTO index to its report segment. Untagged pitches (0) have no bucket.
func Bucket(tto int) string {
	switch {
	case tto <= 0:
		return ""
	case tto >= 3:
		return "3+"
	default:
		return strconv.Itoa(tto)
	}
}

// appearance tracks one batter within a single Assign call.
type appearance struct {
	count      int
	lastInning int
	lastHalf   model.Half
}

// Assign returns a copy of pitches sorted by (inning, timestamp) with TTO set.
// The input should hold one pitcher against one batter-hand split. A pitch
// to a known batter in a different half-inning than that batter's last one
// starts a new plate appearance. Pitches without an inning or half are left
// untagged.
func Assign(pitches []model.PitchEvent) []model.PitchEvent {
	out := make([]model.PitchEvent, len(pitches))
	copy(out, pitches)

	// Missing timestamps are 0 and therefore sort first within their inning.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Inning != out[j].Inning {
			return out[i].Inning < out[j].Inning
		}
		return out[i].Timestamp < out[j].Timestamp
	})

	seen := make(map[string]*appearance)
	for i := range out {
		p := &out[i]
		if !p.HasHalfInning() {
			continue
		}
		a := seen[p.Batter]
		switch {
		case a == nil:
			a = &appearance{count: 1, lastInning: p.Inning, lastHalf: p.Half}
			seen[p.Batter] = a
		case a.lastInning != p.Inning || a.lastHalf != p.Half:
			a.count++
			a.lastInning = p.Inning
			a.lastHalf = p.Half
		}
		p.TTO = a.count
	}
	return out
}
