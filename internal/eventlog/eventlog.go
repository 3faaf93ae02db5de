// Package eventlog decodes charted pitch logs from JSON.
package eventlog

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// DefaultHardExitVelocity is the exit velocity (mph) at which a numeric
// reading counts as hard-hit.
const DefaultHardExitVelocity = 95.0

// Log is a decoded event log.
type Log struct {
	Hash   string // sha256 of the raw bytes
	Label  string
	Events []model.PitchEvent
}

// Options control decoding.
type Options struct {
	HardExitVelocity float64 // 0 means DefaultHardExitVelocity
}

// ---- Wire shapes ----

type wireLog struct {
	Game   string      `json:"game"`
	Events []wireEvent `json:"events"`
}

type wireEvent struct {
	Type      string          `json:"type"`
	Result    string          `json:"result"`
	Velocity  json.RawMessage `json:"velocity"`
	Location  *wireLocation   `json:"location"`
	Inning    json.RawMessage `json:"inning"`
	TopBottom string          `json:"topBottom"`
	Timestamp json.RawMessage `json:"timestamp"`
	Pitcher   struct {
		Name string `json:"name"`
	} `json:"pitcher"`
	Batter struct {
		Name    string `json:"name"`
		BatHand string `json:"batHand"`
	} `json:"batter"`
	Hit *wireHit `json:"hit"`
}

type wireLocation struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wireHit struct {
	Result     string `json:"result"`
	HitDetails struct {
		ExitVelocity json.RawMessage `json:"exitVelocity"`
	} `json:"hitDetails"`
}

// ReadFile reads and decodes the log at path. The label defaults to the file
// name without extension.
func ReadFile(path string, opts Options) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	log, err := Decode(data, opts)
	if err != nil {
		return nil, err
	}
	if log.Label == "" {
		log.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return log, nil
}

// Read decodes a log from r.
func Read(r io.Reader, opts Options) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return Decode(data, opts)
}

// Decode accepts either a bare JSON array of events or an object
// {"game": "...", "events": [...]}. Individual events never fail decoding;
// malformed optional fields are dropped.
func Decode(data []byte, opts Options) (*Log, error) {
	if opts.HardExitVelocity <= 0 {
		opts.HardExitVelocity = DefaultHardExitVelocity
	}

	var wl wireLog
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wl.Events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &wl); err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}

	sum := sha256.Sum256(data)
	log := &Log{
		Hash:   fmt.Sprintf("%x", sum[:]),
		Label:  wl.Game,
		Events: make([]model.PitchEvent, 0, len(wl.Events)),
	}
	for i, we := range wl.Events {
		log.Events = append(log.Events, we.toModel(i, opts))
	}
	return log, nil
}

func (we wireEvent) toModel(seq int, opts Options) model.PitchEvent {
	p := model.PitchEvent{
		Seq:     seq,
		Type:    model.NormalizePitchType(we.Type),
		Result:  model.ParsePitchResult(we.Result),
		Half:    model.ParseHalf(we.TopBottom),
		Pitcher: strings.TrimSpace(we.Pitcher.Name),
		Batter:  strings.TrimSpace(we.Batter.Name),
		BatHand: model.ParseHand(we.Batter.BatHand),
	}
	if v, ok := number(we.Velocity); ok {
		p.Velocity = &v
	}
	if we.Location != nil && we.Location.X != nil && we.Location.Y != nil {
		p.Location = &model.Location{X: *we.Location.X, Y: *we.Location.Y}
	}
	if n, ok := number(we.Inning); ok && n >= 1 && n == math.Trunc(n) {
		p.Inning = int(n)
	}
	p.Timestamp = timestamp(we.Timestamp)
	if we.Hit != nil {
		p.Hit = &model.HitEvent{
			Result: model.ParseHitResult(we.Hit.Result),
			Hard:   hard(we.Hit.HitDetails.ExitVelocity, opts.HardExitVelocity),
		}
	}
	return p
}

// number reads a JSON number or a numeric string. Anything else, including
// null and non-finite values, reports false.
func number(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
	} else {
		s = string(raw)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// timestamp reads epoch milliseconds or an RFC 3339 string; missing or
// unparseable values are 0.
func timestamp(raw json.RawMessage) int64 {
	if v, ok := number(raw); ok {
		return int64(v)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// hard classifies an exit velocity given as the tag "hard" or as mph.
func hard(raw json.RawMessage, threshold float64) bool {
	if v, ok := number(raw); ok {
		return v >= threshold
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s), "hard")
}

// ---- Encoding ----

type outEvent struct {
	Type      string       `json:"type,omitempty"`
	Result    string       `json:"result,omitempty"`
	Velocity  *float64     `json:"velocity,omitempty"`
	Location  *outLocation `json:"location,omitempty"`
	Inning    int          `json:"inning,omitempty"`
	TopBottom string       `json:"topBottom,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Pitcher   outPitcher   `json:"pitcher"`
	Batter    outBatter    `json:"batter"`
	Hit       *outHit      `json:"hit,omitempty"`
}

type outLocation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type outPitcher struct {
	Name string `json:"name"`
}

type outBatter struct {
	Name    string `json:"name"`
	BatHand string `json:"batHand,omitempty"`
}

type outHit struct {
	Result     string         `json:"result"`
	HitDetails *outHitDetails `json:"hitDetails,omitempty"`
}

type outHitDetails struct {
	ExitVelocity string `json:"exitVelocity"`
}

// Encode writes events as an indented {"game", "events"} log that Decode
// reads back. Hard-hit balls carry the exit velocity tag "hard"; absent
// fields are omitted.
func Encode(label string, events []model.PitchEvent) ([]byte, error) {
	out := struct {
		Game   string     `json:"game"`
		Events []outEvent `json:"events"`
	}{Game: label, Events: make([]outEvent, 0, len(events))}

	for _, p := range events {
		e := outEvent{
			Type:      string(p.Type),
			Result:    string(p.Result),
			Velocity:  p.Velocity,
			Inning:    p.Inning,
			Timestamp: p.Timestamp,
			Pitcher:   outPitcher{Name: p.Pitcher},
			Batter:    outBatter{Name: p.Batter},
		}
		if p.Location != nil {
			e.Location = &outLocation{X: p.Location.X, Y: p.Location.Y}
		}
		if p.Half != model.HalfUnknown {
			e.TopBottom = p.Half.String()
		}
		if p.BatHand != model.HandUnknown {
			e.Batter.BatHand = p.BatHand.String()
		}
		if p.Hit != nil {
			e.Hit = &outHit{Result: string(p.Hit.Result)}
			if p.Hit.Hard {
				e.Hit.HitDetails = &outHitDetails{ExitVelocity: "hard"}
			}
		}
		out.Events = append(out.Events, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode event log: %w", err)
	}
	return append(data, '\n'), nil
}
