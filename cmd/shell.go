package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-pitch-metrics/internal/aggregator"
	"github.com/pable/go-pitch-metrics/internal/logger"
	"github.com/pable/go-pitch-metrics/internal/model"
	"github.com/pable/go-pitch-metrics/internal/report"
	"github.com/pable/go-pitch-metrics/internal/situation"
	"github.com/pable/go-pitch-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellResume string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Chart a game live, one pitch at a time",
	Long: `Open an interactive charting session. Each pitch advances the count,
outs and half-inning and is stored immediately, so a session can be resumed
later with --resume <session-id> or 'resume' inside the shell. Type 'help'
for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVar(&shellResume, "resume", "", "resume a charting session by id prefix")
}

func runShell(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	sh := newChartShell(db, os.Stdout, cfg.Chart.Innings, cfg.Hit.HardExitVelocity, cfg.Chart.DisableAutoOuts)

	cGreeting.Println("pitchmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	if shellResume != "" {
		sh.exec("resume " + shellResume)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("pitchmetrics")
		if sh.session != nil {
			cMuted.Printf(" [%s %s, %d out]", report.FormatInning(sh.session.State), report.FormatCount(sh.session.State), sh.session.State.Outs)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		if sh.exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// chartShell holds one live charting session and the roster currently at the plate.
type chartShell struct {
	db  *storage.DB
	out io.Writer

	innings     int
	hardEV      float64
	autoOutsOff bool

	session   *situation.Session
	sessionID string
	gameID    string

	pitcher string
	batter  string
	hand    model.Hand
}

func newChartShell(db *storage.DB, out io.Writer, innings int, hardEV float64, autoOutsOff bool) *chartShell {
	return &chartShell{db: db, out: out, innings: innings, hardEV: hardEV, autoOutsOff: autoOutsOff}
}

// exec runs one input line and reports whether the shell should exit.
func (sh *chartShell) exec(line string) bool {
	tokens := strings.Fields(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return false
	}
	cmd, args := strings.ToLower(tokens[0]), tokens[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		sh.help()
	case "list":
		sh.list()
	case "new":
		sh.newGame(strings.Join(args, " "))
	case "resume":
		if len(args) == 0 {
			cError.Fprintln(sh.out, "usage: resume <session-id-prefix>")
			return false
		}
		sh.resume(args[0])
	case "pitcher":
		if len(args) == 0 {
			cError.Fprintln(sh.out, "usage: pitcher <name>")
			return false
		}
		sh.pitcher = strings.Join(args, " ")
		if sh.session != nil {
			sh.session.ChangePitcher()
			sh.save()
		}
		cMuted.Fprintf(sh.out, "now pitching: %s\n", sh.pitcher)
	case "batter":
		if len(args) == 0 {
			cError.Fprintln(sh.out, "usage: batter <name> [L|R]")
			return false
		}
		sh.hand = model.HandUnknown
		if len(args) > 1 {
			if h := model.ParseHand(args[len(args)-1]); h != model.HandUnknown {
				sh.hand = h
				args = args[:len(args)-1]
			}
		}
		sh.batter = strings.Join(args, " ")
		cMuted.Fprintf(sh.out, "at bat: %s (%s)\n", sh.batter, sh.hand)
	case "pitch", "p":
		sh.pitch(args)
	case "advance":
		if !sh.requireSession() {
			return false
		}
		sig := sh.session.Advance()
		sh.save()
		sh.announce(sig)
		sh.state()
	case "state":
		if sh.requireSession() {
			sh.state()
		}
	case "mix":
		sh.mix()
	case "tto":
		sh.tto(args)
	default:
		cWarn.Fprintf(sh.out, "unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (sh *chartShell) help() {
	fmt.Fprintln(sh.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"new [label]", "start charting a new game"},
		{"resume <session-id>", "continue a saved session"},
		{"pitcher <name>", "set the pitcher (resets the pitch count)"},
		{"batter <name> [L|R]", "set the batter and bat hand"},
		{"pitch <type> <result> [k=v ...]", "record a pitch; keys: v=<mph> loc=<x>,<y> hit=<result> ev=<mph|hard>"},
		{"advance", "end the half-inning by hand"},
		{"state", "show count, outs and inning"},
		{"mix", "pitch mix of this game so far"},
		{"tto [L|R|all]", "times-through-order split for the current pitcher"},
		{"list", "list stored games"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(sh.out, "  ")
		cCmd.Fprintf(sh.out, "%-34s", r.cmd)
		fmt.Fprintln(sh.out, r.desc)
	}
	fmt.Fprintln(sh.out)
}

func (sh *chartShell) list() {
	games, err := sh.db.ListGames()
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Fprintln(sh.out, "No games stored yet.")
		return
	}
	report.PrintGameList(sh.out, games)
}

func (sh *chartShell) options() situation.Options {
	return situation.Options{
		DisableAutoOuts: sh.autoOutsOff,
		OnUnknown: func(r model.PitchResult) {
			cWarn.Fprintf(sh.out, "unrecognized result %q, count unchanged\n", r)
			logger.Warn("unrecognized result", "session", sh.sessionID, "result", string(r))
		},
	}
}

func (sh *chartShell) newGame(label string) {
	now := time.Now()
	if label == "" {
		label = "charted " + now.Format("2006-01-02 15:04")
	}
	g := model.GameSummary{ID: uuid.NewString(), Label: label, ImportedAt: now}
	if err := sh.db.InsertGame(g); err != nil {
		cError.Fprintf(sh.out, "error: create game: %v\n", err)
		return
	}
	sh.gameID = g.ID
	sh.sessionID = uuid.NewString()
	sh.session = situation.NewSession(model.InitialState(), sh.innings, sh.options())
	sh.pitcher, sh.batter, sh.hand = "", "", model.HandUnknown
	if !sh.save() {
		return
	}
	logger.Info("charting session started", "session", sh.sessionID, "game", sh.gameID)
	cHeader.Fprintf(sh.out, "session %s  game %s  %q\n", sh.sessionID, g.ID[:8], label)
	sh.state()
}

func (sh *chartShell) resume(prefix string) {
	s, err := sh.db.GetSessionByPrefix(prefix)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	if s == nil {
		cError.Fprintf(sh.out, "no session found with prefix %q\n", prefix)
		return
	}
	sh.gameID = s.GameID
	sh.sessionID = s.ID
	sh.session = situation.NewSession(s.State, sh.innings, sh.options())
	sh.session.PitchCount = s.PitchCount

	// Pick the roster up from the last stored pitch.
	sh.pitcher, sh.batter, sh.hand = "", "", model.HandUnknown
	pitches, err := sh.db.GetPitches(s.GameID)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	if n := len(pitches); n > 0 {
		last := pitches[n-1]
		sh.pitcher, sh.batter, sh.hand = last.Pitcher, last.Batter, last.BatHand
	}
	cHeader.Fprintf(sh.out, "resumed session %s (%d pitches charted)\n", s.ID, len(pitches))
	sh.state()
}

func (sh *chartShell) requireSession() bool {
	if sh.session == nil {
		cError.Fprintln(sh.out, "no active session: use 'new' or 'resume'")
		return false
	}
	return true
}

func (sh *chartShell) pitch(args []string) {
	if !sh.requireSession() {
		return
	}
	if len(args) < 2 {
		cError.Fprintln(sh.out, "usage: pitch <type> <result> [v=<mph>] [loc=<x>,<y>] [hit=<result>] [ev=<mph|hard>]")
		return
	}
	if sh.session.Over() {
		cWarn.Fprintln(sh.out, "all scheduled innings have been played")
	}

	seq, err := sh.db.NextSeq(sh.gameID)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	p, err := sh.parsePitch(args)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	p.Seq = seq

	if err := sh.db.AppendPitch(sh.gameID, p); err != nil {
		cError.Fprintf(sh.out, "error: store pitch: %v\n", err)
		return
	}
	sig := sh.session.Apply(p)
	sh.save()
	sh.announce(sig)
	sh.state()
}

// parsePitch builds a pitch thrown in the current half-inning by the current
// pitcher to the current batter.
func (sh *chartShell) parsePitch(args []string) (model.PitchEvent, error) {
	p := model.PitchEvent{
		Type:      model.NormalizePitchType(args[0]),
		Result:    model.ParsePitchResult(args[1]),
		Inning:    sh.session.State.Inning,
		Half:      sh.session.State.Half,
		Timestamp: time.Now().UnixMilli(),
		Pitcher:   sh.pitcher,
		Batter:    sh.batter,
		BatHand:   sh.hand,
	}

	var hit *model.HitEvent
	for _, kv := range args[2:] {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("expected key=value, got %q", kv)
		}
		switch strings.ToLower(key) {
		case "v", "velo":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return p, fmt.Errorf("velocity %q: %w", val, err)
			}
			p.Velocity = &v
		case "loc":
			xs, ys, ok := strings.Cut(val, ",")
			if !ok {
				return p, fmt.Errorf("location %q: want x,y", val)
			}
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				return p, fmt.Errorf("location x %q: %w", xs, err)
			}
			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return p, fmt.Errorf("location y %q: %w", ys, err)
			}
			p.Location = &model.Location{X: x, Y: y}
		case "hit":
			if hit == nil {
				hit = &model.HitEvent{}
			}
			hit.Result = model.ParseHitResult(val)
		case "ev":
			if hit == nil {
				hit = &model.HitEvent{}
			}
			if strings.EqualFold(val, "hard") {
				hit.Hard = true
			} else if v, err := strconv.ParseFloat(val, 64); err == nil {
				hit.Hard = v >= sh.hardEV
			} else {
				return p, fmt.Errorf("exit velocity %q: want mph or 'hard'", val)
			}
		default:
			return p, fmt.Errorf("unknown key %q", key)
		}
	}
	p.Hit = hit
	return p, nil
}

func (sh *chartShell) save() bool {
	err := sh.db.SaveSession(model.ChartSession{
		ID:         sh.sessionID,
		GameID:     sh.gameID,
		State:      sh.session.State,
		PitchCount: sh.session.PitchCount,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		cError.Fprintf(sh.out, "error: save session: %v\n", err)
		return false
	}
	return true
}

func (sh *chartShell) announce(sig model.Signals) {
	if sig.ChangeBatter {
		cWarn.Fprintln(sh.out, "plate appearance over: set the next 'batter'")
	}
	if sig.ChangeInning {
		cWarn.Fprintln(sh.out, "half-inning over")
	}
	if sig.ChangePitcher {
		cWarn.Fprintln(sh.out, "new inning: set the 'pitcher' if it changed")
	}
	if sh.session.Over() {
		cHeader.Fprintln(sh.out, "game complete")
	}
}

func (sh *chartShell) state() {
	s := sh.session.State
	fmt.Fprintf(sh.out, "%s  |  count %s  |  %d out  |  %s pitches: %d\n",
		report.FormatInning(s), report.FormatCount(s), s.Outs, orDash(sh.pitcher), sh.session.PitchCount)
}

func (sh *chartShell) mix() {
	if !sh.requireSession() {
		return
	}
	pitches, err := sh.db.GetPitches(sh.gameID)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	for _, m := range aggregator.ByPitcher(pitches) {
		report.PrintPitchMix(sh.out, orDash(m.Pitcher), m.Result)
	}
}

func (sh *chartShell) tto(args []string) {
	if !sh.requireSession() {
		return
	}
	if sh.pitcher == "" {
		cError.Fprintln(sh.out, "no pitcher set")
		return
	}
	flag := ""
	if len(args) > 0 {
		flag = args[0]
	}
	hands, err := reportHands(flag)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	pitches, err := sh.db.GetPitcherPitches(sh.pitcher, sh.gameID)
	if err != nil {
		cError.Fprintf(sh.out, "error: %v\n", err)
		return
	}
	for _, h := range hands {
		report.PrintTTOSplit(sh.out, aggregator.BuildTTOSplit(pitches, sh.pitcher, h))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
