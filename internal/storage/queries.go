package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// GameExists returns true if a game imported from the given log hash is already stored.
func (db *DB) GameExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE hash = ? AND hash != ''", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(g model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(id, hash, label, imported_at)
		VALUES (?, ?, ?, ?)`,
		g.ID, g.Hash, g.Label, g.ImportedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

const insertPitchSQL = `
	INSERT OR REPLACE INTO pitches(
		game_id, seq, pitch_type, result, velocity, loc_x, loc_y,
		inning, top_bottom, ts, pitcher, batter, bat_hand, hit_result, hit_hard
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// InsertPitches bulk-inserts a game's pitches in a transaction.
func (db *DB) InsertPitches(gameID string, pitches []model.PitchEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertPitchSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range pitches {
		if _, err := stmt.Exec(pitchArgs(gameID, p)...); err != nil {
			return fmt.Errorf("insert pitch %d: %w", p.Seq, err)
		}
	}
	return tx.Commit()
}

// AppendPitch stores one live-charted pitch.
func (db *DB) AppendPitch(gameID string, p model.PitchEvent) error {
	_, err := db.conn.Exec(insertPitchSQL, pitchArgs(gameID, p)...)
	return err
}

// NextSeq returns the sequence number for the next pitch of a game.
func (db *DB) NextSeq(gameID string) (int, error) {
	var next int
	err := db.conn.QueryRow("SELECT COALESCE(MAX(seq) + 1, 0) FROM pitches WHERE game_id = ?", gameID).Scan(&next)
	return next, err
}

func pitchArgs(gameID string, p model.PitchEvent) []any {
	var velo, locX, locY sql.NullFloat64
	if p.Velocity != nil {
		velo = sql.NullFloat64{Float64: *p.Velocity, Valid: true}
	}
	if p.Location != nil {
		locX = sql.NullFloat64{Float64: p.Location.X, Valid: true}
		locY = sql.NullFloat64{Float64: p.Location.Y, Valid: true}
	}
	var hitResult sql.NullString
	hitHard := false
	if p.Hit != nil {
		hitResult = sql.NullString{String: string(p.Hit.Result), Valid: true}
		hitHard = p.Hit.Hard
	}
	half := ""
	if p.Half != model.HalfUnknown {
		half = p.Half.String()
	}
	hand := ""
	if p.BatHand != model.HandUnknown {
		hand = p.BatHand.String()
	}
	return []any{
		gameID, p.Seq, string(p.Type), string(p.Result), velo, locX, locY,
		p.Inning, half, p.Timestamp, p.Pitcher, p.Batter, hand, hitResult, boolInt(hitHard),
	}
}

const gameColumns = `
	SELECT g.id, g.hash, g.label, g.imported_at,
	       (SELECT COUNT(1) FROM pitches p WHERE p.game_id = g.id),
	       (SELECT COALESCE(MAX(p.inning), 0) FROM pitches p WHERE p.game_id = g.id)
	FROM games g`

func scanGame(row interface{ Scan(...any) error }) (model.GameSummary, error) {
	var g model.GameSummary
	var importedAt string
	if err := row.Scan(&g.ID, &g.Hash, &g.Label, &importedAt, &g.Pitches, &g.Innings); err != nil {
		return g, err
	}
	t, err := time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return g, fmt.Errorf("parse imported_at %q: %w", importedAt, err)
	}
	g.ImportedAt = t
	return g, nil
}

// ListGames returns all stored games, newest first.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(gameColumns + ` ORDER BY g.imported_at DESC, g.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGameByPrefix finds the newest game whose id starts with the given prefix.
func (db *DB) GetGameByPrefix(prefix string) (*model.GameSummary, error) {
	g, err := scanGame(db.conn.QueryRow(gameColumns+`
		WHERE g.id LIKE ? ORDER BY g.imported_at DESC LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGameByHash finds the game imported from the log with the given hash.
func (db *DB) GetGameByHash(hash string) (*model.GameSummary, error) {
	g, err := scanGame(db.conn.QueryRow(gameColumns+` WHERE g.hash = ? LIMIT 1`, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGame removes a game together with its pitches and sessions.
func (db *DB) DeleteGame(id string) error {
	_, err := db.conn.Exec("DELETE FROM games WHERE id = ?", id)
	return err
}

const pitchColumns = `
	SELECT seq, pitch_type, result, velocity, loc_x, loc_y,
	       inning, top_bottom, ts, pitcher, batter, bat_hand, hit_result, hit_hard
	FROM pitches`

// GetPitches returns a game's pitches in log order.
func (db *DB) GetPitches(gameID string) ([]model.PitchEvent, error) {
	return db.queryPitches(pitchColumns+` WHERE game_id = ? ORDER BY seq`, gameID)
}

// GetPitcherPitches returns every stored pitch thrown by pitcher. A non-empty
// gameID restricts the result to that game.
func (db *DB) GetPitcherPitches(pitcher, gameID string) ([]model.PitchEvent, error) {
	if gameID != "" {
		return db.queryPitches(pitchColumns+` WHERE pitcher = ? AND game_id = ? ORDER BY seq`, pitcher, gameID)
	}
	return db.queryPitches(pitchColumns+` WHERE pitcher = ? ORDER BY game_id, seq`, pitcher)
}

func (db *DB) queryPitches(query string, args ...any) ([]model.PitchEvent, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PitchEvent
	for rows.Next() {
		var (
			p                 model.PitchEvent
			pitchType, result string
			velo, locX, locY  sql.NullFloat64
			half, hand        string
			hitResult         sql.NullString
			hitHard           int
		)
		if err := rows.Scan(&p.Seq, &pitchType, &result, &velo, &locX, &locY,
			&p.Inning, &half, &p.Timestamp, &p.Pitcher, &p.Batter, &hand, &hitResult, &hitHard); err != nil {
			return nil, err
		}
		p.Type = model.PitchType(pitchType)
		p.Result = model.PitchResult(result)
		if velo.Valid {
			v := velo.Float64
			p.Velocity = &v
		}
		if locX.Valid && locY.Valid {
			p.Location = &model.Location{X: locX.Float64, Y: locY.Float64}
		}
		p.Half = model.ParseHalf(half)
		p.BatHand = model.ParseHand(hand)
		if hitResult.Valid {
			p.Hit = &model.HitEvent{Result: model.HitResult(hitResult.String), Hard: hitHard != 0}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPitchers returns the distinct pitchers of a game (or of all games when
// gameID is empty) in order of first appearance.
func (db *DB) ListPitchers(gameID string) ([]string, error) {
	query := `SELECT pitcher FROM pitches WHERE pitcher != '' GROUP BY pitcher ORDER BY MIN(game_id), MIN(seq)`
	args := []any{}
	if gameID != "" {
		query = `SELECT pitcher FROM pitches WHERE pitcher != '' AND game_id = ? GROUP BY pitcher ORDER BY MIN(seq)`
		args = append(args, gameID)
	}
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ---- Chart sessions ----

// SaveSession upserts a live charting session.
func (db *DB) SaveSession(s model.ChartSession) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO chart_sessions(
			id, game_id, balls, strikes, outs, inning, top_bottom, pitch_count, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		s.ID, s.GameID, s.State.Balls, s.State.Strikes, s.State.Outs,
		s.State.Inning, s.State.Half.String(), s.PitchCount,
		s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetSessionByPrefix finds the most recently updated session whose id starts with prefix.
func (db *DB) GetSessionByPrefix(prefix string) (*model.ChartSession, error) {
	var (
		s         model.ChartSession
		half      string
		updatedAt string
	)
	err := db.conn.QueryRow(`
		SELECT id, game_id, balls, strikes, outs, inning, top_bottom, pitch_count, updated_at
		FROM chart_sessions WHERE id LIKE ? ORDER BY updated_at DESC LIMIT 1`, prefix+"%").
		Scan(&s.ID, &s.GameID, &s.State.Balls, &s.State.Strikes, &s.State.Outs,
			&s.State.Inning, &half, &s.PitchCount, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.State.Half = model.ParseHalf(half)
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return &s, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
