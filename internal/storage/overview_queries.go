package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Overview holds database-wide counts for the summary command.
type Overview struct {
	Games         int
	ImportedGames int // games with a source log hash
	Pitches       int
	Pitchers      int
	Sessions      int
	Earliest      time.Time
	Latest        time.Time
}

// TypeCount is the number of stored pitches of one type.
type TypeCount struct {
	PitchType string
	Pitches   int
	AvgVelo   float64
	HasVelo   bool
}

// PitcherActivity is how much one pitcher appears in the database.
type PitcherActivity struct {
	Name    string
	Games   int
	Pitches int
}

// GameRef identifies a game a pitcher appeared in.
type GameRef struct {
	ID         string
	Label      string
	ImportedAt time.Time
}

// GetOverview returns database-wide counts. Earliest and Latest are zero when
// no games are stored.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(SUM(CASE WHEN hash != '' THEN 1 ELSE 0 END), 0),
		       MIN(imported_at), MAX(imported_at)
		FROM games`).Scan(&ov.Games, &ov.ImportedGames, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("count games: %w", err)
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT NULLIF(pitcher, ''))
		FROM pitches`).Scan(&ov.Pitches, &ov.Pitchers)
	if err != nil {
		return ov, fmt.Errorf("count pitches: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM chart_sessions`).Scan(&ov.Sessions); err != nil {
		return ov, fmt.Errorf("count sessions: %w", err)
	}

	if earliest.Valid {
		if ov.Earliest, err = time.Parse(time.RFC3339Nano, earliest.String); err != nil {
			return ov, fmt.Errorf("parse imported_at %q: %w", earliest.String, err)
		}
	}
	if latest.Valid {
		if ov.Latest, err = time.Parse(time.RFC3339Nano, latest.String); err != nil {
			return ov, fmt.Errorf("parse imported_at %q: %w", latest.String, err)
		}
	}
	return ov, nil
}

// GetPitchTypeCounts returns stored pitches grouped by type, most thrown first.
// Pitches without a type are left out.
func (db *DB) GetPitchTypeCounts() ([]TypeCount, error) {
	rows, err := db.conn.Query(`
		SELECT pitch_type, COUNT(1), AVG(velocity)
		FROM pitches
		WHERE pitch_type != ''
		GROUP BY pitch_type
		ORDER BY COUNT(1) DESC, pitch_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		var avg sql.NullFloat64
		if err := rows.Scan(&tc.PitchType, &tc.Pitches, &avg); err != nil {
			return nil, err
		}
		tc.AvgVelo, tc.HasVelo = avg.Float64, avg.Valid
		out = append(out, tc)
	}
	return out, rows.Err()
}

// GetTopPitchers returns the pitchers with the most stored pitches.
func (db *DB) GetTopPitchers(limit int) ([]PitcherActivity, error) {
	rows, err := db.conn.Query(`
		SELECT pitcher, COUNT(DISTINCT game_id), COUNT(1)
		FROM pitches
		WHERE pitcher != ''
		GROUP BY pitcher
		ORDER BY COUNT(1) DESC, pitcher
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PitcherActivity
	for rows.Next() {
		var p PitcherActivity
		if err := rows.Scan(&p.Name, &p.Games, &p.Pitches); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPitcherGames returns the games pitcher threw in, oldest first.
func (db *DB) GetPitcherGames(pitcher string) ([]GameRef, error) {
	rows, err := db.conn.Query(`
		SELECT g.id, g.label, g.imported_at
		FROM games g
		WHERE EXISTS (SELECT 1 FROM pitches p WHERE p.game_id = g.id AND p.pitcher = ?)
		ORDER BY g.imported_at, g.id`, pitcher)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRef
	for rows.Next() {
		var r GameRef
		var importedAt string
		if err := rows.Scan(&r.ID, &r.Label, &importedAt); err != nil {
			return nil, err
		}
		if r.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
			return nil, fmt.Errorf("parse imported_at %q: %w", importedAt, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
