package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-hb-stats/internal/model"
)

const matchColumns = `id, team_a, team_b, defense_a, defense_b, score_a, score_b,
	elapsed_seconds, initial_possession, status, created_at`

// CreateMatch inserts a new match.
func (db *DB) CreateMatch(ctx context.Context, m *model.Match) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO matches(`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TeamAName, m.TeamBName, string(m.DefenseA), string(m.DefenseB),
		m.ScoreA, m.ScoreB, m.ElapsedSeconds, string(m.InitialPossession),
		string(m.Status), m.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(r rowScanner) (*model.Match, error) {
	var (
		m                               model.Match
		defA, defB, initial, status, ts string
	)
	if err := r.Scan(&m.ID, &m.TeamAName, &m.TeamBName, &defA, &defB, &m.ScoreA, &m.ScoreB,
		&m.ElapsedSeconds, &initial, &status, &ts); err != nil {
		return nil, err
	}
	m.DefenseA = model.DefenseType(defA)
	m.DefenseB = model.DefenseType(defB)
	m.InitialPossession = model.Side(initial)
	m.Status = model.MatchStatus(status)
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	return &m, nil
}

// GetMatch returns the match with the given id, or nil if it does not exist.
func (db *DB) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	m, err := scanMatch(db.conn.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// GetMatchByPrefix finds the newest match whose id starts with the given prefix.
func (db *DB) GetMatchByPrefix(ctx context.Context, prefix string) (*model.Match, error) {
	m, err := scanMatch(db.conn.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// ListMatches returns all stored matches, newest first.
func (db *DB) ListMatches(ctx context.Context) ([]model.Match, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// DeleteMatch removes a match together with its roster and event log.
func (db *DB) DeleteMatch(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM events WHERE match_id = ?`,
		`DELETE FROM players WHERE match_id = ?`,
		`DELETE FROM matches WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete match %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// UpdateMatchStatus persists a lifecycle transition together with the clock.
func (db *DB) UpdateMatchStatus(ctx context.Context, id string, status model.MatchStatus, elapsed int) error {
	return db.execOne(ctx, `UPDATE matches SET status = ?, elapsed_seconds = ? WHERE id = ?`,
		string(status), elapsed, id)
}

// UpdateInitialPossession records which side had the ball at kick-off.
func (db *DB) UpdateInitialPossession(ctx context.Context, id string, side model.Side) error {
	return db.execOne(ctx, `UPDATE matches SET initial_possession = ? WHERE id = ?`, string(side), id)
}

// UpdateScore overwrites the running score.
func (db *DB) UpdateScore(ctx context.Context, id string, scoreA, scoreB int) error {
	return db.execOne(ctx, `UPDATE matches SET score_a = ?, score_b = ? WHERE id = ?`, scoreA, scoreB, id)
}

// UpdateElapsed stores the match clock.
func (db *DB) UpdateElapsed(ctx context.Context, id string, elapsed int) error {
	return db.execOne(ctx, `UPDATE matches SET elapsed_seconds = ? WHERE id = ?`, elapsed, id)
}

// UpdateDefense stores the formation declared by one side.
func (db *DB) UpdateDefense(ctx context.Context, id string, side model.Side, d model.DefenseType) error {
	var col string
	switch side {
	case model.SideA:
		col = "defense_a"
	case model.SideB:
		col = "defense_b"
	default:
		return model.ErrInvalidSide
	}
	return db.execOne(ctx, `UPDATE matches SET `+col+` = ? WHERE id = ?`, string(d), id)
}

// execOne runs an update that must touch exactly one row.
func (db *DB) execOne(ctx context.Context, query string, args ...any) error {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", n)
	}
	return nil
}

// InsertPlayers bulk-inserts roster entries in a transaction. A duplicate
// (match, side, number) fails the whole batch.
func (db *DB) InsertPlayers(ctx context.Context, players []model.Player) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players(match_id, side, number, name, is_goalkeeper, position, hand)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		_, err = stmt.ExecContext(ctx,
			p.MatchID, string(p.Side), p.Number, p.Name,
			boolInt(p.IsGoalkeeper), string(p.Position), string(p.Hand),
		)
		if err != nil {
			return fmt.Errorf("insert player %s #%d: %w", p.Side, p.Number, err)
		}
	}
	return tx.Commit()
}

// ListPlayers returns a match's roster ordered by side and shirt number.
func (db *DB) ListPlayers(ctx context.Context, matchID string) ([]model.Player, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT side, number, name, is_goalkeeper, position, hand
		FROM players WHERE match_id = ?
		ORDER BY side, number`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p := model.Player{MatchID: matchID}
		var side, position, hand string
		var gk int
		if err := rows.Scan(&side, &p.Number, &p.Name, &gk, &position, &hand); err != nil {
			return nil, err
		}
		p.Side = model.Side(side)
		p.IsGoalkeeper = gk != 0
		p.Position = model.Position(position)
		p.Hand = model.Hand(hand)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePlayer removes one roster entry.
func (db *DB) DeletePlayer(ctx context.Context, matchID string, side model.Side, number int) error {
	return db.execOne(ctx, `DELETE FROM players WHERE match_id = ? AND side = ? AND number = ?`,
		matchID, string(side), number)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
