package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

const eventColumns = `id, match_id, elapsed_seconds, player_number, side, action,
	court_zone, goal_zone, defense, tags, rival_goalkeeper, turnover_kind, recovery_kind, created_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateEvent appends one committed record to the match log.
func (db *DB) CreateEvent(ctx context.Context, e model.Event) error {
	return insertEvent(ctx, db.conn, e)
}

func insertEvent(ctx context.Context, ex execer, e model.Event) error {
	d := model.Flatten(e.Details)
	_, err := ex.ExecContext(ctx, `
		INSERT INTO events(id, match_id, elapsed_seconds, time_formatted, player_number, side, action,
			court_zone, goal_zone, defense, tags, rival_goalkeeper, turnover_kind, recovery_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MatchID, e.Elapsed, e.TimeFormatted(), e.Player, string(e.Side), string(e.Action),
		string(d.CourtZone), int(d.GoalZone), string(d.Defense), model.JoinTags(d.Tags),
		d.RivalGoalkeeper, string(d.TurnoverKind), string(d.RecoveryKind),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.ID, err)
	}
	return nil
}

func scanEvent(r rowScanner) (model.Event, error) {
	var (
		e                                      model.Event
		side, action, court, defense, tags, ts string
		turnover, recovery                     string
		goalZone, rivalGK                      int
	)
	if err := r.Scan(&e.ID, &e.MatchID, &e.Elapsed, &e.Player, &side, &action,
		&court, &goalZone, &defense, &tags, &rivalGK, &turnover, &recovery, &ts); err != nil {
		return e, err
	}
	e.Side = model.Side(side)
	e.Action = model.ActionID(action)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)

	fields := model.DetailFields{
		CourtZone:       model.CourtZone(court),
		GoalZone:        model.GoalZone(goalZone),
		Defense:         model.DefenseType(defense),
		Tags:            model.SplitTags(tags),
		RivalGoalkeeper: rivalGK,
		TurnoverKind:    model.TurnoverType(turnover),
		RecoveryKind:    model.RecoveryType(recovery),
	}
	entry, ok := catalog.Lookup(e.Action)
	if !ok {
		log.WithFields(log.Fields{"event": e.ID, "action": action}).Warn("stored event has unknown action")
	}
	e.Details = fields.Build(entry.Shape)
	return e, nil
}

// ListEvents returns a match's log in commit order.
func (db *DB) ListEvents(ctx context.Context, matchID string) ([]model.Event, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteLastEvent removes and returns the most recent record of a match.
// It returns nil when the log is empty.
func (db *DB) DeleteLastEvent(ctx context.Context, matchID string) (*model.Event, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE match_id = ? ORDER BY seq DESC LIMIT 1`, matchID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, e.ID); err != nil {
		return nil, fmt.Errorf("delete event %s: %w", e.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

// ImportMatch writes a complete match (header, roster and log) in one
// transaction. It fails if the match id already exists.
func (db *DB) ImportMatch(ctx context.Context, m *model.Match, players []model.Player, events []model.Event) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches(`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TeamAName, m.TeamBName, string(m.DefenseA), string(m.DefenseB),
		m.ScoreA, m.ScoreB, m.ElapsedSeconds, string(m.InitialPossession),
		string(m.Status), m.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	for _, p := range players {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO players(match_id, side, number, name, is_goalkeeper, position, hand)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, string(p.Side), p.Number, p.Name,
			boolInt(p.IsGoalkeeper), string(p.Position), string(p.Hand),
		)
		if err != nil {
			return fmt.Errorf("insert player %s #%d: %w", p.Side, p.Number, err)
		}
	}
	for _, e := range events {
		e.MatchID = m.ID
		if err := insertEvent(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.WithFields(log.Fields{"match": m.ID, "players": len(players), "events": len(events)}).Info("match imported")
	return nil
}
