package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

// ArchiveVersion is bumped whenever the archive layout changes.
const ArchiveVersion = 1

// Archive is a self-contained copy of one match.
type Archive struct {
	Version int             `json:"version"`
	Match   archiveMatch    `json:"match"`
	Players []archivePlayer `json:"players"`
	Events  []archiveEvent  `json:"events"`
}

type archiveMatch struct {
	ID                string    `json:"id"`
	TeamA             string    `json:"team_a"`
	TeamB             string    `json:"team_b"`
	DefenseA          string    `json:"defense_a,omitempty"`
	DefenseB          string    `json:"defense_b,omitempty"`
	ScoreA            int       `json:"score_a"`
	ScoreB            int       `json:"score_b"`
	ElapsedSeconds    int       `json:"elapsed_seconds"`
	InitialPossession string    `json:"initial_possession,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

type archivePlayer struct {
	Side       string `json:"side"`
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Goalkeeper bool   `json:"goalkeeper,omitempty"`
	Position   string `json:"position,omitempty"`
	Hand       string `json:"hand,omitempty"`
}

type archiveEvent struct {
	ID              string    `json:"id"`
	Elapsed         int       `json:"elapsed"`
	Time            string    `json:"time"`
	Player          int       `json:"player"`
	Side            string    `json:"side"`
	Action          string    `json:"action"`
	CourtZone       string    `json:"court_zone,omitempty"`
	GoalZone        int       `json:"goal_zone,omitempty"`
	Defense         string    `json:"defense,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	RivalGoalkeeper int       `json:"rival_goalkeeper,omitempty"`
	TurnoverKind    string    `json:"turnover_kind,omitempty"`
	RecoveryKind    string    `json:"recovery_kind,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewArchive packs a match, its roster and its log.
func NewArchive(m model.Match, players []model.Player, events []model.Event) *Archive {
	a := &Archive{
		Version: ArchiveVersion,
		Match: archiveMatch{
			ID: m.ID, TeamA: m.TeamAName, TeamB: m.TeamBName,
			DefenseA: string(m.DefenseA), DefenseB: string(m.DefenseB),
			ScoreA: m.ScoreA, ScoreB: m.ScoreB,
			ElapsedSeconds:    m.ElapsedSeconds,
			InitialPossession: string(m.InitialPossession),
			Status:            string(m.Status),
			CreatedAt:         m.CreatedAt.UTC(),
		},
		Players: make([]archivePlayer, 0, len(players)),
		Events:  make([]archiveEvent, 0, len(events)),
	}
	for _, p := range players {
		a.Players = append(a.Players, archivePlayer{
			Side: string(p.Side), Number: p.Number, Name: p.Name,
			Goalkeeper: p.IsGoalkeeper, Position: string(p.Position), Hand: string(p.Hand),
		})
	}
	for _, e := range events {
		d := model.Flatten(e.Details)
		var tags []string
		for _, t := range d.Tags {
			tags = append(tags, string(t))
		}
		a.Events = append(a.Events, archiveEvent{
			ID: e.ID, Elapsed: e.Elapsed, Time: e.TimeFormatted(),
			Player: e.Player, Side: string(e.Side), Action: string(e.Action),
			CourtZone: string(d.CourtZone), GoalZone: int(d.GoalZone), Defense: string(d.Defense),
			Tags: tags, RivalGoalkeeper: d.RivalGoalkeeper,
			TurnoverKind: string(d.TurnoverKind), RecoveryKind: string(d.RecoveryKind),
			CreatedAt: e.CreatedAt.UTC(),
		})
	}
	return a
}

// Unpack returns the model values held by the archive.
func (a *Archive) Unpack() (model.Match, []model.Player, []model.Event, error) {
	m := model.Match{
		ID: a.Match.ID, TeamAName: a.Match.TeamA, TeamBName: a.Match.TeamB,
		DefenseA: model.DefenseType(a.Match.DefenseA), DefenseB: model.DefenseType(a.Match.DefenseB),
		ScoreA: a.Match.ScoreA, ScoreB: a.Match.ScoreB,
		ElapsedSeconds:    a.Match.ElapsedSeconds,
		InitialPossession: model.Side(a.Match.InitialPossession),
		Status:            model.MatchStatus(a.Match.Status),
		CreatedAt:         a.Match.CreatedAt,
	}

	players := make([]model.Player, 0, len(a.Players))
	for _, p := range a.Players {
		side, err := model.ParseSide(p.Side)
		if err != nil {
			return m, nil, nil, fmt.Errorf("player #%d: %w", p.Number, err)
		}
		players = append(players, model.Player{
			MatchID: m.ID, Side: side, Number: p.Number, Name: p.Name,
			IsGoalkeeper: p.Goalkeeper, Position: model.Position(p.Position), Hand: model.Hand(p.Hand),
		})
	}

	events := make([]model.Event, 0, len(a.Events))
	for _, ae := range a.Events {
		entry, ok := catalog.Lookup(model.ActionID(ae.Action))
		if !ok {
			return m, nil, nil, fmt.Errorf("event %s: unknown action %q", ae.ID, ae.Action)
		}
		side, err := model.ParseSide(ae.Side)
		if err != nil {
			return m, nil, nil, fmt.Errorf("event %s: %w", ae.ID, err)
		}
		f := model.DetailFields{
			CourtZone:       model.CourtZone(ae.CourtZone),
			GoalZone:        model.GoalZone(ae.GoalZone),
			Defense:         model.DefenseType(ae.Defense),
			RivalGoalkeeper: ae.RivalGoalkeeper,
			TurnoverKind:    model.TurnoverType(ae.TurnoverKind),
			RecoveryKind:    model.RecoveryType(ae.RecoveryKind),
		}
		for _, t := range ae.Tags {
			f.Tags = append(f.Tags, model.Tag(t))
		}
		events = append(events, model.Event{
			ID: ae.ID, MatchID: m.ID, Elapsed: ae.Elapsed, Player: ae.Player,
			Side: side, Action: entry.ID, Details: f.Build(entry.Shape),
			CreatedAt: ae.CreatedAt,
		})
	}
	return m, players, events, nil
}

// WriteArchive encodes a as zstd-compressed JSON.
func WriteArchive(w io.Writer, a *Archive) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(a); err != nil {
		enc.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	return enc.Close()
}

// ReadArchive decodes an archive written by WriteArchive.
func ReadArchive(r io.Reader) (*Archive, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var a Archive
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if a.Version != ArchiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Version)
	}
	return &a, nil
}
