// Package wizard implements the guided capture flow that turns operator input
// into exactly one event record: pick a player, pick an action, fill the
// detail fields the action needs, confirm.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-hb-stats/internal/catalog"
	"github.com/pable/go-hb-stats/internal/model"
)

var (
	ErrWrongState            = errors.New("operation not allowed in current wizard state")
	ErrActionNotOffered      = errors.New("action not offered to this player")
	ErrFieldNotOffered       = errors.New("field not offered by this action")
	ErrPlayerNotInRoster     = errors.New("player not in roster")
	ErrGoalkeeperNotInRoster = errors.New("goalkeeper not in opposing roster")
)

// ValidationError is returned by Confirm when required detail fields are
// still empty.
type ValidationError struct {
	Action  model.ActionID
	Missing []catalog.Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.String()
	}
	return fmt.Sprintf("%s: missing %s", e.Action, strings.Join(names, ", "))
}

// State is the wizard's position in the capture flow.
type State int

const (
	StateIdle State = iota
	StateActionSelection
	StateDetails
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActionSelection:
		return "ACTION_SELECTION"
	case StateDetails:
		return "DETAILS"
	}
	return "?"
}

// Committer persists one finished record.
type Committer interface {
	Commit(ctx context.Context, e model.Event) error
}

// Clock supplies the match time stamped on each record.
type Clock interface {
	Elapsed() int
}

// Source resolves roster and match context while capturing.
type Source interface {
	Player(side model.Side, number int) (model.Player, bool)
	Goalkeepers(side model.Side) []model.Player
	DeclaredDefense(side model.Side) model.DefenseType
}

// Wizard holds the transient selection of one capture. It never touches the
// event log directly; finished records go to the Committer.
type Wizard struct {
	matchID   string
	src       Source
	clock     Clock
	committer Committer
	now       func() time.Time

	state  State
	player model.Player
	menu   []catalog.Entry
	action catalog.Entry
	fields model.DetailFields
}

// New returns an idle wizard for one match.
func New(matchID string, src Source, clock Clock, committer Committer) *Wizard {
	return &Wizard{
		matchID:   matchID,
		src:       src,
		clock:     clock,
		committer: committer,
		now:       time.Now,
	}
}

func (w *Wizard) State() State { return w.state }

// Player returns the active player, if any.
func (w *Wizard) Player() (model.Player, bool) {
	return w.player, w.state != StateIdle
}

// Action returns the selected action while in DETAILS.
func (w *Wizard) Action() (catalog.Entry, bool) {
	return w.action, w.state == StateDetails
}

// Fields returns a copy of the detail fields collected so far.
func (w *Wizard) Fields() model.DetailFields {
	f := w.fields
	f.Tags = slices.Clone(w.fields.Tags)
	return f
}

// Menu returns the actions offered to the active player, nil when idle.
func (w *Wizard) Menu() []catalog.Entry {
	if w.state == StateIdle {
		return nil
	}
	return w.menu
}

// SelectPlayer makes (side, number) the active player, replacing any current
// selection. The action menu is fixed here from the goalkeeper flag.
func (w *Wizard) SelectPlayer(side model.Side, number int) error {
	p, ok := w.src.Player(side, number)
	if !ok {
		return fmt.Errorf("%w: side %s #%d", ErrPlayerNotInRoster, side, number)
	}
	w.reset()
	w.player = p
	w.menu = catalog.Menu(p.IsGoalkeeper)
	w.state = StateActionSelection
	return nil
}

// SelectAction picks an action from the active menu. Actions without detail
// fields are committed at once and the record is returned; otherwise the
// wizard moves to DETAILS and the returned record is nil.
func (w *Wizard) SelectAction(ctx context.Context, id model.ActionID) (*model.Event, error) {
	if w.state != StateActionSelection {
		return nil, fmt.Errorf("select action in %s: %w", w.state, ErrWrongState)
	}
	idx := slices.IndexFunc(w.menu, func(e catalog.Entry) bool { return e.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrActionNotOffered, id)
	}
	w.action = w.menu[idx]
	w.fields = model.DetailFields{}
	w.state = StateDetails

	if !w.action.RequiresDetails {
		e, err := w.Confirm(ctx)
		if err != nil {
			return nil, err
		}
		return &e, nil
	}
	if w.action.Offered.Has(catalog.FieldDefense) {
		w.fields.Defense = w.src.DeclaredDefense(w.player.Side.Opponent())
	}
	return nil, nil
}

func (w *Wizard) offered(f catalog.Field) error {
	if w.state != StateDetails {
		return fmt.Errorf("set %s in %s: %w", f, w.state, ErrWrongState)
	}
	if !w.action.Offered.Has(f) {
		return fmt.Errorf("%w: %s does not take %s", ErrFieldNotOffered, w.action.ID, f)
	}
	return nil
}

func (w *Wizard) SetDefense(d model.DefenseType) error {
	if err := w.offered(catalog.FieldDefense); err != nil {
		return err
	}
	v, err := model.ParseDefense(string(d))
	if err != nil {
		return err
	}
	w.fields.Defense = v
	return nil
}

func (w *Wizard) SetCourtZone(z model.CourtZone) error {
	if err := w.offered(catalog.FieldCourtZone); err != nil {
		return err
	}
	v, err := model.ParseCourtZone(string(z))
	if err != nil {
		return err
	}
	w.fields.CourtZone = v
	return nil
}

func (w *Wizard) SetGoalZone(z model.GoalZone) error {
	if err := w.offered(catalog.FieldGoalZone); err != nil {
		return err
	}
	if _, err := model.ParseGoalZone(int(z)); err != nil {
		return err
	}
	w.fields.GoalZone = z
	return nil
}

// ToggleTag adds t to the record's tags, or removes it if already present.
func (w *Wizard) ToggleTag(t model.Tag) error {
	if err := w.offered(catalog.FieldTags); err != nil {
		return err
	}
	t, err := model.ParseTag(string(t))
	if err != nil {
		return err
	}
	if i := slices.Index(w.fields.Tags, t); i >= 0 {
		w.fields.Tags = slices.Delete(w.fields.Tags, i, i+1)
		return nil
	}
	w.fields.Tags = append(w.fields.Tags, t)
	return nil
}

// SetRivalGoalkeeper names the opposing goalkeeper who faced the shot.
func (w *Wizard) SetRivalGoalkeeper(number int) error {
	if err := w.offered(catalog.FieldRivalGoalkeeper); err != nil {
		return err
	}
	if err := w.checkGoalkeeper(number); err != nil {
		return err
	}
	w.fields.RivalGoalkeeper = number
	return nil
}

func (w *Wizard) SetTurnoverKind(k model.TurnoverType) error {
	if err := w.offered(catalog.FieldTurnoverKind); err != nil {
		return err
	}
	v, err := model.ParseTurnoverType(string(k))
	if err != nil {
		return err
	}
	w.fields.TurnoverKind = v
	return nil
}

func (w *Wizard) SetRecoveryKind(k model.RecoveryType) error {
	if err := w.offered(catalog.FieldRecoveryKind); err != nil {
		return err
	}
	v, err := model.ParseRecoveryType(string(k))
	if err != nil {
		return err
	}
	w.fields.RecoveryKind = v
	return nil
}

// Clear empties one detail field.
func (w *Wizard) Clear(f catalog.Field) error {
	if err := w.offered(f); err != nil {
		return err
	}
	switch f {
	case catalog.FieldDefense:
		w.fields.Defense = ""
	case catalog.FieldCourtZone:
		w.fields.CourtZone = ""
	case catalog.FieldGoalZone:
		w.fields.GoalZone = 0
	case catalog.FieldTags:
		w.fields.Tags = nil
	case catalog.FieldRivalGoalkeeper:
		w.fields.RivalGoalkeeper = 0
	case catalog.FieldTurnoverKind:
		w.fields.TurnoverKind = ""
	case catalog.FieldRecoveryKind:
		w.fields.RecoveryKind = ""
	}
	return nil
}

// Back steps one state back: DETAILS drops the action and its fields,
// ACTION_SELECTION drops the player. It is a no-op when idle.
func (w *Wizard) Back() {
	switch w.state {
	case StateDetails:
		w.action = catalog.Entry{}
		w.fields = model.DetailFields{}
		w.state = StateActionSelection
	case StateActionSelection:
		w.reset()
	}
}

// Reset abandons the current capture.
func (w *Wizard) Reset() { w.reset() }

func (w *Wizard) reset() {
	*w = Wizard{matchID: w.matchID, src: w.src, clock: w.clock, committer: w.committer, now: w.now}
}

// Missing lists the required fields that are still empty. The rival
// goalkeeper is only required when the opposing roster has one.
func (w *Wizard) Missing() []catalog.Field {
	if w.state != StateDetails {
		return nil
	}
	var out []catalog.Field
	for _, f := range w.action.Required.List() {
		if w.filled(f) {
			continue
		}
		if f == catalog.FieldRivalGoalkeeper && len(w.src.Goalkeepers(w.player.Side.Opponent())) == 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (w *Wizard) filled(f catalog.Field) bool {
	switch f {
	case catalog.FieldDefense:
		return w.fields.Defense != ""
	case catalog.FieldCourtZone:
		return w.fields.CourtZone != ""
	case catalog.FieldGoalZone:
		return w.fields.GoalZone.Valid()
	case catalog.FieldTags:
		return len(w.fields.Tags) > 0
	case catalog.FieldRivalGoalkeeper:
		return w.fields.RivalGoalkeeper != 0
	case catalog.FieldTurnoverKind:
		return w.fields.TurnoverKind != ""
	case catalog.FieldRecoveryKind:
		return w.fields.RecoveryKind != ""
	}
	return false
}

// CanConfirm reports whether Confirm would pass validation.
func (w *Wizard) CanConfirm() bool {
	return w.state == StateDetails && len(w.Missing()) == 0
}

// Confirm builds the record and hands it to the committer. If the committer
// fails the wizard keeps every field so the operator can retry.
func (w *Wizard) Confirm(ctx context.Context) (model.Event, error) {
	if w.state != StateDetails {
		return model.Event{}, fmt.Errorf("confirm in %s: %w", w.state, ErrWrongState)
	}
	if missing := w.Missing(); len(missing) > 0 {
		return model.Event{}, &ValidationError{Action: w.action.ID, Missing: missing}
	}

	if _, ok := w.src.Player(w.player.Side, w.player.Number); !ok {
		err := fmt.Errorf("%w: side %s #%d", ErrPlayerNotInRoster, w.player.Side, w.player.Number)
		w.reset()
		return model.Event{}, err
	}
	if n := w.fields.RivalGoalkeeper; n != 0 {
		if err := w.checkGoalkeeper(n); err != nil {
			w.reset()
			return model.Event{}, err
		}
	}

	e := model.Event{
		ID:        uuid.NewString(),
		MatchID:   w.matchID,
		Elapsed:   w.clock.Elapsed(),
		Player:    w.player.Number,
		Side:      w.player.Side,
		Action:    w.action.ID,
		Details:   w.Fields().Build(w.action.Shape),
		CreatedAt: w.now().UTC(),
	}
	if err := w.committer.Commit(ctx, e); err != nil {
		return model.Event{}, fmt.Errorf("commit %s: %w", e.Action, err)
	}
	w.reset()
	return e, nil
}

func (w *Wizard) checkGoalkeeper(number int) error {
	opp := w.player.Side.Opponent()
	p, ok := w.src.Player(opp, number)
	if !ok || !p.IsGoalkeeper {
		return fmt.Errorf("%w: side %s #%d", ErrGoalkeeperNotInRoster, opp, number)
	}
	return nil
}
