package auction

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/viewstate"
)

const (
	selectTeamMessage   = "Please select a team"
	invalidPriceMessage = "Please enter a valid sold price"
	assignedMessage     = "Player successfully assigned!"
	assignFailedMessage = "Failed to assign player"
	unsoldMessage       = "Player marked as UNSOLD"
)

// DeskBackend defines what the desk needs from the auction backend
type DeskBackend interface {
	GetPlayer(ctx context.Context, serialNo string) (*models.Player, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	AssignPlayer(ctx context.Context, assignment models.Assignment) error
}

// Announcer voices or pushes an outcome. Failures never reach the operator.
type Announcer interface {
	Announce(ctx context.Context, event models.AuctionEvent) error
}

// Journal keeps a local record of outcomes. Failures never reach the operator.
type Journal interface {
	Record(ctx context.Context, event models.AuctionEvent) error
}

// DeskConfig carries a desk's collaborators. Nil announcer and journal are
// skipped; a nil clock is the real clock.
type DeskConfig struct {
	Announcer     Announcer
	Journal       Journal
	Clock         clockwork.Clock
	StampDuration time.Duration
	// IdleTTL is how long the Registry keeps a desk nobody asks for.
	IdleTTL time.Duration
}

// Desk runs the player-detail workflow for one serial number.
type Desk struct {
	serialNo string
	backend  DeskBackend
	cfg      DeskConfig

	mu       sync.Mutex
	view     viewstate.View[Lot]
	action   viewstate.Action[Stamp]
	lastUsed time.Time
}

// NewDesk creates a desk in the Loading state.
func NewDesk(serialNo string, backend DeskBackend, cfg DeskConfig) *Desk {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Desk{
		serialNo: serialNo,
		backend:  backend,
		cfg:      cfg,
		view:     viewstate.Loading[Lot](),
		action:   viewstate.Idle[Stamp](),
		lastUsed: cfg.Clock.Now(),
	}
}

func (d *Desk) SerialNo() string {
	return d.serialNo
}

func (d *Desk) touch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastUsed = d.cfg.Clock.Now()
}

// idleBefore reports an untouched desk with nothing in flight.
func (d *Desk) idleBefore(cutoff time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return !d.action.IsSubmitting() && d.lastUsed.Before(cutoff)
}

// disposable reports a desk whose only state is a failed load.
func (d *Desk) disposable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, stamped := d.action.Outcome()
	return d.view.IsFailed() && !stamped && !d.action.IsSubmitting()
}

// Snapshot copies the current state for rendering.
func (d *Desk) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Snapshot{
		SerialNo: d.serialNo,
		View:     d.view,
		Action:   d.action,
	}
}

// Load fetches the player and the team list concurrently. Either failing
// replaces the whole view with one failure reason, the player's first.
func (d *Desk) Load(ctx context.Context) viewstate.View[Lot] {
	var (
		player              *models.Player
		teams               []models.Team
		playerErr, teamsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		player, playerErr = d.backend.GetPlayer(gctx, d.serialNo)
		return playerErr
	})
	g.Go(func() error {
		teams, teamsErr = d.backend.ListTeams(gctx)
		return teamsErr
	})
	_ = g.Wait()

	var view viewstate.View[Lot]
	switch {
	case playerErr != nil:
		log.Error().Err(playerErr).Str("serial_no", d.serialNo).Msg("failed to load player")
		view = viewstate.Failed[Lot](ErrPlayerNotFound.Error())
	case teamsErr != nil:
		log.Error().Err(teamsErr).Str("serial_no", d.serialNo).Msg("failed to load teams")
		view = viewstate.Failed[Lot](ErrTeamsFetch.Error())
	default:
		view = viewstate.Ready(Lot{Player: *player, Teams: teams})
	}

	d.mu.Lock()
	d.view = view
	d.mu.Unlock()
	return view
}

// ParseSoldPrice accepts only a finite, strictly positive number.
func ParseSoldPrice(raw string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

// begin moves the desk into Submitting and returns the loaded lot. The
// previous stamp is dropped as soon as the new action starts.
func (d *Desk) begin() (Lot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.action.IsSubmitting() {
		return Lot{}, ErrSubmitting
	}
	lot, ok := d.view.Data()
	if !ok {
		return Lot{}, ErrNotLoaded
	}
	d.action = viewstate.Submitting[Stamp]()
	return lot, nil
}

func (d *Desk) finish(action viewstate.Action[Stamp]) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.action = action
}

func (d *Desk) stamp(outcome models.Outcome, price float64, teamID, teamName string) Stamp {
	now := d.cfg.Clock.Now()
	s := Stamp{
		Outcome:  outcome,
		Price:    price,
		TeamID:   teamID,
		TeamName: teamName,
		At:       now,
	}
	if d.cfg.StampDuration > 0 {
		s.Until = now.Add(d.cfg.StampDuration)
	}
	return s
}

// Assign sells the player to the chosen team. Local validation failures
// raise one notification and send nothing. The entered values are the
// caller's to keep; use FailureReason on the returned error for the text to
// show beside them.
func (d *Desk) Assign(ctx context.Context, form AssignForm, sink notify.Sink) error {
	if d.Snapshot().Action.IsSubmitting() {
		return ErrSubmitting
	}

	if form.TeamID == "" {
		notify.Error(sink, selectTeamMessage)
		return fmt.Errorf("%w: no team selected", ErrInvalidAssign)
	}
	price, ok := ParseSoldPrice(form.SoldPrice)
	if !ok {
		notify.Error(sink, invalidPriceMessage)
		return fmt.Errorf("%w: sold price %q", ErrInvalidAssign, form.SoldPrice)
	}

	lot, err := d.begin()
	if err != nil {
		return err
	}

	assignment := models.Assignment{
		PlayerID:  lot.Player.ID,
		TeamID:    form.TeamID,
		SoldPrice: price,
	}
	if err := d.backend.AssignPlayer(ctx, assignment); err != nil {
		message := FailureReason(err)
		log.Error().Err(err).Str("player_id", assignment.PlayerID).Str("team_id", assignment.TeamID).Msg("failed to assign player")
		notify.Error(sink, message)
		d.finish(viewstate.ActionFailedWith[Stamp](message))
		return err
	}

	teamName := UnknownTeamName
	if team, found := models.FindTeam(lot.Teams, form.TeamID); found && team.TeamName != "" {
		teamName = team.TeamName
	}

	stamp := d.stamp(models.OutcomeSold, price, form.TeamID, teamName)
	d.finish(viewstate.Succeeded(stamp))

	log.Info().
		Str("serial_no", d.serialNo).
		Str("player_id", assignment.PlayerID).
		Str("team_id", assignment.TeamID).
		Float64("sold_price", price).
		Msg("player assigned")

	d.publish(ctx, models.AuctionEvent{
		Type:         models.EventPlayerSold,
		PlayerID:     lot.Player.ID,
		PlayerName:   lot.Player.PlayerName,
		TeamID:       form.TeamID,
		TeamName:     teamName,
		SoldPrice:    price,
		Announcement: ComposeAnnouncement(lot.Player.PlayerName, price, teamName),
		OccurredAt:   stamp.At,
	})
	notify.Success(sink, assignedMessage)

	d.refresh(ctx)
	return nil
}

// MarkUnsold raises the unsold stamp. Nothing is sent to the backend.
func (d *Desk) MarkUnsold(ctx context.Context, sink notify.Sink) error {
	lot, err := d.begin()
	if err != nil {
		return err
	}

	stamp := d.stamp(models.OutcomeUnsold, 0, "", "")
	d.mu.Lock()
	d.action = viewstate.Succeeded(stamp)
	d.mu.Unlock()

	log.Info().Str("serial_no", d.serialNo).Str("player_id", lot.Player.ID).Msg("player marked unsold")

	d.publish(ctx, models.AuctionEvent{
		Type:       models.EventPlayerUnsold,
		PlayerID:   lot.Player.ID,
		PlayerName: lot.Player.PlayerName,
		OccurredAt: stamp.At,
	})
	notify.Error(sink, unsoldMessage)
	return nil
}

// publish hands the event to the announcer and the journal, swallowing
// their failures.
func (d *Desk) publish(ctx context.Context, event models.AuctionEvent) {
	event.ID = uuid.NewString()
	event.SerialNo = d.serialNo

	if d.cfg.Announcer != nil {
		if err := d.cfg.Announcer.Announce(ctx, event); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("announcement failed")
		}
	}
	if d.cfg.Journal != nil {
		if err := d.cfg.Journal.Record(ctx, event); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to journal outcome")
		}
	}
}

// refresh re-reads the player and then the teams after a sale. A failed
// read keeps the stale data and is only logged.
func (d *Desk) refresh(ctx context.Context) {
	player, err := d.backend.GetPlayer(ctx, d.serialNo)
	if err != nil {
		log.Warn().Err(err).Str("serial_no", d.serialNo).Msg("failed to refresh player after assignment")
	}
	teams, teamsErr := d.backend.ListTeams(ctx)
	if teamsErr != nil {
		log.Warn().Err(teamsErr).Str("serial_no", d.serialNo).Msg("failed to refresh teams after assignment")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lot, ok := d.view.Data()
	if !ok {
		return
	}
	if err == nil {
		lot.Player = *player
	}
	if teamsErr == nil {
		lot.Teams = teams
	}
	d.view = viewstate.Ready(lot)
}
