package teams

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/upload"
	"github.com/mcdev12/tplauction/go/internal/viewstate"
)

const (
	gridFailedMessage   = "Failed to load teams. Please try again."
	detailFailedMessage = "Failed to load team details. Please try again."
	addedMessage        = "Team added successfully!"
	addFailedMessage    = "Failed to add team"
	addTransportMessage = "An error occurred while adding the team"
	logoDraftFormName   = "team"
)

// TeamsBackend defines what the app layer needs from the auction backend
type TeamsBackend interface {
	AddTeam(ctx context.Context, fields []clients.FormField, logo *clients.FormFile) error
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, teamID string) (*models.Team, error)
	ListTeamPlayers(ctx context.Context, teamID string) ([]models.Player, error)
}

// App handles the team grid, team detail and the add-team form
type App struct {
	backend TeamsBackend
	logo    *upload.Pending
	palette []string
}

// NewApp creates a new teams App. An empty palette selects DefaultPalette.
func NewApp(backend TeamsBackend, drafts upload.DraftStore, palette []string) *App {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &App{
		backend: backend,
		logo:    upload.NewPending(drafts, logoDraftFormName),
		palette: palette,
	}
}

// LoadGrid fetches every team for the home grid.
func (a *App) LoadGrid(ctx context.Context, sink notify.Sink) viewstate.View[[]GridCard] {
	teams, err := a.backend.ListTeams(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load teams")
		notify.Error(sink, gridFailedMessage)
		return viewstate.Failed[[]GridCard](ErrTeamsUnavailable.Error())
	}

	cards := make([]GridCard, 0, len(teams))
	for i, team := range teams {
		cards = append(cards, GridCard{
			Team:             team,
			Color:            ColorFor(a.palette, i),
			Purse:            FormatPurse(team.PurseAmount.Value),
			Available:        FormatPurse(team.AvailablePurse.Value),
			RemainingPercent: PurseRemainingPercent(team),
		})
	}
	return viewstate.Ready(cards)
}

// LoadDetail fetches a team and then its players. When the team loads but
// its players do not, the team is still shown with an empty roster.
func (a *App) LoadDetail(ctx context.Context, teamID string, sink notify.Sink) viewstate.View[Detail] {
	team, err := a.backend.GetTeam(ctx, teamID)
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("failed to load team")
		notify.Error(sink, detailFailedMessage)
		return viewstate.Failed[Detail](ErrTeamNotFound.Error())
	}

	players, err := a.backend.ListTeamPlayers(ctx, teamID)
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("failed to load team players")
		notify.Error(sink, detailFailedMessage)
		players = nil
	}

	return viewstate.Ready(Detail{Team: *team, Players: players})
}

// AddTeam validates and submits the form. It returns the form to show next:
// empty after a success, the same values otherwise.
func (a *App) AddTeam(ctx context.Context, draftID string, form AddTeamForm, sink notify.Sink) (AddTeamForm, forms.FieldErrors, error) {
	if errs := form.Validate(); !errs.Empty() {
		return form, errs, forms.ErrValidation
	}

	logo, err := a.logo.Get(ctx, draftID)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID).Msg("sending team without pending logo")
	}

	if err := a.backend.AddTeam(ctx, form.Fields(), logo.FormFile()); err != nil {
		log.Error().Err(err).Str("team_name", form.TeamName).Msg("failed to add team")
		forms.ReportFailure(sink, err, addFailedMessage, addTransportMessage)
		return form, nil, err
	}

	log.Info().Str("team_name", form.TeamName).Str("owner_name", form.OwnerName).Msg("team added")
	notify.Success(sink, addedMessage)
	a.logo.Clear(ctx, draftID)
	return AddTeamForm{}, nil, nil
}

func (a *App) SetLogo(ctx context.Context, draftID, fileName, contentType string, data []byte, sink notify.Sink) error {
	_, err := a.logo.Set(ctx, draftID, fileName, contentType, data, sink)
	return err
}

func (a *App) PendingLogo(ctx context.Context, draftID string) (*upload.Image, error) {
	return a.logo.Get(ctx, draftID)
}

func (a *App) RemoveLogo(ctx context.Context, draftID string) {
	a.logo.Clear(ctx, draftID)
}
