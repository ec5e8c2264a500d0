package player

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/upload"
	"github.com/mcdev12/tplauction/go/internal/viewstate"
)

const (
	addedMessage         = "Player added successfully!"
	addFailedMessage     = "Failed to add player"
	addTransportMessage  = "An error occurred while adding the player"
	pictureDraftFormName = "player"
)

// PlayerBackend defines what the app layer needs from the auction backend
type PlayerBackend interface {
	AddPlayer(ctx context.Context, fields []clients.FormField, picture *clients.FormFile) error
	ListPlayerSummaries(ctx context.Context) (*auction_backend_client.PlayerSummariesResponse, error)
}

// App handles the player listing and the add-player form
type App struct {
	backend PlayerBackend
	picture *upload.Pending
}

// NewApp creates a new player App
func NewApp(backend PlayerBackend, drafts upload.DraftStore) *App {
	return &App{
		backend: backend,
		picture: upload.NewPending(drafts, pictureDraftFormName),
	}
}

// LoadDirectory fetches every player summary. A failure is logged and the
// screen shows an empty list without a notification.
func (a *App) LoadDirectory(ctx context.Context) viewstate.View[Directory] {
	resp, err := a.backend.ListPlayerSummaries(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load player summaries")
		return viewstate.Failed[Directory](ErrSummariesUnavailable.Error())
	}

	return viewstate.Ready(Directory{
		Players:      resp.Data,
		TotalPlayers: resp.TotalPlayers,
	})
}

// AddPlayer validates and submits the form. It returns the form to show next:
// the defaults after a success, the same values otherwise. Field errors are
// returned together with forms.ErrValidation and nothing is sent.
func (a *App) AddPlayer(ctx context.Context, draftID string, form AddPlayerForm, sink notify.Sink) (AddPlayerForm, forms.FieldErrors, error) {
	if errs := form.Validate(); !errs.Empty() {
		return form, errs, forms.ErrValidation
	}

	picture, err := a.picture.Get(ctx, draftID)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID).Msg("sending player without pending picture")
	}

	if err := a.backend.AddPlayer(ctx, form.Fields(), picture.FormFile()); err != nil {
		log.Error().Err(err).Str("serial_no", form.SerialNo).Msg("failed to add player")
		forms.ReportFailure(sink, err, addFailedMessage, addTransportMessage)
		return form, nil, err
	}

	log.Info().Str("serial_no", form.SerialNo).Str("player_name", form.PlayerName).Msg("player added")
	notify.Success(sink, addedMessage)
	a.picture.Clear(ctx, draftID)
	return NewAddPlayerForm(), nil, nil
}

// SetPicture validates and keeps a picked picture for the draft.
func (a *App) SetPicture(ctx context.Context, draftID, fileName, contentType string, data []byte, sink notify.Sink) error {
	_, err := a.picture.Set(ctx, draftID, fileName, contentType, data, sink)
	return err
}

// PendingPicture returns the picture waiting to be sent, or nil.
func (a *App) PendingPicture(ctx context.Context, draftID string) (*upload.Image, error) {
	return a.picture.Get(ctx, draftID)
}

// RemovePicture clears the pending picture and its preview only.
func (a *App) RemovePicture(ctx context.Context, draftID string) {
	a.picture.Clear(ctx, draftID)
}
