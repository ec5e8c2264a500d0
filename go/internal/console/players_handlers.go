package console

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/player"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

type playersData struct {
	Query        string
	Players      []models.PlayerSummary
	Total        int
	Sold         int
	Unsold       int
	EmptyMessage string
}

type playerFormData struct {
	Form          player.AddPlayerForm
	Errors        forms.FieldErrors
	Roles         []models.Role
	PictureName   string
	Preview       template.URL
	KeeperChoices []models.WicketKeeper
}

func (c *Console) handlePlayers(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	query := r.URL.Query().Get("q")

	// A failed load shows the empty list; the failure is only logged.
	dir, _ := c.players.LoadDirectory(r.Context()).Data()

	c.render(w, r, sess, sink, http.StatusOK, "players", "All Players", playersData{
		Query:        query,
		Players:      dir.Filter(query),
		Total:        dir.TotalPlayers,
		Sold:         dir.SoldCount(),
		Unsold:       dir.UnsoldCount(),
		EmptyMessage: player.EmptyListMessage,
	})
}

func (c *Console) handleAddPlayerForm(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	c.renderPlayerForm(w, r, sess, notify.NewRecorder(), http.StatusOK, player.NewAddPlayerForm(), nil)
}

func (c *Console) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	draft := draftID(sess)

	form, sub, ok := c.readPlayerForm(w, r, sess, sink)
	if !ok {
		return
	}
	if !c.pickPlayerPicture(w, r, sess, sink, form, sub) {
		return
	}

	next, errs, err := c.players.AddPlayer(r.Context(), draft, form, sink)
	switch {
	case err == nil:
		c.redirect(w, r, sess, sink, "/addPlayer")
	case errors.Is(err, forms.ErrValidation):
		c.renderPlayerForm(w, r, sess, sink, http.StatusUnprocessableEntity, next, errs)
	default:
		c.renderPlayerForm(w, r, sess, sink, http.StatusBadGateway, next, nil)
	}
}

func (c *Console) handlePlayerPicture(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	form, sub, ok := c.readPlayerForm(w, r, sess, sink)
	if !ok {
		return
	}
	if !c.pickPlayerPicture(w, r, sess, sink, form, sub) {
		return
	}
	c.renderPlayerForm(w, r, sess, sink, http.StatusOK, form, nil)
}

func (c *Console) handleRemovePlayerPicture(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	form, _, ok := c.readPlayerForm(w, r, sess, sink)
	if !ok {
		return
	}
	c.players.RemovePicture(r.Context(), draftID(sess))
	c.renderPlayerForm(w, r, sess, sink, http.StatusOK, form, nil)
}

// readPlayerForm parses the body. An oversize body is reported like an
// oversize picture and whatever fields arrived before the cap are kept.
func (c *Console) readPlayerForm(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder) (player.AddPlayerForm, *submission, bool) {
	sub, err := readSubmission(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable add-player form")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return player.AddPlayerForm{}, nil, false
	}

	form := player.AddPlayerForm{
		SerialNo:     sub.Get("serialNo"),
		PlayerName:   sub.Get("playerName"),
		Role:         models.Role(sub.Get("role")),
		WicketKeeper: models.WicketKeeper(sub.Get("wicketKeeper")),
		Age:          sub.Get("age"),
		BasePrice:    sub.Get("basePrice"),
	}
	if sub.truncated {
		notify.Error(sink, upload.ErrTooLarge.Error())
		c.renderPlayerForm(w, r, sess, sink, http.StatusRequestEntityTooLarge, form, nil)
		return form, nil, false
	}
	return form, sub, true
}

func (c *Console) pickPlayerPicture(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, form player.AddPlayerForm, sub *submission) bool {
	picked := sub.File("picture")
	if picked == nil {
		return true
	}

	if err := c.players.SetPicture(r.Context(), draftID(sess), picked.Name, picked.ContentType, picked.Data, sink); err != nil {
		if !upload.IsRejection(err) {
			log.Error().Err(err).Msg("failed to keep pending picture")
			notify.Error(sink, err.Error())
		}
		c.renderPlayerForm(w, r, sess, sink, http.StatusUnprocessableEntity, form, nil)
		return false
	}
	return true
}

func (c *Console) renderPlayerForm(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, status int, form player.AddPlayerForm, errs forms.FieldErrors) {
	data := playerFormData{
		Form:          form,
		Errors:        errs,
		Roles:         models.Roles,
		KeeperChoices: []models.WicketKeeper{models.WicketKeeperYes, models.WicketKeeperNo},
	}

	picture, err := c.players.PendingPicture(r.Context(), draftID(sess))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load pending picture")
	}
	if picture != nil {
		data.PictureName = picture.FileName
		data.Preview = template.URL(picture.PreviewDataURL())
	}

	c.render(w, r, sess, sink, status, "add_player", "Add Player", data)
}
