package console

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/teams"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

type gridData struct {
	Failed bool
	Reason string
	Cards  []teams.GridCard
}

type teamDetailData struct {
	Failed           bool
	Reason           string
	Team             models.Team
	Players          []models.Player
	Purse            string
	Available        string
	RemainingPercent float64
}

type teamFormData struct {
	Form     teams.AddTeamForm
	Errors   forms.FieldErrors
	LogoName string
	Preview  template.URL
}

func (c *Console) handleTeamGrid(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	view := c.teams.LoadGrid(r.Context(), sink)
	cards, _ := view.Data()

	c.render(w, r, sess, sink, http.StatusOK, "teams", "Teams", gridData{
		Failed: view.IsFailed(),
		Reason: view.Reason(),
		Cards:  cards,
	})
}

func (c *Console) handleTeamDetail(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	teamID := mux.Vars(r)["teamId"]

	view := c.teams.LoadDetail(r.Context(), teamID, sink)
	detail, ok := view.Data()
	if !ok {
		c.render(w, r, sess, sink, http.StatusNotFound, "team_detail", "Team not found", teamDetailData{
			Failed: true,
			Reason: view.Reason(),
		})
		return
	}

	c.render(w, r, sess, sink, http.StatusOK, "team_detail", detail.Team.TeamName, teamDetailData{
		Team:             detail.Team,
		Players:          detail.Players,
		Purse:            teams.FormatPurse(detail.Team.PurseAmount.Value),
		Available:        teams.FormatPurse(detail.Team.AvailablePurse.Value),
		RemainingPercent: teams.PurseRemainingPercent(detail.Team),
	})
}

func (c *Console) handleAddTeamForm(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	c.renderTeamForm(w, r, sess, notify.NewRecorder(), http.StatusOK, teams.AddTeamForm{}, nil)
}

func (c *Console) handleAddTeam(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	draft := draftID(sess)
	ctx := r.Context()

	form, sub, ok := c.readTeamForm(w, r, sess, sink)
	if !ok {
		return
	}

	// A logo chosen in the same submit is validated before anything is sent.
	if !c.pickTeamLogo(w, r, sess, sink, form, sub) {
		return
	}

	next, errs, err := c.teams.AddTeam(ctx, draft, form, sink)
	switch {
	case err == nil:
		c.redirect(w, r, sess, sink, "/addTeam")
	case errors.Is(err, forms.ErrValidation):
		c.renderTeamForm(w, r, sess, sink, http.StatusUnprocessableEntity, next, errs)
	default:
		c.renderTeamForm(w, r, sess, sink, http.StatusBadGateway, next, nil)
	}
}

func (c *Console) handleTeamLogo(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	form, sub, ok := c.readTeamForm(w, r, sess, sink)
	if !ok {
		return
	}
	if !c.pickTeamLogo(w, r, sess, sink, form, sub) {
		return
	}
	c.renderTeamForm(w, r, sess, sink, http.StatusOK, form, nil)
}

func (c *Console) handleRemoveTeamLogo(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	form, _, ok := c.readTeamForm(w, r, sess, sink)
	if !ok {
		return
	}
	c.teams.RemoveLogo(r.Context(), draftID(sess))
	c.renderTeamForm(w, r, sess, sink, http.StatusOK, form, nil)
}

// readTeamForm parses the body. An oversize body is reported like an
// oversize logo and whatever fields arrived before the cap are kept.
func (c *Console) readTeamForm(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder) (teams.AddTeamForm, *submission, bool) {
	sub, err := readSubmission(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable add-team form")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return teams.AddTeamForm{}, nil, false
	}

	form := teams.AddTeamForm{
		TeamName:    sub.Get("teamName"),
		OwnerName:   sub.Get("ownerName"),
		PurseAmount: sub.Get("purseAmount"),
	}
	if sub.truncated {
		notify.Error(sink, upload.ErrTooLarge.Error())
		c.renderTeamForm(w, r, sess, sink, http.StatusRequestEntityTooLarge, form, nil)
		return form, nil, false
	}
	return form, sub, true
}

// pickTeamLogo stores a logo chosen in this request. It renders the form and
// returns false when the file was rejected.
func (c *Console) pickTeamLogo(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, form teams.AddTeamForm, sub *submission) bool {
	picked := sub.File("logo")
	if picked == nil {
		return true
	}

	if err := c.teams.SetLogo(r.Context(), draftID(sess), picked.Name, picked.ContentType, picked.Data, sink); err != nil {
		if !upload.IsRejection(err) {
			log.Error().Err(err).Msg("failed to keep pending logo")
			notify.Error(sink, err.Error())
		}
		c.renderTeamForm(w, r, sess, sink, http.StatusUnprocessableEntity, form, nil)
		return false
	}
	return true
}

func (c *Console) renderTeamForm(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, status int, form teams.AddTeamForm, errs forms.FieldErrors) {
	data := teamFormData{Form: form, Errors: errs}

	logo, err := c.teams.PendingLogo(r.Context(), draftID(sess))
	if err != nil {
		log.Warn().Err(err).Msg("failed to load pending logo")
	}
	if logo != nil {
		data.LogoName = logo.FileName
		// Only accepted images reach the draft store, so the data URL is
		// always an image.
		data.Preview = template.URL(logo.PreviewDataURL())
	}

	c.render(w, r, sess, sink, status, "add_team", "Add Team", data)
}
