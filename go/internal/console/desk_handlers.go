package console

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/auction"
	"github.com/mcdev12/tplauction/go/internal/notify"
)

const defaultOutcomeLimit = 50

type deskData struct {
	SerialNo    string
	Failed      bool
	Reason      string
	Lot         auction.Lot
	AlreadySold bool
	Submitting  bool
	Stamp       *auction.Stamp
	Form        auction.AssignForm
	Unlocked    bool
}

func deskPath(serialNo string) string {
	return "/playerDetails/" + url.PathEscape(serialNo)
}

func (c *Console) handlePlayerDetail(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	serialNo := mux.Vars(r)["serialNo"]

	desk := c.desks.Desk(serialNo)
	desk.Load(r.Context())
	snap := desk.Snapshot()
	if snap.View.IsFailed() {
		c.desks.Release(serialNo)
	}

	data := deskData{
		SerialNo:   serialNo,
		Failed:     snap.View.IsFailed(),
		Reason:     snap.View.Reason(),
		Submitting: snap.Action.IsSubmitting(),
		Form:       takeAssignDraft(sess, serialNo),
		Unlocked:   c.gate.Allows(passcodeToken(sess)),
	}
	if lot, ok := snap.View.Data(); ok {
		data.Lot = lot
		data.AlreadySold = lot.AlreadySold()
	}
	if stamp, ok := snap.Stamp(); ok && stamp.Visible(c.clock.Now()) {
		data.Stamp = &stamp
	}

	status := http.StatusOK
	title := data.Lot.Player.PlayerName
	if data.Failed {
		status = http.StatusNotFound
		title = "Player not found"
	}
	c.render(w, r, sess, sink, status, "player_detail", title, data)
}

func (c *Console) handleAssign(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	serialNo := mux.Vars(r)["serialNo"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := auction.AssignForm{
		SoldPrice: r.PostFormValue("soldPrice"),
		TeamID:    r.PostFormValue("teamId"),
	}

	desk := c.deskFor(r, serialNo)

	// The entered values come back only to the operator who typed them.
	if err := desk.Assign(r.Context(), form, sink); err != nil {
		c.logDeskError(err, serialNo, "assign")
		keepAssignDraft(sess, serialNo, form)
	} else {
		clearAssignDraft(sess)
	}
	c.redirect(w, r, sess, sink, deskPath(serialNo))
}

func (c *Console) handleUnsold(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()
	serialNo := mux.Vars(r)["serialNo"]

	desk := c.deskFor(r, serialNo)

	if err := desk.MarkUnsold(r.Context(), sink); err != nil {
		c.logDeskError(err, serialNo, "unsold")
	} else {
		clearAssignDraft(sess)
	}
	c.redirect(w, r, sess, sink, deskPath(serialNo))
}

// deskFor returns the desk for serialNo, loading it when nothing is on
// screen yet. A desk that fails to load is released again.
func (c *Console) deskFor(r *http.Request, serialNo string) *auction.Desk {
	desk := c.desks.Desk(serialNo)
	if _, ok := desk.Snapshot().View.Data(); !ok {
		if desk.Load(r.Context()).IsFailed() {
			c.desks.Release(serialNo)
		}
	}
	return desk
}

func (c *Console) logDeskError(err error, serialNo, action string) {
	switch {
	case errors.Is(err, auction.ErrSubmitting):
		log.Info().Str("serial_no", serialNo).Str("action", action).Msg("ignored while submitting")
	case errors.Is(err, auction.ErrInvalidAssign):
		log.Debug().Err(err).Str("serial_no", serialNo).Msg("assignment rejected locally")
	default:
		log.Warn().Err(err).Str("serial_no", serialNo).Str("action", action).Msg("desk action failed")
	}
}

// handleSearch is the header's serial-number search. Blank input stays put.
func (c *Console) handleSearch(w http.ResponseWriter, r *http.Request) {
	serialNo := strings.TrimSpace(r.URL.Query().Get("serialNo"))
	if serialNo == "" {
		http.Redirect(w, r, localPath(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, deskPath(serialNo), http.StatusSeeOther)
}

// handlePasscode stores the operator's token. The gate only decides whether
// desk controls are drawn.
func (c *Console) handlePasscode(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token := r.PostFormValue("passcode")
	sess.Values[auction.PasscodeSessionKey] = token
	if !c.gate.Allows(token) {
		notify.Error(sink, "Incorrect passcode")
	}
	c.redirect(w, r, sess, sink, localPath(r.PostFormValue("next")))
}

type outcomesData struct {
	Enabled bool
	Failed  bool
	Entries []outcomeRow
}

type outcomeRow struct {
	RecordedAt string
	SerialNo   string
	PlayerName string
	Outcome    string
	TeamName   string
	SoldPrice  string
}

func (c *Console) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	sink := notify.NewRecorder()

	data := outcomesData{Enabled: c.outcomes != nil}
	if c.outcomes != nil {
		entries, err := c.outcomes.Recent(r.Context(), defaultOutcomeLimit)
		if err != nil {
			log.Error().Err(err).Msg("failed to load outcomes")
			data.Failed = true
		}
		for _, e := range entries {
			row := outcomeRow{
				RecordedAt: e.RecordedAt.Local().Format("02 Jan 15:04:05"),
				SerialNo:   e.SerialNo,
				PlayerName: e.Event.PlayerName,
				Outcome:    string(e.Outcome),
				TeamName:   e.Event.TeamName,
			}
			if e.SoldPrice != nil {
				row.SoldPrice = auction.FormatRupees(*e.SoldPrice)
			}
			data.Entries = append(data.Entries, row)
		}
	}

	c.render(w, r, sess, sink, http.StatusOK, "outcomes", "Outcomes", data)
}

// handleScreen serves the display page that speaks announcements pushed
// over /ws/screen.
func (c *Console) handleScreen(w http.ResponseWriter, r *http.Request) {
	sess := c.session(r)
	c.render(w, r, sess, notify.NewRecorder(), http.StatusOK, "screen", "Display", struct {
		Connected bool
	}{Connected: c.screens != nil})
}
